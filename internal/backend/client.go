// Package backend is the typed HTTP client for the external eSignature
// service. Every authenticated call attaches the session store's current
// token as a bearer credential; a 401 on any of them clears the session
// through a single interceptor instead of per-call handling.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/marlosirapuan/doc-sign-web/internal/config"
	"github.com/marlosirapuan/doc-sign-web/internal/geo"
	"github.com/marlosirapuan/doc-sign-web/internal/model"
	"github.com/marlosirapuan/doc-sign-web/internal/session"
	"github.com/marlosirapuan/doc-sign-web/internal/signature"
)

// signatureFileName is the fixed part name the backend expects for the
// signature image.
const signatureFileName = "my-signature.png"

// UploadRequest is the one-shot payload for Create. Location is entirely
// optional; a nil value simply omits the context fields.
type UploadRequest struct {
	FileName  string
	File      io.Reader
	Signature []byte
	Position  signature.Position
	Location  *geo.Context
}

// Client is the document transport surface consumed by the lifecycle
// controller. Calls do not auto-retry; the caller decides.
type Client interface {
	// Login exchanges credentials for a bearer token.
	Login(ctx context.Context, email, password string) (string, error)
	// List fetches all document records.
	List(ctx context.Context) ([]model.DocumentRecord, error)
	// Create uploads the document with its signature composition.
	Create(ctx context.Context, up UploadRequest) (*model.DocumentRecord, error)
	// Remove deletes a document. Non-2xx responses are reported through the
	// returned status code rather than an error so the caller can surface a
	// uniform failure notification.
	Remove(ctx context.Context, id int64) (int, error)
	// Download fetches the raw document content.
	Download(ctx context.Context, id int64) ([]byte, error)
}

// HTTPClient implements Client against a REST backend.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	session    *session.Store
}

// NewHTTPClient builds a client for the configured backend, instrumented for
// tracing and bounded by the configured request timeout.
func NewHTTPClient(cfg config.BackendConfig, sess *session.Store) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout:   cfg.RequestTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		session: sess,
	}
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (string, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return "", fmt.Errorf("encode login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	// Login is the credential check itself, so it bypasses the session
	// expiry interceptor.
	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", &TransportError{Op: "login", Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusUnauthorized || res.StatusCode == http.StatusForbidden {
		return "", ErrInvalidCredentials
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return "", &TransportError{Op: "login", StatusCode: res.StatusCode}
	}

	var payload struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return "", &TransportError{Op: "login", Err: fmt.Errorf("decode response: %w", err)}
	}
	if payload.Token == "" {
		return "", ErrInvalidCredentials
	}
	return payload.Token, nil
}

func (c *HTTPClient) List(ctx context.Context) ([]model.DocumentRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/documents", nil)
	if err != nil {
		return nil, fmt.Errorf("create list request: %w", err)
	}

	res, err := c.do("list", req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &TransportError{Op: "list", StatusCode: res.StatusCode}
	}

	var docs []model.DocumentRecord
	if err := json.NewDecoder(res.Body).Decode(&docs); err != nil {
		return nil, &TransportError{Op: "list", Err: fmt.Errorf("decode response: %w", err)}
	}
	return docs, nil
}

func (c *HTTPClient) Create(ctx context.Context, up UploadRequest) (*model.DocumentRecord, error) {
	body, contentType, err := buildUploadBody(up)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/documents", body)
	if err != nil {
		return nil, fmt.Errorf("create upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	res, err := c.do("create", req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		// Rejection reasons (file type, size limits) are the backend's call.
		return nil, &TransportError{Op: "create", StatusCode: res.StatusCode}
	}

	var doc model.DocumentRecord
	if err := json.NewDecoder(res.Body).Decode(&doc); err != nil {
		return nil, &TransportError{Op: "create", Err: fmt.Errorf("decode response: %w", err)}
	}
	return &doc, nil
}

func (c *HTTPClient) Remove(ctx context.Context, id int64) (int, error) {
	url := fmt.Sprintf("%s/documents/%d", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return 0, fmt.Errorf("create delete request: %w", err)
	}

	res, err := c.do("remove", req)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()
	io.Copy(io.Discard, res.Body)

	return res.StatusCode, nil
}

func (c *HTTPClient) Download(ctx context.Context, id int64) ([]byte, error) {
	url := fmt.Sprintf("%s/documents/%d/download", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create download request: %w", err)
	}

	res, err := c.do("download", req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &TransportError{Op: "download", StatusCode: res.StatusCode}
	}
	content, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &TransportError{Op: "download", Err: err}
	}
	return content, nil
}

// Ping checks that the backend answers at all. Any HTTP response counts as
// reachable; only transport failures are reported.
func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("create ping request: %w", err)
	}
	res, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: "ping", Err: err}
	}
	defer res.Body.Close()
	io.Copy(io.Discard, res.Body)
	return nil
}

// do executes an authenticated request. A missing token sends the request
// unauthenticated and lets the backend reject it. A 401 response clears the
// session here, once, regardless of which operation triggered it.
func (c *HTTPClient) do(op string, req *http.Request) (*http.Response, error) {
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	if res.StatusCode == http.StatusUnauthorized {
		res.Body.Close()
		_ = c.session.Logout()
		return nil, ErrAuthExpired
	}
	return res, nil
}

// buildUploadBody assembles the multipart form the backend expects:
// file, signature (named my-signature.png), stringified signature_x and
// signature_y, and the optional ip/geolocation context fields.
func buildUploadBody(up UploadRequest) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	filePart, err := w.CreateFormFile("file", up.FileName)
	if err != nil {
		return nil, "", fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(filePart, up.File); err != nil {
		return nil, "", fmt.Errorf("copy file content: %w", err)
	}

	sigHeader := textproto.MIMEHeader{}
	sigHeader.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="signature"; filename=%q`, signatureFileName))
	sigHeader.Set("Content-Type", "image/png")
	sigPart, err := w.CreatePart(sigHeader)
	if err != nil {
		return nil, "", fmt.Errorf("create signature part: %w", err)
	}
	if _, err := sigPart.Write(up.Signature); err != nil {
		return nil, "", fmt.Errorf("write signature content: %w", err)
	}

	if err := w.WriteField("signature_x", formatCoord(up.Position.X)); err != nil {
		return nil, "", fmt.Errorf("write signature_x: %w", err)
	}
	if err := w.WriteField("signature_y", formatCoord(up.Position.Y)); err != nil {
		return nil, "", fmt.Errorf("write signature_y: %w", err)
	}

	if up.Location != nil {
		if up.Location.IP != "" {
			if err := w.WriteField("ip", up.Location.IP); err != nil {
				return nil, "", fmt.Errorf("write ip: %w", err)
			}
		}
		if g := up.Location.Geolocation; g != nil {
			value := formatCoord(g.Latitude) + "," + formatCoord(g.Longitude)
			if err := w.WriteField("geolocation", value); err != nil {
				return nil, "", fmt.Errorf("write geolocation: %w", err)
			}
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("finalize multipart body: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}

// formatCoord renders a coordinate the way the form did: no exponent, no
// trailing zeros, so 30.0 becomes "30".
func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
