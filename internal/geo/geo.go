// Package geo resolves optional upload context: the caller's public IP and a
// coarse geolocation for it.
//
// Everything here is best-effort. Lookups are bounded by a short timeout and
// every failure degrades to "no context" instead of an error; an upload must
// never be blocked by a missing IP or location.
package geo

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/marlosirapuan/doc-sign-web/internal/config"
	"github.com/marlosirapuan/doc-sign-web/internal/model"
)

// Context is the optional location metadata attached to an upload.
type Context struct {
	IP          string
	Geolocation *model.GeoPoint
}

// Lookup resolves the current location context. A nil result means nothing
// could be determined; partial results (IP without geolocation) are valid.
type Lookup interface {
	Current(ctx context.Context) *Context
}

// Client queries public IP and IP-geolocation JSON endpoints.
type Client struct {
	ipEndpoint  string
	geoEndpoint string
	httpClient  *http.Client
}

// NewClient builds a lookup client from configuration.
func NewClient(cfg config.GeoConfig) *Client {
	return &Client{
		ipEndpoint:  cfg.IPEndpoint,
		geoEndpoint: strings.TrimSuffix(cfg.GeoEndpoint, "/"),
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

type ipResponse struct {
	IP string `json:"ip"`
}

type geoResponse struct {
	Status string  `json:"status"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
}

// Current resolves the public IP, then its geolocation. This is a single
// attempt with no retry; either half may be absent in the result.
func (c *Client) Current(ctx context.Context) *Context {
	var ipRes ipResponse
	if err := c.getJSON(ctx, c.ipEndpoint, &ipRes); err != nil || ipRes.IP == "" {
		return nil
	}

	result := &Context{IP: ipRes.IP}

	var geoRes geoResponse
	if err := c.getJSON(ctx, c.geoEndpoint+"/"+ipRes.IP, &geoRes); err != nil {
		return result
	}
	// ip-api reports failures inside a 200 body.
	if geoRes.Status != "" && geoRes.Status != "success" {
		return result
	}
	result.Geolocation = &model.GeoPoint{Latitude: geoRes.Lat, Longitude: geoRes.Lon}
	return result
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return &statusError{code: res.StatusCode}
	}
	return json.NewDecoder(res.Body).Decode(out)
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return "unexpected status " + http.StatusText(e.code)
}
