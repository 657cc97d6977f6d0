package handler

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/marlosirapuan/doc-sign-web/internal/http/middleware"
	"github.com/marlosirapuan/doc-sign-web/internal/notify"
	"github.com/marlosirapuan/doc-sign-web/internal/service"
	"github.com/marlosirapuan/doc-sign-web/internal/session"
	"github.com/marlosirapuan/doc-sign-web/internal/signature"
)

// Pinger checks reachability of the external signing service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps bundles everything the routes need.
type Deps struct {
	Controller    service.Controller
	Session       *session.Store
	Notifications *notify.LogNotifier
	Backend       Pinger
}

// RegisterRoutes attaches all gateway routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, d Deps) {
	// Pages, guarded per variant.
	app.Get("/", middleware.ProtectedPage(d.Session), IndexPage())
	app.Get("/login", middleware.PublicOnlyPage(d.Session), LoginPage())

	// Docs and probes.
	app.Get("/openapi.yaml", OpenAPISpec())
	app.Get("/docs", DocsPage())
	app.Get("/health", HealthCheck(d.Backend))
	app.Get("/healthz", LivenessProbe())

	// Session endpoints.
	app.Post("/api/login", LoginHandler(d.Controller))
	app.Post("/api/logout", LogoutHandler(d.Controller))

	// Everything below requires an active session.
	api := app.Group("/api", middleware.RequireToken(d.Session))

	api.Get("/documents", ListDocuments(d.Controller))
	api.Post("/documents", UploadDocument(d.Controller))
	api.Delete("/documents/:id", DeleteDocument(d.Controller))
	api.Get("/documents/:id/download", DownloadDocument(d.Controller))

	api.Get("/signature", SignatureState(d.Controller))
	api.Post("/signature/drawn", SaveDrawnSignature(d.Controller))
	api.Post("/signature/image", SaveImageSignature(d.Controller))
	api.Post("/signature/mode", SetSignatureMode(d.Controller))
	api.Post("/signature/position", SetSignaturePosition(d.Controller))

	api.Get("/notifications", Notifications(d.Notifications))
}

// HealthCheck reports whether the external signing service is reachable.
func HealthCheck(p Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "signing service unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe is a simple liveness check.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginHandler exchanges credentials for a server-held session. The token
// itself never leaves the gateway.
func LoginHandler(ctrl service.Controller) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body loginRequest
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid login payload")
		}
		if body.Email == "" || body.Password == "" {
			return writeError(c, fiber.StatusBadRequest, "CREDENTIALS_REQUIRED", "email and password are required")
		}

		if err := ctrl.Login(c.UserContext(), body.Email, body.Password); err != nil {
			return mapDomainError(c, err)
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}

// LogoutHandler clears the session.
func LogoutHandler(ctrl service.Controller) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := ctrl.Logout(); err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}

// documentListResponse is the list payload, carrying the in-flight delete
// marker alongside the cached records.
type documentListResponse struct {
	Data       []documentView `json:"data"`
	DeletingID *int64         `json:"deleting_id"`
}

type documentView struct {
	ID        int64  `json:"id"`
	FileName  string `json:"file_name"`
	Signed    bool   `json:"signed"`
	CreatedAt string `json:"created_at"`
	IP        string `json:"ip,omitempty"`
}

// ListDocuments serves the cached document list. `?refresh=1` re-fetches from
// the backend first; the newest fetch wins.
func ListDocuments(ctrl service.Controller) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.QueryBool("refresh") {
			if err := ctrl.Refresh(c.UserContext()); err != nil {
				return mapDomainError(c, err)
			}
		}

		docs := ctrl.Documents()
		views := make([]documentView, 0, len(docs))
		for _, doc := range docs {
			views = append(views, documentView{
				ID:        doc.ID,
				FileName:  doc.FileName(),
				Signed:    doc.Signed,
				CreatedAt: doc.CreatedAtDisplay(),
				IP:        doc.Metadata.IP,
			})
		}

		res := documentListResponse{Data: views}
		if id, busy := ctrl.InFlight(); busy {
			res.DeletingID = &id
		}
		return c.JSON(res)
	}
}

// UploadDocument submits the selected file with the current signature
// composition (multipart/form-data, field name: file).
func UploadDocument(ctrl service.Controller) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var file service.SourceFile
		if fh, err := c.FormFile("file"); err == nil {
			f, err := fh.Open()
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
			}
			defer f.Close()
			file = service.SourceFile{Name: fh.Filename, Content: f}
		}

		// Missing file/signature validation lives in the controller so the
		// warning notification is surfaced from one place.
		doc, err := ctrl.Submit(c.UserContext(), file)
		if err != nil {
			return mapDomainError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

// DeleteDocument removes one document. The browser's confirmation dialog is
// relayed as `?confirm=true`; without it no backend call is made.
func DeleteDocument(ctrl service.Controller) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		if err := ctrl.DeleteOne(c.UserContext(), id, c.QueryBool("confirm")); err != nil {
			return mapDomainError(c, err)
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}

// DownloadDocument streams the raw document under its deterministic name.
func DownloadDocument(ctrl service.Controller) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseID(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		name, content, err := ctrl.DownloadOne(c.UserContext(), id)
		if err != nil {
			return mapDomainError(c, err)
		}

		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
		c.Type("pdf")
		return c.Send(content)
	}
}

// signatureStateResponse mirrors the composer for the upload form.
type signatureStateResponse struct {
	Mode     signature.Mode     `json:"mode"`
	Saved    bool               `json:"saved"`
	Position signature.Position `json:"position"`
	Presets  []signature.Preset `json:"presets"`
}

// SignatureState reports the composer snapshot.
func SignatureState(ctrl service.Controller) fiber.Handler {
	return func(c *fiber.Ctx) error {
		comp := ctrl.Composer()
		return c.JSON(signatureStateResponse{
			Mode:     comp.Mode(),
			Saved:    comp.Saved(),
			Position: comp.Position(),
			Presets:  signature.Presets(),
		})
	}
}

// SaveDrawnSignature stores the canvas capture sent as a PNG data URL.
func SaveDrawnSignature(ctrl service.Controller) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			DataURL string `json:"data_url"`
		}
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid signature payload")
		}

		if err := ctrl.Composer().SaveDrawn(body.DataURL); err != nil {
			return mapDomainError(c, err)
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}

// SaveImageSignature stores an uploaded signature image (multipart field:
// signature).
func SaveImageSignature(ctrl service.Controller) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("signature")
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "SIGNATURE_REQUIRED", "signature image is required")
		}

		f, err := fh.Open()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "FILE_READ_ERROR", "cannot read uploaded file")
		}

		if err := ctrl.Composer().SaveImage(data); err != nil {
			return mapDomainError(c, err)
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}

// SetSignatureMode switches the capture mode, discarding the other mode's
// payload.
func SetSignatureMode(ctrl service.Controller) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			Mode string `json:"mode"`
		}
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid mode payload")
		}

		mode, err := signature.ParseMode(body.Mode)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_MODE", "unknown signature mode")
		}
		ctrl.Composer().SetMode(mode)
		return c.JSON(fiber.Map{"status": "ok"})
	}
}

// SetSignaturePosition selects a placement preset.
func SetSignaturePosition(ctrl service.Controller) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body struct {
			Preset string `json:"preset"`
		}
		if err := c.BodyParser(&body); err != nil {
			return writeError(c, fiber.StatusBadRequest, "BAD_REQUEST", "invalid position payload")
		}

		if err := ctrl.Composer().SelectPreset(body.Preset); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_PRESET", "unknown position preset")
		}
		return c.JSON(fiber.Map{"status": "ok"})
	}
}

// Notifications serves the recent notification feed the pages poll.
func Notifications(n *notify.LogNotifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"data": n.Recent()})
	}
}

func parseID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("id"), 10, 64)
}
