// Package service orchestrates the document lifecycle: submit, delete,
// download, refresh. All user-facing failures are converted to uniform
// notifications at this boundary; nothing here is fatal to the process.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/marlosirapuan/doc-sign-web/internal/backend"
	"github.com/marlosirapuan/doc-sign-web/internal/geo"
	"github.com/marlosirapuan/doc-sign-web/internal/model"
	"github.com/marlosirapuan/doc-sign-web/internal/notify"
	"github.com/marlosirapuan/doc-sign-web/internal/session"
	"github.com/marlosirapuan/doc-sign-web/internal/signature"
)

var (
	// ErrMissingFile means no source document was provided for an upload.
	ErrMissingFile = errors.New("document file is required")
	// ErrConfirmationRequired means a delete was attempted without the
	// interactive confirmation step.
	ErrConfirmationRequired = errors.New("delete requires confirmation")
)

// SourceFile is the document chosen for upload.
type SourceFile struct {
	Name    string
	Content io.Reader
}

// Controller drives the session-gated document lifecycle.
type Controller interface {
	// Login authenticates against the backend and stores the session token.
	Login(ctx context.Context, email, password string) error
	// Logout clears the session.
	Logout() error
	// Submit validates the composer state, attaches best-effort location
	// context, uploads, and refreshes the cached list on success.
	Submit(ctx context.Context, file SourceFile) (*model.DocumentRecord, error)
	// DeleteOne removes a document after confirmation, tracking the single
	// in-flight id for busy indicators.
	DeleteOne(ctx context.Context, id int64, confirmed bool) error
	// DownloadOne fetches raw content plus its deterministic save-as name.
	DownloadOne(ctx context.Context, id int64) (string, []byte, error)
	// Refresh replaces the cached document list wholesale.
	Refresh(ctx context.Context) error
	// Documents returns a snapshot of the cached list.
	Documents() []model.DocumentRecord
	// InFlight reports the id currently being deleted, if any.
	InFlight() (int64, bool)
	// Composer exposes the signature composition state.
	Composer() *signature.Composer
}

// documentController is the concrete Controller.
type documentController struct {
	client     backend.Client
	sess       *session.Store
	composer   *signature.Composer
	location   geo.Lookup
	notifier   notify.Notifier
	geoTimeout time.Duration

	mu   sync.RWMutex
	docs []model.DocumentRecord

	// deletingID holds the single in-flight delete id; zero means none.
	deletingID atomic.Int64
}

// NewController constructs the lifecycle controller. location may be nil to
// skip the optional context lookup entirely.
func NewController(
	client backend.Client,
	sess *session.Store,
	composer *signature.Composer,
	location geo.Lookup,
	notifier notify.Notifier,
	geoTimeout time.Duration,
) Controller {
	if geoTimeout <= 0 {
		geoTimeout = 2 * time.Second
	}
	return &documentController{
		client:     client,
		sess:       sess,
		composer:   composer,
		location:   location,
		notifier:   notifier,
		geoTimeout: geoTimeout,
	}
}

func (c *documentController) Login(ctx context.Context, email, password string) error {
	token, err := c.client.Login(ctx, email, password)
	if err != nil {
		if errors.Is(err, backend.ErrInvalidCredentials) {
			c.notifier.Failure("Error", "Invalid email or password")
		} else {
			c.notifier.Failure("Error", "Could not reach the signing service")
		}
		return err
	}
	if err := c.sess.Login(token); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

func (c *documentController) Logout() error {
	return c.sess.Logout()
}

func (c *documentController) Submit(ctx context.Context, file SourceFile) (*model.DocumentRecord, error) {
	if file.Name == "" || file.Content == nil {
		c.notifier.Warning("Attention", "Please select a PDF or DOCX file!")
		return nil, ErrMissingFile
	}

	comp, err := c.composer.Compose()
	if err != nil {
		if c.composer.Mode() == signature.ModeDrawn {
			c.notifier.Warning("Attention", "Please draw your signature and save it first!")
		} else {
			c.notifier.Warning("Attention", "Please upload your signature first!")
		}
		return nil, err
	}

	// Best-effort location context: one bounded attempt, never retried,
	// never blocking.
	var loc *geo.Context
	if c.location != nil {
		geoCtx, cancel := context.WithTimeout(ctx, c.geoTimeout)
		loc = c.location.Current(geoCtx)
		cancel()
	}

	doc, err := c.client.Create(ctx, backend.UploadRequest{
		FileName:  file.Name,
		File:      file.Content,
		Signature: comp.Payload,
		Position:  comp.Position,
		Location:  loc,
	})
	if err != nil {
		if errors.Is(err, backend.ErrAuthExpired) {
			return nil, err
		}
		// Composer and file selection stay intact so the user can retry.
		c.notifier.Failure("Error", "Error uploading document!")
		return nil, err
	}

	c.notifier.Success("Success", "Document uploaded successfully!")

	// The submit has fully completed; a failed refresh keeps the stale
	// cache and is recovered by the next list fetch.
	_ = c.Refresh(ctx)

	return doc, nil
}

func (c *documentController) DeleteOne(ctx context.Context, id int64, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}

	c.deletingID.Store(id)
	// Compare-and-clear: a concurrent delete on another row owns the marker.
	defer c.deletingID.CompareAndSwap(id, 0)

	status, err := c.client.Remove(ctx, id)
	if err != nil {
		if errors.Is(err, backend.ErrAuthExpired) {
			return err
		}
		c.notifier.Failure("Error", "Error deleting document!")
		return err
	}
	if status != http.StatusOK {
		c.notifier.Failure("Error", "Error deleting document!")
		return nil
	}

	c.notifier.Success("Success", "Document deleted successfully!")
	_ = c.Refresh(ctx)
	return nil
}

func (c *documentController) DownloadOne(ctx context.Context, id int64) (string, []byte, error) {
	content, err := c.client.Download(ctx, id)
	if err != nil {
		if errors.Is(err, backend.ErrAuthExpired) {
			return "", nil, err
		}
		c.notifier.Failure("Error", "Error downloading document!")
		return "", nil, err
	}
	return fmt.Sprintf("document-%d.pdf", id), content, nil
}

func (c *documentController) Refresh(ctx context.Context) error {
	docs, err := c.client.List(ctx)
	if err != nil {
		return err
	}

	// Wholesale replacement; a newer fetch supersedes an older one.
	c.mu.Lock()
	c.docs = docs
	c.mu.Unlock()
	return nil
}

func (c *documentController) Documents() []model.DocumentRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.DocumentRecord, len(c.docs))
	copy(out, c.docs)
	return out
}

func (c *documentController) InFlight() (int64, bool) {
	id := c.deletingID.Load()
	return id, id != 0
}

func (c *documentController) Composer() *signature.Composer {
	return c.composer
}
