// Package pdf wraps an external PDF renderer with password recovery and
// page-bounds validation for batch extraction.
package pdf

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// ErrPasswordRequired classifies open failures on protected documents whose
// password could not be recovered from the file name.
var ErrPasswordRequired = eris.New("pdf: password required")

// Document is an open PDF exposing page count and page rasterization.
// RenderPage returns a PNG-encoded payload for a valid 1-based page number;
// scale is the upscaling hint applied when the backend rasterizes.
type Document interface {
	PageCount() int
	RenderPage(page int, scale float64) ([]byte, error)
	Close() error
}

// Opener opens a PDF from raw bytes. An empty password means none. Open must
// return an error wrapping ErrPasswordRequired when the document is protected
// and the given password does not unlock it.
type Opener interface {
	Open(ctx context.Context, data []byte, password string) (Document, error)
}

// Renderer drives an Opener with password recovery. The render scale is fixed
// per renderer; 1.5 balances legible text against payload size for the
// downstream model call.
type Renderer struct {
	opener Opener
	scale  float64
}

// NewRenderer creates a renderer around the given opener.
func NewRenderer(opener Opener, scale float64) *Renderer {
	if scale <= 0 {
		scale = 1.5
	}
	return &Renderer{opener: opener, scale: scale}
}

// PageCount opens the file (recovering a password if needed) and returns its
// page count.
func (r *Renderer) PageCount(ctx context.Context, path string) (int, error) {
	doc, err := r.open(ctx, path)
	if err != nil {
		return 0, err
	}
	defer doc.Close()
	return doc.PageCount(), nil
}

// RenderPage opens the file, validates the page number against the document's
// page count and returns the page's PNG payload.
func (r *Renderer) RenderPage(ctx context.Context, path string, page int) ([]byte, error) {
	doc, err := r.open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	if page < 1 || page > doc.PageCount() {
		return nil, eris.Errorf("pdf: page %d out of range, document has %d pages", page, doc.PageCount())
	}
	return doc.RenderPage(page, r.scale)
}

// open reads the file and attempts to open it, first without a password, then
// with each candidate derived from the file name. When every candidate fails
// the original password failure is propagated.
func (r *Renderer) open(ctx context.Context, path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "pdf: read %s", path)
	}

	doc, openErr := r.opener.Open(ctx, data, "")
	if openErr == nil {
		return doc, nil
	}
	if !eris.Is(openErr, ErrPasswordRequired) {
		return nil, openErr
	}

	for _, password := range CandidatePasswords(filepath.Base(path)) {
		doc, err := r.opener.Open(ctx, data, password)
		if err == nil {
			return doc, nil
		}
	}
	return nil, openErr
}
