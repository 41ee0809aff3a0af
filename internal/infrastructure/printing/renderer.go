package printing

import (
	"context"
	"time"

	"github.com/promoshop/backend/internal/domain/printing"
)

// RenderRequest describes one HTML to PDF conversion. Margins are in
// millimeters. A zero Timeout falls back to the renderer's default.
type RenderRequest struct {
	HTML        string
	PaperSize   printing.PaperSize
	Orientation printing.Orientation
	Margins     printing.Margins
	Title       string
	// FooterHTML, when set, is repeated at the bottom of every page.
	// Typically used for page numbers.
	FooterHTML string
	Timeout    time.Duration
}

// RenderResult is the outcome of a successful conversion.
type RenderResult struct {
	PDFData        []byte
	PageCount      int
	RenderDuration time.Duration
}

// PDFRenderer converts HTML to PDF. Implementations hold external
// resources (a headless browser or a spawned binary) and must be
// closed when the application shuts down.
type PDFRenderer interface {
	Render(ctx context.Context, req *RenderRequest) (*RenderResult, error)
	Close() error
}

// Codes carried by RenderError.
const (
	ErrCodeRenderTimeout    = "RENDER_TIMEOUT"
	ErrCodeRenderFailed     = "RENDER_FAILED"
	ErrCodeInvalidHTML      = "INVALID_HTML"
	ErrCodeBinaryNotFound   = "BINARY_NOT_FOUND"
	ErrCodeInvalidPaperSize = "INVALID_PAPER_SIZE"
	ErrCodeStorageFailed    = "STORAGE_FAILED"
)

// RenderError classifies a rendering failure so callers can decide
// between retrying and giving up.
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{Code: code, Message: message, Cause: cause}
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}
