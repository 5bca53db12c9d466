package pdf

import (
	"errors"
	"fmt"
)

// ErrRenderFailed is the sentinel wrapped by every rendering failure.
// Callers translate it into a request-level error; there is no partial
// document fallback.
var ErrRenderFailed = errors.New("PDF rendering failed")

// RenderError carries diagnostic context for a failed document build.
type RenderError struct {
	// Op is the operation that failed (e.g. "Render").
	Op string

	// InvoiceNumber identifies the document being built, if known.
	InvoiceNumber string

	// Err is the underlying error.
	Err error
}

func (e *RenderError) Error() string {
	if e.InvoiceNumber != "" {
		return fmt.Sprintf("pdf: %s failed (invoice: %s): %v", e.Op, e.InvoiceNumber, e.Err)
	}
	return fmt.Sprintf("pdf: %s failed: %v", e.Op, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

func (e *RenderError) Is(target error) bool {
	return target == ErrRenderFailed || errors.Is(e.Err, target)
}
