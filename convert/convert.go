// Package convert turns uploaded PDF bytes into extracted text.
package convert

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// pageLimit bounds concurrent per-page OCR and model calls.
const pageLimit = 4

// Result is the outcome of a conversion. Immutable once constructed.
type Result struct {
	Text      string
	PageCount int
	OCRUsed   bool
}

// Converter converts PDF bytes into a Result.
type Converter interface {
	Convert(ctx context.Context, data []byte) (*Result, error)
}

// Rasterizer renders PDF pages to encoded images in page order.
type Rasterizer interface {
	Render(ctx context.Context, content []byte) ([][]byte, error)
}

// PageReader transcribes a single page image to text.
type PageReader interface {
	ReadPage(ctx context.Context, image []byte) (string, error)
}

// Kind classifies a conversion failure.
type Kind string

const (
	// KindInvalidInput means the upload is not a parseable PDF.
	KindInvalidInput Kind = "invalid_input"
	// KindBackend means rasterization, OCR, or model inference failed.
	KindBackend Kind = "backend"
)

// ConversionError reports a failed conversion.
type ConversionError struct {
	Kind Kind
	Err  error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("conversion failed: %v", e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// IsInvalidInput reports whether err is a ConversionError caused by
// unparseable input rather than a backend failure.
func IsInvalidInput(err error) bool {
	var cerr *ConversionError
	return errors.As(err, &cerr) && cerr.Kind == KindInvalidInput
}

func invalidInput(err error) error {
	return &ConversionError{Kind: KindInvalidInput, Err: err}
}

func backendFailure(err error) error {
	return &ConversionError{Kind: KindBackend, Err: err}
}

// mapPages applies fn to every page image concurrently, bounded by
// pageLimit, and returns the results in page order.
func mapPages(ctx context.Context, images [][]byte, fn func(ctx context.Context, image []byte) (string, error)) ([]string, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(pageLimit)

	texts := make([]string, len(images))
	for i, image := range images {
		g.Go(func() error {
			text, err := fn(ctx, image)
			if err != nil {
				return fmt.Errorf("page %d: %w", i+1, err)
			}
			texts[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return texts, nil
}
