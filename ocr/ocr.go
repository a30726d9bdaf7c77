// Package ocr recognizes text in page images.
package ocr

import "context"

// Engine is the OCR provider contract: one encoded image in, plain text out.
type Engine interface {
	Name() string
	Recognize(ctx context.Context, image []byte) (string, error)
}
