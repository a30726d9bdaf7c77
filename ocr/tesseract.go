package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Tesseract is an Engine backed by the gosseract client.
type Tesseract struct {
	languages []string
}

// NewTesseract creates a Tesseract engine. Languages are trained-data
// hints such as "eng" or "deu"; none means the engine default.
func NewTesseract(languages ...string) *Tesseract {
	return &Tesseract{languages: languages}
}

// Name returns the engine name.
func (t *Tesseract) Name() string { return "tesseract" }

// Recognize runs OCR over a single encoded image. A fresh client is used
// per call so concurrent recognitions do not share state.
func (t *Tesseract) Recognize(ctx context.Context, image []byte) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	client := gosseract.NewClient()
	defer client.Close()

	if len(t.languages) > 0 {
		if err := client.SetLanguage(t.languages...); err != nil {
			return "", fmt.Errorf("failed to set OCR languages: %w", err)
		}
	}
	if err := client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("failed to load image for OCR: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return strings.TrimSpace(text), nil
}
