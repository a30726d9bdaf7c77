package convert

import (
	"context"
	"strings"

	"github.com/convertsrv/pdfconvert/logger"
	"github.com/convertsrv/pdfconvert/ocr"
	"github.com/convertsrv/pdfconvert/pdf"
)

// TextConverterConfig controls the v1 conversion path.
type TextConverterConfig struct {
	// OCREnabled enables the OCR fallback for scanned documents.
	OCREnabled bool
	// MinTextChars is the scanned-document heuristic: if the text layer
	// yields no more than this many non-whitespace characters, the document
	// is treated as scanned. Zero means any non-whitespace text counts.
	MinTextChars int
}

// TextConverter is the v1 dispatcher: direct text-layer extraction with an
// OCR fallback for documents that have none.
type TextConverter struct {
	cfg    TextConverterConfig
	raster Rasterizer
	engine ocr.Engine
	log    logger.Logger
}

// NewTextConverter creates a TextConverter. The rasterizer and engine are
// only used on the OCR fallback path and may be nil when OCR is disabled.
func NewTextConverter(cfg TextConverterConfig, raster Rasterizer, engine ocr.Engine, log logger.Logger) *TextConverter {
	if log == nil {
		log = logger.Noop()
	}
	return &TextConverter{cfg: cfg, raster: raster, engine: engine, log: log}
}

// Convert extracts the text layer of the PDF. When the text layer is
// effectively empty and OCR is enabled, every page is rasterized and run
// through the OCR engine instead, in page order. The reported page count
// always equals the source document's page count.
func (c *TextConverter) Convert(ctx context.Context, data []byte) (*Result, error) {
	if err := pdf.Validate(data); err != nil {
		return nil, invalidInput(err)
	}

	doc, err := pdf.Extract(data)
	if err != nil {
		return nil, invalidInput(err)
	}

	if doc.TextChars() > c.cfg.MinTextChars {
		c.log.Debug("text layer extracted", "pages", doc.PageCount, "chars", doc.TextChars())
		return &Result{Text: doc.Text(), PageCount: doc.PageCount}, nil
	}

	if !c.cfg.OCREnabled || c.engine == nil || c.raster == nil {
		c.log.Info("text layer empty and OCR disabled, returning empty text", "pages", doc.PageCount)
		return &Result{Text: doc.Text(), PageCount: doc.PageCount}, nil
	}

	c.log.Info("text layer empty, falling back to OCR", "pages", doc.PageCount, "engine", c.engine.Name())

	images, err := c.raster.Render(ctx, data)
	if err != nil {
		return nil, backendFailure(err)
	}

	texts, err := mapPages(ctx, images, c.engine.Recognize)
	if err != nil {
		return nil, backendFailure(err)
	}

	return &Result{
		Text:      strings.Join(texts, "\n"),
		PageCount: doc.PageCount,
		OCRUsed:   true,
	}, nil
}
