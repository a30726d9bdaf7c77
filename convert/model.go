package convert

import (
	"context"
	"strings"

	"github.com/convertsrv/pdfconvert/logger"
	"github.com/convertsrv/pdfconvert/pdf"
)

// pageSeparator joins per-page model output in the combined text.
const pageSeparator = "\n\n---\n\n"

// ModelConverter is the v2 dispatcher: every page is rendered to an image
// and transcribed by a document-understanding model.
type ModelConverter struct {
	raster Rasterizer
	reader PageReader
	log    logger.Logger
}

// NewModelConverter creates a ModelConverter.
func NewModelConverter(raster Rasterizer, reader PageReader, log logger.Logger) *ModelConverter {
	if log == nil {
		log = logger.Noop()
	}
	return &ModelConverter{raster: raster, reader: reader, log: log}
}

// Convert renders every page and feeds it through the model, concatenating
// per-page output in page order. The model path is distinct from OCR, so
// OCRUsed is always false.
func (c *ModelConverter) Convert(ctx context.Context, data []byte) (*Result, error) {
	if err := pdf.Validate(data); err != nil {
		return nil, invalidInput(err)
	}

	pageCount, err := pdf.PageCount(data)
	if err != nil {
		return nil, invalidInput(err)
	}

	images, err := c.raster.Render(ctx, data)
	if err != nil {
		return nil, backendFailure(err)
	}

	c.log.Info("transcribing pages with model", "pages", len(images))

	texts, err := mapPages(ctx, images, c.reader.ReadPage)
	if err != nil {
		return nil, backendFailure(err)
	}

	return &Result{
		Text:      strings.Join(texts, pageSeparator),
		PageCount: pageCount,
	}, nil
}
