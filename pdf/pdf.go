// Package pdf reads PDF documents: text-layer extraction, page counting,
// structural validation, and page rasterization.
package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Document holds the text layer of a parsed PDF, one entry per page.
type Document struct {
	Pages     []string
	PageCount int
}

// Text returns the concatenated text layer in page order.
func (d *Document) Text() string {
	return strings.Join(d.Pages, "\n")
}

// TextChars counts the non-whitespace characters across all pages. It is
// the signal used to decide whether a document is likely scanned.
func (d *Document) TextChars() int {
	count := 0
	for _, page := range d.Pages {
		for _, r := range page {
			if !unicode.IsSpace(r) {
				count++
			}
		}
	}
	return count
}

// Extract parses the PDF and returns its embedded text layer. Pages whose
// extraction fails individually contribute an empty string instead of
// failing the whole document; image-only pages commonly do this.
func Extract(data []byte) (doc *Document, err error) {
	// The underlying reader panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("failed to parse PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to parse PDF: %w", err)
	}

	pageCount := reader.NumPage()
	pages := make([]string, 0, pageCount)
	for i := 1; i <= pageCount; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			pages = append(pages, "")
			continue
		}
		pages = append(pages, strings.TrimSpace(text))
	}

	return &Document{Pages: pages, PageCount: pageCount}, nil
}

// PageCount returns the number of pages in the document.
func PageCount(data []byte) (int, error) {
	count, err := api.PageCount(bytes.NewReader(data), relaxedConf())
	if err != nil {
		return 0, fmt.Errorf("failed to count pages: %w", err)
	}
	return count, nil
}

// Validate checks that the bytes form a structurally sound PDF. It is run
// before any conversion work so corrupt uploads fail fast.
func Validate(data []byte) error {
	if err := api.Validate(bytes.NewReader(data), relaxedConf()); err != nil {
		return fmt.Errorf("invalid PDF: %w", err)
	}
	return nil
}

func relaxedConf() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}
