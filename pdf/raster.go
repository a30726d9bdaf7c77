package pdf

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
)

// Rasterizer renders PDF pages to PNG images using pdftoppm from Poppler.
type Rasterizer struct {
	dpi int
}

// NewRasterizer creates a Rasterizer rendering at the given resolution.
func NewRasterizer(dpi int) *Rasterizer {
	return &Rasterizer{dpi: dpi}
}

var pageNumRe = regexp.MustCompile(`(\d+)\.png$`)

// Render converts every page of the PDF to a PNG image, returned in page
// order. The work happens in a temp directory that is removed before
// returning.
func (r *Rasterizer) Render(ctx context.Context, content []byte) ([][]byte, error) {
	if len(content) == 0 {
		return nil, fmt.Errorf("empty PDF content")
	}

	if _, err := exec.LookPath("pdftoppm"); err != nil {
		return nil, fmt.Errorf("pdftoppm not found in PATH: %w", err)
	}

	tmpDir, err := os.MkdirTemp("", "pdfconvert-raster-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	srcPath := filepath.Join(tmpDir, "source.pdf")
	if err := os.WriteFile(srcPath, content, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write PDF to temp file: %w", err)
	}

	prefix := filepath.Join(tmpDir, "page")
	cmd := exec.CommandContext(ctx, "pdftoppm", "-png", "-r", strconv.Itoa(r.dpi), srcPath, prefix)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("pdftoppm failed: %w (stderr: %s)", err, stderr.String())
	}

	paths, err := filepath.Glob(prefix + "-*.png")
	if err != nil || len(paths) == 0 {
		return nil, fmt.Errorf("no page images generated")
	}
	sortByPageNumber(paths)

	images := make([][]byte, 0, len(paths))
	for _, path := range paths {
		img, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read page image: %w", err)
		}
		images = append(images, img)
	}
	return images, nil
}

// sortByPageNumber orders page image paths by the number pdftoppm embeds
// in the filename. Zero padding varies with the page count, so a lexical
// sort is not enough.
func sortByPageNumber(paths []string) {
	sort.Slice(paths, func(i, j int) bool {
		return pageNumber(paths[i]) < pageNumber(paths[j])
	})
}

func pageNumber(path string) int {
	m := pageNumRe.FindStringSubmatch(filepath.Base(path))
	if len(m) < 2 {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}
