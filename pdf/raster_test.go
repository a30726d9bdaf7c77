package pdf

import (
	"bytes"
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/convertsrv/pdfconvert/pdf/pdftest"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestRenderEmpty(t *testing.T) {
	r := NewRasterizer(150)
	_, err := r.Render(context.Background(), nil)
	assert.Error(t, err)
}

func TestRenderValid(t *testing.T) {
	if _, err := exec.LookPath("pdftoppm"); err != nil {
		t.Skip("pdftoppm not available, skipping test")
	}

	r := NewRasterizer(72)
	images, err := r.Render(context.Background(), pdftest.Build("page one", "page two"))
	require.NoError(t, err)

	require.Len(t, images, 2)
	for _, img := range images {
		assert.True(t, bytes.HasPrefix(img, pngMagic), "expected PNG output")
	}
}

func TestRenderInvalidPDF(t *testing.T) {
	if _, err := exec.LookPath("pdftoppm"); err != nil {
		t.Skip("pdftoppm not available, skipping test")
	}

	r := NewRasterizer(72)
	_, err := r.Render(context.Background(), []byte("not a pdf"))
	assert.Error(t, err)
}

func TestRenderCancelledContext(t *testing.T) {
	if _, err := exec.LookPath("pdftoppm"); err != nil {
		t.Skip("pdftoppm not available, skipping test")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRasterizer(72)
	_, err := r.Render(ctx, pdftest.Build("page"))
	assert.Error(t, err)
}

func TestSortByPageNumber(t *testing.T) {
	paths := []string{"/tmp/x/page-10.png", "/tmp/x/page-2.png", "/tmp/x/page-1.png"}
	sortByPageNumber(paths)
	assert.Equal(t, []string{"/tmp/x/page-1.png", "/tmp/x/page-2.png", "/tmp/x/page-10.png"}, paths)
}
