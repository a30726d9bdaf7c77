package pdf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/convertsrv/pdfconvert/pdf/pdftest"
)

func TestExtractDigital(t *testing.T) {
	data := pdftest.Build("Hello World", "Second Page")

	doc, err := Extract(data)
	require.NoError(t, err)

	assert.Equal(t, 2, doc.PageCount)
	require.Len(t, doc.Pages, 2)
	assert.Contains(t, doc.Pages[0], "Hello World")
	assert.Contains(t, doc.Pages[1], "Second Page")
	assert.Contains(t, doc.Text(), "Hello World")
	assert.Positive(t, doc.TextChars())
}

func TestExtractPageOrder(t *testing.T) {
	data := pdftest.Build("alpha", "beta", "gamma")

	doc, err := Extract(data)
	require.NoError(t, err)

	require.Equal(t, 3, doc.PageCount)
	text := doc.Text()
	assert.Less(t, indexOf(t, text, "alpha"), indexOf(t, text, "beta"))
	assert.Less(t, indexOf(t, text, "beta"), indexOf(t, text, "gamma"))
}

func TestExtractScanned(t *testing.T) {
	// Pages without a text layer extract as empty strings.
	data := pdftest.Build("", "")

	doc, err := Extract(data)
	require.NoError(t, err)

	assert.Equal(t, 2, doc.PageCount)
	assert.Zero(t, doc.TextChars())
}

func TestExtractCorrupt(t *testing.T) {
	inputs := [][]byte{
		[]byte("this is not a pdf"),
		[]byte("%PDF-1.4 truncated garbage"),
		{},
	}
	for _, data := range inputs {
		_, err := Extract(data)
		assert.Error(t, err)
	}
}

func TestTextChars(t *testing.T) {
	doc := &Document{Pages: []string{"ab c", "  \n\t", "d"}}
	assert.Equal(t, 4, doc.TextChars())

	empty := &Document{Pages: []string{"", "   "}}
	assert.Zero(t, empty.TextChars())
}

func TestPageCount(t *testing.T) {
	count, err := PageCount(pdftest.Build("one", "two", "three"))
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestPageCountCorrupt(t *testing.T) {
	_, err := PageCount([]byte("not a pdf"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(pdftest.Build("Hello")))
	assert.Error(t, Validate([]byte("not a pdf")))
}

func indexOf(t *testing.T, s, sub string) int {
	t.Helper()
	idx := strings.Index(s, sub)
	require.GreaterOrEqual(t, idx, 0, "%q not found", sub)
	return idx
}
