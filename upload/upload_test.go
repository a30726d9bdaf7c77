package upload

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckAllowed(t *testing.T) {
	v := NewValidator(1024, []string{"pdf"})

	assert.NoError(t, v.Check("report.pdf", 512))
	assert.NoError(t, v.Check("REPORT.PDF", 1024))
	assert.NoError(t, v.Check("archive.tar.pdf", 1))
}

func TestCheckExtension(t *testing.T) {
	v := NewValidator(1024, []string{"pdf", ".docx"})

	tests := []string{
		"malware.exe",
		"notes.txt",
		"noextension",
		"report.pdf.exe",
		"",
	}

	for _, filename := range tests {
		err := v.Check(filename, 10)
		require.Error(t, err, "should reject: %q", filename)

		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, KindExtension, verr.Kind)
	}

	// The leading dot in the configured list is normalized away.
	assert.NoError(t, v.Check("doc.docx", 10))
}

func TestCheckSize(t *testing.T) {
	v := NewValidator(100, []string{"pdf"})

	err := v.Check("big.pdf", 101)
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, KindSize, verr.Kind)
	assert.Contains(t, verr.Error(), "100")

	// Size is checked before the extension, so an oversized upload with a
	// bad extension reports the size failure.
	err = v.Check("big.exe", 200)
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, KindSize, verr.Kind)
}
