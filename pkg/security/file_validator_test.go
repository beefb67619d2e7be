package security

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateResume(t *testing.T) {
	pdf := append([]byte("%PDF-1.7\n"), make([]byte, 32)...)
	docx := []byte{0x50, 0x4B, 0x03, 0x04, 0x14, 0x00}

	tests := []struct {
		name     string
		filename string
		data     []byte
		max      int
		wantType string
		wantErr  string
	}{
		{"pdf ok", "cv.PDF", pdf, 0, "application/pdf", ""},
		{"docx ok", "cv.docx", docx, 0, "application/vnd.openxmlformats-officedocument.wordprocessingml.document", ""},
		{"txt ok", "cv.txt", []byte("Jane Doe\nGo developer\n"), 0, "text/plain", ""},
		{"no extension", "resume", pdf, 0, "", "file has no extension"},
		{"image rejected", "me.png", pdf, 0, "", "file extension not allowed"},
		{"spoofed pdf", "cv.pdf", docx, 0, "", "does not match extension"},
		{"too large", "cv.pdf", pdf, 8, "", "exceeds 8 bytes"},
		{"empty", "cv.pdf", nil, 0, "", "file is empty"},
		{"binary txt", "cv.txt", []byte{0x00, 0x01, 0x02, 0xFF, 0xFE}, 0, "", "not plain text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ct, err := ValidateResume(tt.filename, tt.data, tt.max)
			if tt.wantErr != "" {
				require.Error(t, err)
				var fvErr *FileValidationError
				assert.True(t, errors.As(err, &fvErr))
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, ct)
		})
	}
}
