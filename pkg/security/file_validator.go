package security

import (
	"bytes"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Magic byte signatures for allowed resume types
var magicBytes = map[string][][]byte{
	".pdf":  {{0x25, 0x50, 0x44, 0x46}},                         // %PDF
	".doc":  {{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}}, // OLE Compound Document
	".docx": {{0x50, 0x4B, 0x03, 0x04}},                         // ZIP (PK..)
	".txt":  {},
}

// Canonical content types stored alongside the object
var resumeContentTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".txt":  "text/plain",
}

// FileValidationError describes why an upload was rejected.
type FileValidationError struct {
	Reason string
}

func (e *FileValidationError) Error() string {
	return e.Reason
}

// ValidateResume checks a resume upload in three layers: extension whitelist,
// size limit, then content signature. It returns the content type to store.
func ValidateResume(filename string, data []byte, maxBytes int) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return "", &FileValidationError{Reason: "file has no extension"}
	}
	contentType, ok := resumeContentTypes[ext]
	if !ok {
		return "", &FileValidationError{Reason: "file extension not allowed: " + ext + " (allowed: .pdf, .doc, .docx, .txt)"}
	}

	if len(data) == 0 {
		return "", &FileValidationError{Reason: "file is empty"}
	}
	if maxBytes > 0 && len(data) > maxBytes {
		return "", &FileValidationError{Reason: fmt.Sprintf("file exceeds %d bytes", maxBytes)}
	}

	if ext == ".txt" {
		if !utf8.Valid(data) || !strings.HasPrefix(http.DetectContentType(data), "text/plain") {
			return "", &FileValidationError{Reason: "file content is not plain text"}
		}
		return contentType, nil
	}

	if !validateMagicBytes(ext, data) {
		return "", &FileValidationError{Reason: "file content does not match extension"}
	}
	return contentType, nil
}

func validateMagicBytes(ext string, data []byte) bool {
	if len(data) < 4 {
		return false
	}
	for _, sig := range magicBytes[ext] {
		if bytes.HasPrefix(data, sig) {
			return true
		}
	}
	return false
}
