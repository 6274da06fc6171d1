package constants

import (
	"path/filepath"
	"strings"
)

type FileKind int

const (
	FileKindUnknown FileKind = iota
	FileKindImage
	FileKindPDF
)

// DetectFileKind looks at the sniffed content type first and falls back to the extension.
func DetectFileKind(filename, contentType string) FileKind {
	ct := strings.ToLower(contentType)
	switch {
	case strings.HasPrefix(ct, "image/jpeg"), strings.HasPrefix(ct, "image/png"), strings.HasPrefix(ct, "image/webp"):
		return FileKindImage
	case strings.HasPrefix(ct, "application/pdf"):
		return FileKindPDF
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png", ".jpg", ".jpeg", ".webp":
		return FileKindImage
	case ".pdf":
		return FileKindPDF
	default:
		return FileKindUnknown
	}
}
