package storage

import (
	"bytes"
	"fmt"

	"go-jobmatch-backend/internal/domain"
)

// Upload folders - each accepts a distinct set of content types.
const (
	FolderCVs           = "cvs"
	FolderVideos        = "videos"
	FolderProfileImages = "profile-images"
)

// Magic byte signatures for accepted content, keyed by declared MIME type.
// Declared MIME alone is client-controlled and not trusted.
var magicBytes = map[string][][]byte{
	"application/pdf": {{0x25, 0x50, 0x44, 0x46}}, // %PDF
	"image/jpeg":      {{0xFF, 0xD8, 0xFF}},
	"image/png":       {{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}},
	"video/mp4":       {}, // ftyp box offset varies; MIME whitelist only
	"video/webm":      {{0x1A, 0x45, 0xDF, 0xA3}},
	"video/quicktime": {},
}

var allowedByFolder = map[string][]string{
	FolderCVs:           {"application/pdf"},
	FolderVideos:        {"video/mp4", "video/webm", "video/quicktime"},
	FolderProfileImages: {"image/jpeg", "image/png"},
}

// ValidateContent checks the declared MIME type against the folder whitelist
// and, where a signature is known, against the file's leading bytes.
func ValidateContent(folder string, file *domain.FileUpload) error {
	allowed, ok := allowedByFolder[folder]
	if !ok {
		return fmt.Errorf("storage: unknown upload folder %q", folder)
	}

	permitted := false
	for _, mime := range allowed {
		if file.ContentType == mime {
			permitted = true
			break
		}
	}
	if !permitted {
		return fmt.Errorf("storage: content type %q not allowed for %s", file.ContentType, folder)
	}

	signatures := magicBytes[file.ContentType]
	if len(signatures) == 0 {
		return nil
	}
	for _, sig := range signatures {
		if bytes.HasPrefix(file.Data, sig) {
			return nil
		}
	}
	return fmt.Errorf("storage: file content does not match declared type %q", file.ContentType)
}
