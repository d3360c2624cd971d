package utils

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	MaxProductImages = 5
	MB               = 1 << 20
)

var allowedImageExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

// UploadError is a client mistake in a multipart upload.
type UploadError struct {
	Message string
}

func (e *UploadError) Error() string { return e.Message }

// ValidateImage checks the extension, declared size and sniffed content of an uploaded
// image. It returns the detected MIME type.
func ValidateImage(fh *multipart.FileHeader, maxBytes int64) (string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedImageExt[ext] {
		return "", &UploadError{Message: fmt.Sprintf("%s: only JPEG and PNG images are allowed", fh.Filename)}
	}
	if fh.Size > maxBytes {
		return "", &UploadError{Message: fmt.Sprintf("%s: file too large, maximum size is %dMB", fh.Filename, maxBytes/MB)}
	}

	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer f.Close()

	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		return "", fmt.Errorf("detect upload type %s: %w", fh.Filename, err)
	}
	if !mtype.Is("image/jpeg") && !mtype.Is("image/png") {
		return "", &UploadError{Message: fmt.Sprintf("%s: file content is not a JPEG or PNG image", fh.Filename)}
	}
	return mtype.String(), nil
}

// ValidateImages applies ValidateImage to every file and enforces the count limit.
func ValidateImages(files []*multipart.FileHeader, maxCount int, maxBytes int64) ([]string, error) {
	if len(files) > maxCount {
		return nil, &UploadError{Message: fmt.Sprintf("too many files, at most %d images are allowed", maxCount)}
	}
	types := make([]string, 0, len(files))
	for _, fh := range files {
		t, err := ValidateImage(fh, maxBytes)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	return types, nil
}
