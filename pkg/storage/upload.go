package storage

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
)

// MaxImageSize bounds a single uploaded image.
const MaxImageSize = 5 << 20

var imageExtensions = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".webp": {}, ".bmp": {}, ".tiff": {},
}

func IsImageFile(fileName string) bool {
	_, ok := imageExtensions[strings.ToLower(filepath.Ext(fileName))]
	return ok
}

// ValidateImage checks the extension and size of a multipart upload.
func ValidateImage(fh *multipart.FileHeader) error {
	if !IsImageFile(fh.Filename) {
		return fmt.Errorf("%s is not a supported image type", fh.Filename)
	}
	if fh.Size > MaxImageSize {
		return fmt.Errorf("%s exceeds the %d MB limit", fh.Filename, MaxImageSize>>20)
	}
	return nil
}

// UploadFile opens a multipart file and uploads it.
func UploadFile(ctx context.Context, s ImageStorage, fh *multipart.FileHeader, folder string) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	return s.UploadImage(ctx, f, folder, fh.Filename)
}

// DeleteAll removes every url, returning the first error after trying all.
func DeleteAll(ctx context.Context, s ImageStorage, urls ...string) error {
	var firstErr error
	for _, u := range urls {
		if u == "" {
			continue
		}
		if err := s.DeleteImage(ctx, u); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
