// Package form reads multipart uploads into memory.
package form

import (
	"BizDevCRM/entity"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
)

// maxMemory is the part of a multipart body kept in memory; the rest spills
// to temporary files.
const maxMemory = 32 << 20

// Parse parses a multipart body no larger than limit per file.
func Parse(w http.ResponseWriter, r *http.Request, limit int64, files int) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit*int64(files)+maxMemory)
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return fmt.Errorf("%w: request body exceeds %d bytes", entity.ErrFileTooLarge, maxErr.Limit)
		}
		return entity.NewValidationError("form", "invalid multipart form")
	}
	return nil
}

// Upload returns the file in field, or nil when the field is absent.
func Upload(r *http.Request, field string, limit int64) (*entity.Upload, error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File[field]) == 0 {
		return nil, nil
	}
	return read(r.MultipartForm.File[field][0], limit)
}

// Uploads returns every file in field.
func Uploads(r *http.Request, field string, limit int64) ([]entity.Upload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	var out []entity.Upload
	for _, fh := range r.MultipartForm.File[field] {
		u, err := read(fh, limit)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, nil
}

func read(fh *multipart.FileHeader, limit int64) (*entity.Upload, error) {
	if fh.Size > limit {
		return nil, entity.FileTooLargeError(fh.Filename, fh.Size, limit)
	}
	file, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
	}
	if int64(len(data)) > limit {
		return nil, entity.FileTooLargeError(fh.Filename, int64(len(data)), limit)
	}

	mimeType := fh.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	return &entity.Upload{Filename: fh.Filename, MIMEType: mimeType, Data: data}, nil
}
