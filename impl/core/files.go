package core

import (
	"BizDevCRM/entity"
	"context"
	"fmt"
	"io"
)

// DownloadFile opens a stored file. The caller closes the reader.
func (c *Core) DownloadFile(ctx context.Context, id string) (string, string, io.ReadCloser, error) {
	if c.files == nil {
		return "", "", nil, fmt.Errorf("file store: %w", entity.ErrNotConfigured)
	}
	name, meta, reader, err := c.files.DownloadFile(ctx, id)
	if err != nil {
		return "", "", nil, err
	}
	if reader == nil {
		return "", "", nil, entity.ErrNotFound
	}
	return name, meta.MIMEType, reader, nil
}
