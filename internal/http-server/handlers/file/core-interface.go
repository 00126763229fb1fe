package file

import (
	"context"
	"io"
)

type Core interface {
	DownloadFile(ctx context.Context, id string) (string, string, io.ReadCloser, error)
}

type Verifier interface {
	Verify(fileID, expires, sig string) bool
}
