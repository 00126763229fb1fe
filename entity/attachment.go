package entity

import (
	"errors"
	"fmt"
)

// DefaultMaxFileSize applies when no upload limit is configured (25 MB).
const DefaultMaxFileSize = 25 << 20

// ErrFileTooLarge is returned when an uploaded file exceeds the upload limit.
var ErrFileTooLarge = errors.New("file too large")

// FileTooLargeError wraps ErrFileTooLarge with details about the offending file.
func FileTooLargeError(filename string, size, limit int64) error {
	return fmt.Errorf("%w: %q is %d bytes, limit is %d MB", ErrFileTooLarge, filename, size, limit>>20)
}

const (
	PurposeRemark = "remark"
	PurposeVoice  = "voice"
	PurposeEmail  = "email"
)

// Attachment references a GridFS file. URL is signed at read time.
type Attachment struct {
	FileID   string `json:"fileId" bson:"file_id"`
	Filename string `json:"filename" bson:"filename"`
	MIMEType string `json:"mimeType" bson:"mime_type"`
	Size     int64  `json:"size" bson:"size"`
	URL      string `json:"url,omitempty" bson:"-"`
}

// FileMetadata holds GridFS metadata for an uploaded file.
type FileMetadata struct {
	MIMEType string `bson:"mime_type"`
	Purpose  string `bson:"purpose"`
	EntityID string `bson:"entity_id"`
	Uploader string `bson:"uploader"`
}

// Upload is a file received from a client, held in memory until stored.
type Upload struct {
	Filename string
	MIMEType string
	Data     []byte
}

func (u Upload) Size() int64 {
	return int64(len(u.Data))
}
