package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	RemarkText  = "text"
	RemarkVoice = "voice"
	RemarkFile  = "file"
)

// Remark is a note embedded in a Lead. FileURL and VoiceURL are signed at
// read time and never stored.
type Remark struct {
	ID         string    `json:"id" bson:"id"`
	Content    string    `json:"content" bson:"content"`
	Type       string    `json:"type" bson:"type"`
	FileID     string    `json:"file_id,omitempty" bson:"file_id,omitempty"`
	FileName   string    `json:"file_name,omitempty" bson:"file_name,omitempty"`
	VoiceID    string    `json:"voice_id,omitempty" bson:"voice_id,omitempty"`
	FileURL    string    `json:"fileUrl,omitempty" bson:"-"`
	VoiceURL   string    `json:"voiceUrl,omitempty" bson:"-"`
	Author     string    `json:"author" bson:"author"`
	AuthorName string    `json:"author_name" bson:"author_name"`
	Timestamp  time.Time `json:"timestamp" bson:"timestamp"`
}

// RemarkInput is what a caller submits; FileID/VoiceID are set after the
// upload has been stored.
type RemarkInput struct {
	Content  string
	Type     string
	FileID   string
	FileName string
	VoiceID  string
}

func NewRemark(in RemarkInput, author *UserAuth) (*Remark, error) {
	typ := in.Type
	if typ == "" {
		switch {
		case in.VoiceID != "":
			typ = RemarkVoice
		case in.FileID != "":
			typ = RemarkFile
		default:
			typ = RemarkText
		}
	}

	content := strings.TrimSpace(in.Content)
	switch typ {
	case RemarkText:
		if content == "" {
			return nil, NewValidationError("content", "remark content is required")
		}
	case RemarkVoice:
		if in.VoiceID == "" {
			return nil, NewValidationError("voice", "voice remark requires a recording")
		}
	case RemarkFile:
		if in.FileID == "" {
			return nil, NewValidationError("file", "file remark requires a file")
		}
	default:
		return nil, NewValidationError("type", "remark type must be text, voice or file")
	}

	return &Remark{
		ID:         uuid.NewString(),
		Content:    content,
		Type:       typ,
		FileID:     in.FileID,
		FileName:   in.FileName,
		VoiceID:    in.VoiceID,
		Author:     author.ID,
		AuthorName: author.Name,
		Timestamp:  time.Now(),
	}, nil
}
