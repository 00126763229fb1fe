package entity

import (
	"BizDevCRM/internal/lib/validate"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	EmailSent   = "Sent"
	EmailFailed = "Failed"

	DirectionOutgoing = "outgoing"
	DirectionIncoming = "incoming"
)

type Email struct {
	ID          string       `json:"id" bson:"_id"`
	UserID      string       `json:"userId" bson:"user_id"`
	From        string       `json:"from" bson:"from"`
	To          []string     `json:"to" bson:"to"`
	Cc          []string     `json:"cc,omitempty" bson:"cc,omitempty"`
	Subject     string       `json:"subject" bson:"subject"`
	Body        string       `json:"body" bson:"body"`
	Attachments []Attachment `json:"attachments,omitempty" bson:"attachments,omitempty"`
	Status      string       `json:"status" bson:"status"`
	Direction   string       `json:"direction" bson:"direction"`
	Error       string       `json:"error,omitempty" bson:"error,omitempty"`
	CreatedAt   time.Time    `json:"createdAt" bson:"created_at"`
}

// SendEmailRequest carries the sender's SMTP credential for this send only;
// the app password is never persisted.
type SendEmailRequest struct {
	From        string
	AppPassword string
	To          []string
	Cc          []string
	Subject     string
	Body        string
	HTML        bool
	Attachments []Upload
}

// Validate rejects a request before any network call is made.
func (r *SendEmailRequest) Validate(maxFileSize int64) error {
	if len(r.To) == 0 {
		return NewValidationError("to", "at least one recipient is required")
	}
	for _, addr := range append(append([]string{}, r.To...), r.Cc...) {
		if err := validate.Var(addr, "required,email"); err != nil {
			return NewValidationError("to", "invalid address "+addr)
		}
	}
	if err := validate.Var(r.From, "required,email"); err != nil {
		return NewValidationError("from", "sender address is required")
	}
	if r.AppPassword == "" {
		return NewValidationError("appPassword", "app password is required")
	}
	if strings.TrimSpace(r.Subject) == "" && strings.TrimSpace(r.Body) == "" {
		return NewValidationError("subject", "subject or body is required")
	}
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	for _, a := range r.Attachments {
		if a.Size() > maxFileSize {
			return FileTooLargeError(a.Filename, a.Size(), maxFileSize)
		}
	}
	return nil
}

func NewOutgoingEmail(userID string, r *SendEmailRequest) *Email {
	return &Email{
		ID:        uuid.NewString(),
		UserID:    userID,
		From:      r.From,
		To:        r.To,
		Cc:        r.Cc,
		Subject:   r.Subject,
		Body:      r.Body,
		Status:    EmailSent,
		Direction: DirectionOutgoing,
		CreatedAt: time.Now(),
	}
}

// ParseAddressList splits a comma or semicolon separated list, dropping blanks.
func ParseAddressList(values ...string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == ';' }) {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// InboxMessage is a header-level view of a fetched IMAP message.
type InboxMessage struct {
	UID     uint32    `json:"uid"`
	From    string    `json:"from"`
	To      []string  `json:"to"`
	Subject string    `json:"subject"`
	Date    time.Time `json:"date"`
	Seen    bool      `json:"seen"`
}

// OutgoingMail is what the mailer sends.
type OutgoingMail struct {
	From        string
	To          []string
	Cc          []string
	Subject     string
	Body        string
	HTML        bool
	Attachments []Upload
}

func (r *SendEmailRequest) Mail() *OutgoingMail {
	return &OutgoingMail{
		From:        r.From,
		To:          r.To,
		Cc:          r.Cc,
		Subject:     r.Subject,
		Body:        r.Body,
		HTML:        r.HTML,
		Attachments: r.Attachments,
	}
}
