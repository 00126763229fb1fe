package email

import (
	"BizDevCRM/entity"
	"context"
)

type Core interface {
	SendEmail(ctx context.Context, actor *entity.UserAuth, req *entity.SendEmailRequest) (*entity.Email, error)
	GetSentEmails(ctx context.Context, actor *entity.UserAuth) ([]entity.Email, error)
	DeleteEmail(ctx context.Context, actor *entity.UserAuth, id string) error
	FetchInbox(ctx context.Context, actor *entity.UserAuth, limit uint32) ([]entity.InboxMessage, error)
	MaxFileSize() int64
}
