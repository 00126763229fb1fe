package message

import (
	"BizDevCRM/entity"
	"context"
)

type Core interface {
	SendInternalMessage(ctx context.Context, actor *entity.UserAuth, req *entity.MessageRequest) (*entity.InternalMessage, error)
	GetMessages(ctx context.Context, actor *entity.UserAuth) ([]entity.InternalMessage, error)
	MarkMessageRead(ctx context.Context, actor *entity.UserAuth, id string) error
}
