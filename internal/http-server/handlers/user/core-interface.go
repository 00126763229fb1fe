package user

import (
	"BizDevCRM/entity"
	"context"
	"time"
)

type Core interface {
	GetUsers(ctx context.Context, actor *entity.UserAuth) ([]entity.User, error)
	CreateUser(ctx context.Context, actor *entity.UserAuth, req *entity.CreateUserRequest) (*entity.User, error)
	LogCall(ctx context.Context, actor *entity.UserAuth, req *entity.CallLogRequest) (*entity.CallActivity, error)
	GetCallsBatch(ctx context.Context, actor *entity.UserAuth, userIDs []string, from, to time.Time) ([]entity.UserCalls, error)
}
