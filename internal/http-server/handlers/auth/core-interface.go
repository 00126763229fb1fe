package auth

import (
	"BizDevCRM/entity"
	"context"
)

type Core interface {
	Login(ctx context.Context, email, password string) (*entity.LoginResponse, error)
	Logout(ctx context.Context, user *entity.UserAuth) (*entity.AttendanceRecord, error)
	GetMe(ctx context.Context, user *entity.UserAuth) (*entity.User, error)
}
