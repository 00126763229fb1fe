package dashboard

import (
	"BizDevCRM/entity"
	"context"
)

type Core interface {
	DashboardStats(ctx context.Context, actor *entity.UserAuth) (*entity.DashboardStats, error)
}
