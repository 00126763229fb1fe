package activity

import (
	"BizDevCRM/entity"
	"context"
)

type Core interface {
	GetAllActivities(ctx context.Context, actor *entity.UserAuth, filter entity.ActivityFilter) ([]entity.ActivityLog, error)
}
