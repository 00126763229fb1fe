package report

import (
	"BizDevCRM/entity"
	"context"
)

type Core interface {
	GetLeads(ctx context.Context, actor *entity.UserAuth, filter entity.LeadFilter) ([]entity.Lead, error)
	GetAllActivities(ctx context.Context, actor *entity.UserAuth, filter entity.ActivityFilter) ([]entity.ActivityLog, error)
	GetAttendance(ctx context.Context, actor *entity.UserAuth, userID, from, to string) ([]entity.AttendanceRecord, error)
}
