package attendance

import (
	"BizDevCRM/entity"
	"context"
)

type Core interface {
	MarkAttendance(ctx context.Context, user *entity.UserAuth, kind string) (*entity.AttendanceRecord, error)
	GetAttendance(ctx context.Context, actor *entity.UserAuth, userID, from, to string) ([]entity.AttendanceRecord, error)
	GetAttendanceSummary(ctx context.Context, actor *entity.UserAuth, userID, from, to string) (entity.AttendanceSummary, error)
	ClearAttendance(ctx context.Context, actor *entity.UserAuth, userID string) (int64, error)
}
