package core

import (
	"BizDevCRM/entity"
	"context"
	"fmt"
	"log/slog"
	"time"
)

// MarkAttendance opens or closes today's session for the user. Marking a
// login while a session is open, or a logout without one, changes nothing.
func (c *Core) MarkAttendance(ctx context.Context, user *entity.UserAuth, kind string) (*entity.AttendanceRecord, error) {
	now := c.now()
	day := now.Format(entity.DateLayout)

	record, err := c.repo.GetAttendance(ctx, user.ID, day)
	if err != nil {
		return nil, err
	}
	if record == nil {
		record = entity.NewAttendanceRecord(user, now)
	}

	var changed bool
	switch kind {
	case entity.AttendanceLogin:
		changed = record.Login(now)
	case entity.AttendanceLogout:
		changed = record.Logout(now)
	default:
		return nil, entity.NewValidationError("type", "type must be login or logout")
	}
	if !changed {
		return record, nil
	}

	if err = c.repo.SaveAttendance(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// attendanceRange parses YYYY-MM-DD bounds, defaulting to the current month
// up to today.
func (c *Core) attendanceRange(from, to string) (time.Time, time.Time, error) {
	now := c.now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	var err error
	if from != "" {
		if start, err = time.ParseInLocation(entity.DateLayout, from, now.Location()); err != nil {
			return start, end, entity.NewValidationError("from", "date must be YYYY-MM-DD")
		}
	}
	if to != "" {
		if end, err = time.ParseInLocation(entity.DateLayout, to, now.Location()); err != nil {
			return start, end, entity.NewValidationError("to", "date must be YYYY-MM-DD")
		}
	}
	if end.Before(start) {
		return start, end, entity.NewValidationError("to", "end date is before start date")
	}
	return start, end, nil
}

// GetAttendance lists one user's records with missing working days filled
// as Absent. Managers may pass an empty userID to list everyone, unfilled.
func (c *Core) GetAttendance(ctx context.Context, actor *entity.UserAuth, userID, from, to string) ([]entity.AttendanceRecord, error) {
	if !actor.CanManage() {
		if userID != "" && userID != actor.ID {
			return nil, entity.ErrForbidden
		}
		userID = actor.ID
	}
	start, end, err := c.attendanceRange(from, to)
	if err != nil {
		return nil, err
	}

	records, err := c.repo.FindAttendance(ctx, userID, start.Format(entity.DateLayout), end.Format(entity.DateLayout))
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []entity.AttendanceRecord{}
	}
	if userID == "" {
		return records, nil
	}

	name := actor.Name
	if userID != actor.ID {
		name = c.userName(ctx, userID)
	}
	return entity.FillAbsentDays(records, userID, name, start, end), nil
}

func (c *Core) GetAttendanceSummary(ctx context.Context, actor *entity.UserAuth, userID, from, to string) (entity.AttendanceSummary, error) {
	if userID == "" {
		userID = actor.ID
	}
	records, err := c.GetAttendance(ctx, actor, userID, from, to)
	if err != nil {
		return entity.AttendanceSummary{}, err
	}
	return entity.SummarizeAttendance(records), nil
}

// ClearAttendance is restricted to admins. An empty userID clears everyone.
func (c *Core) ClearAttendance(ctx context.Context, actor *entity.UserAuth, userID string) (int64, error) {
	if !actor.IsAdmin() {
		return 0, entity.ErrForbidden
	}
	deleted, err := c.repo.ClearAttendance(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("clear attendance: %w", err)
	}
	c.log.With(
		slog.String("admin", actor.ID),
		slog.String("user", userID),
		slog.Int64("deleted", deleted),
	).Info("attendance cleared")
	return deleted, nil
}
