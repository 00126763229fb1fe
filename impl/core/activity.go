package core

import (
	"BizDevCRM/entity"
	"BizDevCRM/internal/lib/sl"
	"context"
	"log/slog"
	"time"
)

// recordActivity appends a log entry. The write is independent of the
// mutation it describes, so a failure is logged and not returned.
func (c *Core) recordActivity(ctx context.Context, log *entity.ActivityLog) {
	log.Timestamp = c.now()
	if err := c.repo.InsertActivityLog(ctx, log); err != nil {
		c.log.With(
			sl.Err(err),
			slog.String("entity", log.Entity),
			slog.String("entity_id", log.EntityID),
			slog.String("action", log.Action),
		).Error("write activity log")
		return
	}
	log.Description = log.Describe()

	if c.events != nil {
		if err := c.events.PublishActivity(ctx, log); err != nil {
			c.log.With(sl.Err(err)).Warn("publish activity")
		}
	}
	if c.notifier != nil {
		c.notifier.PushActivity(log)
	}
}

// GetAllActivities returns the feed, newest first.
func (c *Core) GetAllActivities(ctx context.Context, _ *entity.UserAuth, filter entity.ActivityFilter) ([]entity.ActivityLog, error) {
	logs, err := c.repo.FindActivityLogs(ctx, filter)
	if err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []entity.ActivityLog{}
	}
	for i := range logs {
		logs[i].Description = logs[i].Describe()
		if logs[i].Remark != nil {
			c.signRemark(logs[i].Remark)
		}
	}
	return logs, nil
}

// PurgeActivityLogs drops feed entries older than before. Admin only.
func (c *Core) PurgeActivityLogs(ctx context.Context, actor *entity.UserAuth, before time.Time) (int64, error) {
	if !actor.IsAdmin() {
		return 0, entity.ErrForbidden
	}
	if before.IsZero() || before.After(c.now()) {
		return 0, entity.NewValidationError("before", "must be a date in the past")
	}
	deleted, err := c.repo.PurgeActivityLogs(ctx, before)
	if err != nil {
		return 0, err
	}
	c.log.With(
		slog.String("before", before.Format(time.RFC3339)),
		slog.Int64("deleted", deleted),
	).Info("activity logs purged")
	return deleted, nil
}
