package core

import (
	"BizDevCRM/entity"
	"context"
	"time"
)

// DashboardStats is role scoped: BD Executives see their own leads, tasks
// and calls, managers see everything.
func (c *Core) DashboardStats(ctx context.Context, actor *entity.UserAuth) (*entity.DashboardStats, error) {
	leads, err := c.GetLeads(ctx, actor, entity.LeadFilter{})
	if err != nil {
		return nil, err
	}
	tasks, err := c.GetTasks(ctx, actor, entity.TaskFilter{})
	if err != nil {
		return nil, err
	}

	now := c.now()
	stats := &entity.DashboardStats{
		TotalLeads:     len(leads),
		LeadsByStage:   entity.LeadsByStage(leads),
		ConversionRate: entity.ConversionRate(leads),
		TotalRevenue:   entity.TotalRevenue(leads),
		PipelineValue:  entity.PipelineValue(leads),
		Tasks:          entity.TaskBuckets(tasks, now),
	}

	var userIDs []string
	if !actor.CanManage() {
		userIDs = []string{actor.ID}
	}
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	calls, err := c.repo.FindCalls(ctx, userIDs, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	stats.CallsToday = len(calls)

	proposals, err := c.repo.FindProposals(ctx, "")
	if err != nil {
		return nil, err
	}
	for _, p := range proposals {
		if p.Status == entity.ProposalSent && (actor.CanManage() || p.CreatedBy == actor.ID) {
			stats.ProposalsSent++
		}
	}

	stats.Attendance, err = c.GetAttendanceSummary(ctx, actor, actor.ID, "", "")
	if err != nil {
		return nil, err
	}

	return stats, nil
}
