package core

import (
	"BizDevCRM/entity"
	"context"
	"fmt"
)

// CreateTask stores a task. A BD Executive always gets the task assigned to
// themselves.
func (c *Core) CreateTask(ctx context.Context, actor *entity.UserAuth, req *entity.TaskRequest) (*entity.Task, error) {
	if actor.IsBDExecutive() {
		req.UserID = actor.ID
	}
	task := entity.NewTask(req, actor.ID)
	if err := c.checkTaskLead(ctx, task.LeadID); err != nil {
		return nil, err
	}
	if err := c.repo.InsertTask(ctx, task); err != nil {
		return nil, err
	}

	c.recordActivity(ctx, entity.NewActivityLog(entity.EntityTask, entity.ActionCreate, task.ID, task.Title, actor))
	task.SetPriority(c.now())
	return task, nil
}

func (c *Core) checkTaskLead(ctx context.Context, leadID *string) error {
	if leadID == nil {
		return nil
	}
	lead, err := c.repo.GetLead(ctx, *leadID)
	if err != nil {
		return err
	}
	if lead == nil {
		return entity.NewValidationError("lead_id", fmt.Sprintf("lead %s does not exist", *leadID))
	}
	return nil
}

// GetTasks lists tasks with their priority bucket. Stored fields are filtered
// in the database, bucket and search afterwards.
func (c *Core) GetTasks(ctx context.Context, actor *entity.UserAuth, filter entity.TaskFilter) ([]entity.Task, error) {
	if !actor.CanManage() {
		filter.UserID = actor.ID
	}
	tasks, err := c.repo.FindTasks(ctx, filter)
	if err != nil {
		return nil, err
	}

	now := c.now()
	out := make([]entity.Task, 0, len(tasks))
	for i := range tasks {
		tasks[i].SetPriority(now)
		if filter.Matches(&tasks[i]) {
			out = append(out, tasks[i])
		}
	}
	return out, nil
}

func (c *Core) GetTasksByLead(ctx context.Context, actor *entity.UserAuth, leadID string) ([]entity.Task, error) {
	return c.GetTasks(ctx, actor, entity.TaskFilter{LeadID: leadID})
}

func (c *Core) GetTask(ctx context.Context, actor *entity.UserAuth, id string) (*entity.Task, error) {
	task, err := c.visibleTask(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	task.SetPriority(c.now())
	return task, nil
}

func (c *Core) visibleTask(ctx context.Context, actor *entity.UserAuth, id string) (*entity.Task, error) {
	task, err := c.repo.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, entity.ErrNotFound
	}
	if !task.VisibleTo(actor) {
		return nil, entity.ErrForbidden
	}
	return task, nil
}

func (c *Core) UpdateTask(ctx context.Context, actor *entity.UserAuth, id string, patch *entity.TaskPatch) (*entity.Task, error) {
	task, err := c.visibleTask(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if task.Version != patch.Version {
		return nil, entity.ErrVersionConflict
	}
	if actor.IsBDExecutive() {
		patch.UserID = nil
	}

	now := c.now()
	changes := patch.Apply(task, now)
	if len(changes) == 0 {
		task.SetPriority(now)
		return task, nil
	}
	if err = c.checkTaskLead(ctx, task.LeadID); err != nil {
		return nil, err
	}
	if err = c.saveTask(ctx, task, patch.Version); err != nil {
		return nil, err
	}

	c.recordActivity(ctx, entity.NewActivityLog(entity.EntityTask, entity.ActionUpdate, task.ID, task.Title, actor).WithChanges(changes))
	task.SetPriority(now)
	return task, nil
}

// ToggleTask flips completion against the stored version.
func (c *Core) ToggleTask(ctx context.Context, actor *entity.UserAuth, id string) (*entity.Task, error) {
	task, err := c.visibleTask(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	now := c.now()
	expected := task.Version
	change := task.Toggle(now)
	if err = c.saveTask(ctx, task, expected); err != nil {
		return nil, err
	}

	c.recordActivity(ctx, entity.NewActivityLog(entity.EntityTask, entity.ActionUpdate, task.ID, task.Title, actor).
		WithChanges([]entity.FieldChange{change}))
	task.SetPriority(now)
	return task, nil
}

func (c *Core) saveTask(ctx context.Context, task *entity.Task, expectedVersion int64) error {
	task.Version = expectedVersion + 1
	task.UpdatedAt = c.now()
	return c.repo.ReplaceTask(ctx, task, expectedVersion)
}

func (c *Core) DeleteTask(ctx context.Context, actor *entity.UserAuth, id string) error {
	task, err := c.visibleTask(ctx, actor, id)
	if err != nil {
		return err
	}
	deleted, err := c.repo.DeleteTask(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return entity.ErrNotFound
	}

	c.recordActivity(ctx, entity.NewActivityLog(entity.EntityTask, entity.ActionDelete, task.ID, task.Title, actor))
	return nil
}
