package task

import (
	"BizDevCRM/entity"
	"context"
)

type Core interface {
	CreateTask(ctx context.Context, actor *entity.UserAuth, req *entity.TaskRequest) (*entity.Task, error)
	GetTasks(ctx context.Context, actor *entity.UserAuth, filter entity.TaskFilter) ([]entity.Task, error)
	GetTasksByLead(ctx context.Context, actor *entity.UserAuth, leadID string) ([]entity.Task, error)
	GetTask(ctx context.Context, actor *entity.UserAuth, id string) (*entity.Task, error)
	UpdateTask(ctx context.Context, actor *entity.UserAuth, id string, patch *entity.TaskPatch) (*entity.Task, error)
	ToggleTask(ctx context.Context, actor *entity.UserAuth, id string) (*entity.Task, error)
	DeleteTask(ctx context.Context, actor *entity.UserAuth, id string) error
}
