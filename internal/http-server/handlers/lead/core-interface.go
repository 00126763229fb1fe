package lead

import (
	"BizDevCRM/entity"
	"context"
)

type Core interface {
	CreateLead(ctx context.Context, actor *entity.UserAuth, req *entity.LeadRequest) (*entity.Lead, error)
	GetLeads(ctx context.Context, actor *entity.UserAuth, filter entity.LeadFilter) ([]entity.Lead, error)
	GetLead(ctx context.Context, actor *entity.UserAuth, id string) (*entity.Lead, error)
	UpdateLead(ctx context.Context, actor *entity.UserAuth, id string, patch *entity.LeadPatch) (*entity.Lead, error)
	ChangeStage(ctx context.Context, actor *entity.UserAuth, id string, req *entity.StageRequest) (*entity.Lead, error)
	DeleteLead(ctx context.Context, actor *entity.UserAuth, id string) error

	AddRemark(ctx context.Context, actor *entity.UserAuth, leadID string, in entity.RemarkInput, file, voice *entity.Upload) ([]entity.Remark, error)
	DeleteRemark(ctx context.Context, actor *entity.UserAuth, leadID, remarkID string) ([]entity.Remark, error)

	AddPointOfContact(ctx context.Context, actor *entity.UserAuth, leadID string, contact *entity.PointOfContact) ([]entity.PointOfContact, error)
	DeletePointOfContact(ctx context.Context, actor *entity.UserAuth, leadID, contactID string) ([]entity.PointOfContact, error)

	MaxFileSize() int64
}
