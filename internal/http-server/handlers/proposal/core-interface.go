package proposal

import (
	"BizDevCRM/entity"
	"context"
)

type Core interface {
	CreateProposal(ctx context.Context, actor *entity.UserAuth, req *entity.ProposalRequest) (*entity.Proposal, error)
	GetProposals(ctx context.Context, actor *entity.UserAuth, leadID string) ([]entity.Proposal, error)
	GetProposal(ctx context.Context, actor *entity.UserAuth, id string) (*entity.Proposal, error)
	SendProposal(ctx context.Context, actor *entity.UserAuth, id string) (*entity.Proposal, error)
	DraftProposalBody(ctx context.Context, actor *entity.UserAuth, req *entity.DraftRequest) (string, error)
}
