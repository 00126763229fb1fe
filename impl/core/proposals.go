package core

import (
	"BizDevCRM/entity"
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// CreateProposal stores a Draft and moves an early-stage lead to Proposal Sent.
func (c *Core) CreateProposal(ctx context.Context, actor *entity.UserAuth, req *entity.ProposalRequest) (*entity.Proposal, error) {
	lead, err := c.visibleLead(ctx, actor, req.LeadID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, entity.NewValidationError("lead_id", "lead does not exist")
		}
		return nil, err
	}

	proposal := entity.NewProposal(req, lead, actor.ID)
	if err = c.repo.InsertProposal(ctx, proposal); err != nil {
		return nil, err
	}

	c.advanceStage(ctx, actor, lead, entity.StageProposalSent)
	return proposal, nil
}

func (c *Core) GetProposals(ctx context.Context, actor *entity.UserAuth, leadID string) ([]entity.Proposal, error) {
	if leadID != "" {
		if _, err := c.visibleLead(ctx, actor, leadID); err != nil {
			return nil, err
		}
	}
	proposals, err := c.repo.FindProposals(ctx, leadID)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Proposal, 0, len(proposals))
	for _, p := range proposals {
		if actor.CanManage() || leadID != "" || p.CreatedBy == actor.ID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (c *Core) GetProposal(ctx context.Context, actor *entity.UserAuth, id string) (*entity.Proposal, error) {
	proposal, err := c.repo.GetProposal(ctx, id)
	if err != nil {
		return nil, err
	}
	if proposal == nil {
		return nil, entity.ErrNotFound
	}
	if _, err = c.visibleLead(ctx, actor, proposal.LeadID); err != nil && !errors.Is(err, entity.ErrNotFound) {
		return nil, err
	}
	return proposal, nil
}

// DraftProposalBody asks the language model for a proposal text.
func (c *Core) DraftProposalBody(ctx context.Context, actor *entity.UserAuth, req *entity.DraftRequest) (string, error) {
	if c.drafter == nil {
		return "", fmt.Errorf("drafting: %w", entity.ErrNotConfigured)
	}
	lead, err := c.visibleLead(ctx, actor, req.LeadID)
	if err != nil {
		return "", err
	}
	return c.drafter.Draft(ctx, lead, req)
}

// SendProposal delivers the proposal over its channels and marks it Sent.
func (c *Core) SendProposal(ctx context.Context, actor *entity.UserAuth, id string) (*entity.Proposal, error) {
	proposal, err := c.GetProposal(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	lead, err := c.visibleLead(ctx, actor, proposal.LeadID)
	if err != nil {
		return nil, err
	}

	if proposal.SendsEmail() {
		if proposal.RecipientEmail == "" {
			return nil, entity.NewValidationError("recipient_email", "lead has no contact email")
		}
		if c.mailer == nil {
			return nil, fmt.Errorf("mailer: %w", entity.ErrNotConfigured)
		}
		err = c.mailer.SendAsCompany(ctx, &entity.OutgoingMail{
			To:      []string{proposal.RecipientEmail},
			Subject: proposal.Subject,
			Body:    proposal.Body,
		})
		if err != nil {
			return nil, err
		}
	}
	if proposal.SendsWhatsApp() {
		if c.whatsapp == nil {
			return nil, fmt.Errorf("whatsapp: %w", entity.ErrNotConfigured)
		}
		text := proposal.Subject
		if proposal.Body != "" {
			text = proposal.Subject + "\n\n" + proposal.Body
		}
		if err = c.whatsapp.SendText(ctx, proposal.RecipientPhone, text); err != nil {
			return nil, err
		}
	}

	now := c.now()
	proposal.Status = entity.ProposalSent
	proposal.SentAt = &now
	if err = c.repo.UpdateProposal(ctx, proposal); err != nil {
		return nil, err
	}

	c.log.With(
		slog.String("proposal", proposal.ID),
		slog.String("lead", lead.ID),
		slog.String("via", proposal.SentVia),
	).Info("proposal sent")

	c.advanceStage(ctx, actor, lead, entity.StageProposalSent)
	return proposal, nil
}
