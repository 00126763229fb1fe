package core

import (
	"BizDevCRM/entity"
	"BizDevCRM/internal/lib/sl"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

func (c *Core) CreateLead(ctx context.Context, actor *entity.UserAuth, req *entity.LeadRequest) (*entity.Lead, error) {
	if actor.IsBDExecutive() && req.AssignedTo != "" && req.AssignedTo != actor.ID {
		return nil, fmt.Errorf("%w: only managers assign leads to other users", entity.ErrForbidden)
	}
	lead, err := entity.NewLead(req, actor.ID)
	if err != nil {
		return nil, err
	}
	if err = c.repo.InsertLead(ctx, lead); err != nil {
		return nil, err
	}

	c.recordActivity(ctx, entity.NewActivityLog(entity.EntityLead, entity.ActionCreate, lead.ID, lead.CompanyName, actor))
	return lead, nil
}

func (c *Core) GetLeads(ctx context.Context, actor *entity.UserAuth, filter entity.LeadFilter) ([]entity.Lead, error) {
	if !actor.CanManage() {
		filter.VisibleTo = actor.ID
	}
	leads, err := c.repo.FindLeads(ctx, filter)
	if err != nil {
		return nil, err
	}
	if leads == nil {
		leads = []entity.Lead{}
	}
	for i := range leads {
		c.signRemarks(leads[i].Remarks)
	}
	return leads, nil
}

func (c *Core) GetLead(ctx context.Context, actor *entity.UserAuth, id string) (*entity.Lead, error) {
	lead, err := c.visibleLead(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	c.signRemarks(lead.Remarks)
	return lead, nil
}

// visibleLead loads a lead the actor may see.
func (c *Core) visibleLead(ctx context.Context, actor *entity.UserAuth, id string) (*entity.Lead, error) {
	lead, err := c.repo.GetLead(ctx, id)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, entity.ErrNotFound
	}
	if !lead.VisibleTo(actor) {
		return nil, entity.ErrForbidden
	}
	return lead, nil
}

// UpdateLead diffs the patch against the stored lead and records the changed
// fields. A stale version is rejected.
func (c *Core) UpdateLead(ctx context.Context, actor *entity.UserAuth, id string, patch *entity.LeadPatch) (*entity.Lead, error) {
	lead, err := c.visibleLead(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if lead.Version != patch.Version {
		return nil, entity.ErrVersionConflict
	}
	if actor.IsBDExecutive() && patch.AssignedTo != nil && strings.TrimSpace(*patch.AssignedTo) != lead.AssignedTo {
		return nil, fmt.Errorf("%w: only managers reassign leads", entity.ErrForbidden)
	}

	changes, err := patch.Apply(lead)
	if err != nil {
		return nil, err
	}
	if len(changes) == 0 {
		c.signRemarks(lead.Remarks)
		return lead, nil
	}

	if err = c.saveLead(ctx, lead, patch.Version); err != nil {
		return nil, err
	}

	action := entity.ActionUpdate
	if len(changes) == 1 && changes[0].Field == "stage" {
		action = entity.ActionStageChanged
	}
	c.recordActivity(ctx, entity.NewActivityLog(entity.EntityLead, action, lead.ID, lead.CompanyName, actor).WithChanges(changes))

	c.signRemarks(lead.Remarks)
	return lead, nil
}

func (c *Core) saveLead(ctx context.Context, lead *entity.Lead, expectedVersion int64) error {
	lead.Version = expectedVersion + 1
	lead.UpdatedAt = c.now()
	return c.repo.UpdateLead(ctx, lead, expectedVersion)
}

// ChangeStage moves a lead through the stage machine.
func (c *Core) ChangeStage(ctx context.Context, actor *entity.UserAuth, id string, req *entity.StageRequest) (*entity.Lead, error) {
	stage := req.Stage
	return c.UpdateLead(ctx, actor, id, &entity.LeadPatch{Version: req.Version, Stage: &stage})
}

// advanceStage moves an open lead forward to target if it is behind it.
// Used by proposal flows; a conflict is logged and skipped.
func (c *Core) advanceStage(ctx context.Context, actor *entity.UserAuth, lead *entity.Lead, target entity.Stage) {
	if !stageBefore(lead.Stage, target) || !entity.CanTransition(lead.Stage, target) {
		return
	}
	change := entity.FieldChange{Field: "stage", OldValue: string(lead.Stage), NewValue: string(target)}
	expected := lead.Version
	lead.Stage = target
	if err := c.saveLead(ctx, lead, expected); err != nil {
		c.log.With(sl.Err(err), slog.String("lead", lead.ID)).Warn("advance lead stage")
		return
	}
	c.recordActivity(ctx, entity.NewActivityLog(entity.EntityLead, entity.ActionStageChanged, lead.ID, lead.CompanyName, actor).
		WithChanges([]entity.FieldChange{change}))
}

func stageBefore(current, target entity.Stage) bool {
	index := func(s entity.Stage) int {
		for i, st := range entity.Stages {
			if st == s {
				return i
			}
		}
		return -1
	}
	return current.IsOpen() && index(current) < index(target)
}

// DeleteLead is restricted to Admin and Manager.
func (c *Core) DeleteLead(ctx context.Context, actor *entity.UserAuth, id string) error {
	if !actor.CanManage() {
		return entity.ErrForbidden
	}
	lead, err := c.repo.GetLead(ctx, id)
	if err != nil {
		return err
	}
	if lead == nil {
		return entity.ErrNotFound
	}
	deleted, err := c.repo.DeleteLead(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return entity.ErrNotFound
	}

	c.recordActivity(ctx, entity.NewActivityLog(entity.EntityLead, entity.ActionDelete, lead.ID, lead.CompanyName, actor))
	return nil
}

func (c *Core) AddPointOfContact(ctx context.Context, actor *entity.UserAuth, leadID string, contact *entity.PointOfContact) ([]entity.PointOfContact, error) {
	lead, err := c.visibleLead(ctx, actor, leadID)
	if err != nil {
		return nil, err
	}
	contact.ID = uuid.NewString()
	contacts, err := c.repo.PushContact(ctx, lead.ID, contact)
	if err != nil {
		return nil, err
	}
	if contacts == nil {
		return nil, entity.ErrNotFound
	}

	c.recordActivity(ctx, entity.NewActivityLog(entity.EntityLead, entity.ActionUpdate, lead.ID, lead.CompanyName, actor).
		WithChanges([]entity.FieldChange{{Field: "points_of_contact", OldValue: nil, NewValue: contact.Name}}))
	return contacts, nil
}

func (c *Core) DeletePointOfContact(ctx context.Context, actor *entity.UserAuth, leadID, contactID string) ([]entity.PointOfContact, error) {
	lead, err := c.visibleLead(ctx, actor, leadID)
	if err != nil {
		return nil, err
	}
	var removed *entity.PointOfContact
	for i := range lead.PointsOfContact {
		if lead.PointsOfContact[i].ID == contactID {
			removed = &lead.PointsOfContact[i]
			break
		}
	}
	if removed == nil {
		return nil, entity.ErrNotFound
	}

	contacts, err := c.repo.PullContact(ctx, lead.ID, contactID)
	if err != nil {
		return nil, err
	}
	if contacts == nil {
		return nil, entity.ErrNotFound
	}

	c.recordActivity(ctx, entity.NewActivityLog(entity.EntityLead, entity.ActionUpdate, lead.ID, lead.CompanyName, actor).
		WithChanges([]entity.FieldChange{{Field: "points_of_contact", OldValue: removed.Name, NewValue: nil}}))
	return contacts, nil
}
