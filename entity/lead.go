package entity

import (
	"BizDevCRM/internal/lib/validate"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Stage string

const (
	StageNew          Stage = "New"
	StageContacted    Stage = "Contacted"
	StageProposalSent Stage = "Proposal Sent"
	StageNegotiation  Stage = "Negotiation"
	StageWon          Stage = "Won"
	StageLost         Stage = "Lost"
)

var Stages = []Stage{StageNew, StageContacted, StageProposalSent, StageNegotiation, StageWon, StageLost}

// stageTransitions lists the allowed targets per stage. Won is terminal,
// Lost can only be reopened.
var stageTransitions = map[Stage]map[Stage]bool{
	StageNew:          {StageContacted: true, StageProposalSent: true, StageNegotiation: true, StageWon: true, StageLost: true},
	StageContacted:    {StageNew: true, StageProposalSent: true, StageNegotiation: true, StageWon: true, StageLost: true},
	StageProposalSent: {StageNew: true, StageContacted: true, StageNegotiation: true, StageWon: true, StageLost: true},
	StageNegotiation:  {StageNew: true, StageContacted: true, StageProposalSent: true, StageWon: true, StageLost: true},
	StageWon:          {},
	StageLost:         {StageNew: true, StageContacted: true},
}

func ParseStage(s string) (Stage, bool) {
	for _, st := range Stages {
		if strings.EqualFold(string(st), strings.TrimSpace(s)) {
			return st, true
		}
	}
	return "", false
}

func (s Stage) IsOpen() bool {
	return s != StageWon && s != StageLost
}

// CanTransition reports whether a lead may move from one stage to another.
// Staying on the same stage is always allowed.
func CanTransition(from, to Stage) bool {
	if from == to {
		return true
	}
	if from == "" {
		_, ok := stageTransitions[to]
		return ok
	}
	next, ok := stageTransitions[from]
	if !ok {
		return false
	}
	return next[to]
}

type PointOfContact struct {
	ID          string `json:"id" bson:"id"`
	Name        string `json:"name" bson:"name" validate:"required"`
	Designation string `json:"designation,omitempty" bson:"designation"`
	Email       string `json:"email,omitempty" bson:"email" validate:"omitempty,email"`
	Phone       string `json:"phone,omitempty" bson:"phone"`
}

func (p *PointOfContact) Bind(_ *http.Request) error {
	return validate.Struct(p)
}

type Lead struct {
	ID              string           `json:"id" bson:"_id"`
	CompanyName     string           `json:"company_name" bson:"company_name"`
	ContactName     string           `json:"contact_name" bson:"contact_name"`
	ContactEmail    string           `json:"contact_email" bson:"contact_email"`
	ContactPhone    string           `json:"contact_phone,omitempty" bson:"contact_phone"`
	IndustryName    string           `json:"industry_name" bson:"industry_name"`
	Stage           Stage            `json:"stage" bson:"stage"`
	Value           float64          `json:"value" bson:"value"`
	Source          string           `json:"source,omitempty" bson:"source"`
	AssignedBy      string           `json:"assigned_by" bson:"assigned_by"`
	AssignedTo      string           `json:"assigned_to" bson:"assigned_to"`
	PointsOfContact []PointOfContact `json:"points_of_contact" bson:"points_of_contact"`
	Remarks         []Remark         `json:"remarks" bson:"remarks"`
	Version         int64            `json:"version" bson:"version"`
	CreatedAt       time.Time        `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at" bson:"updated_at"`
}

// VisibleTo reports whether a user may read the lead.
func (l *Lead) VisibleTo(user *UserAuth) bool {
	if user == nil {
		return false
	}
	if user.CanManage() {
		return true
	}
	return l.AssignedTo == user.ID || l.AssignedBy == user.ID
}

type LeadRequest struct {
	CompanyName     string           `json:"company_name" validate:"required"`
	ContactName     string           `json:"contact_name" validate:"omitempty"`
	ContactEmail    string           `json:"contact_email" validate:"omitempty,email"`
	ContactPhone    string           `json:"contact_phone" validate:"omitempty"`
	IndustryName    string           `json:"industry_name" validate:"omitempty"`
	Stage           string           `json:"stage" validate:"omitempty"`
	Value           *float64         `json:"value" validate:"omitempty,min=0"`
	Revenue         *float64         `json:"revenue" validate:"omitempty,min=0"`
	Source          string           `json:"source" validate:"omitempty"`
	AssignedTo      string           `json:"assigned_to" validate:"omitempty"`
	PointsOfContact []PointOfContact `json:"points_of_contact" validate:"omitempty,dive"`
}

func (r *LeadRequest) Bind(_ *http.Request) error {
	return validate.Struct(r)
}

// NewLead builds a lead owned by the creating user.
func NewLead(req *LeadRequest, creatorID string) (*Lead, error) {
	stage := StageNew
	if req.Stage != "" {
		st, ok := ParseStage(req.Stage)
		if !ok {
			return nil, NewValidationError("stage", fmt.Sprintf("unknown stage %q", req.Stage))
		}
		stage = st
	}
	assignedTo := req.AssignedTo
	if assignedTo == "" {
		assignedTo = creatorID
	}
	contacts := make([]PointOfContact, 0, len(req.PointsOfContact))
	for _, p := range req.PointsOfContact {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		contacts = append(contacts, p)
	}
	now := time.Now()
	return &Lead{
		ID:              uuid.NewString(),
		CompanyName:     strings.TrimSpace(req.CompanyName),
		ContactName:     strings.TrimSpace(req.ContactName),
		ContactEmail:    strings.TrimSpace(req.ContactEmail),
		ContactPhone:    strings.TrimSpace(req.ContactPhone),
		IndustryName:    strings.TrimSpace(req.IndustryName),
		Stage:           stage,
		Value:           valueOrRevenue(req.Value, req.Revenue),
		Source:          req.Source,
		AssignedBy:      creatorID,
		AssignedTo:      assignedTo,
		PointsOfContact: contacts,
		Remarks:         []Remark{},
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

func valueOrRevenue(value, revenue *float64) float64 {
	if value != nil {
		return *value
	}
	if revenue != nil {
		return *revenue
	}
	return 0
}

// LeadPatch is a partial update. Nil fields are left untouched.
type LeadPatch struct {
	Version      int64    `json:"version" validate:"required,min=1"`
	CompanyName  *string  `json:"company_name" validate:"omitempty,min=1"`
	ContactName  *string  `json:"contact_name"`
	ContactEmail *string  `json:"contact_email" validate:"omitempty,email"`
	ContactPhone *string  `json:"contact_phone"`
	IndustryName *string  `json:"industry_name"`
	Stage        *string  `json:"stage"`
	Value        *float64 `json:"value" validate:"omitempty,min=0"`
	Revenue      *float64 `json:"revenue" validate:"omitempty,min=0"`
	Source       *string  `json:"source"`
	AssignedTo   *string  `json:"assigned_to"`
}

func (p *LeadPatch) Bind(_ *http.Request) error {
	return validate.Struct(p)
}

// Apply mutates the lead and returns the structured list of changed fields.
// A stage change must satisfy CanTransition.
func (p *LeadPatch) Apply(lead *Lead) ([]FieldChange, error) {
	var changes []FieldChange

	setString := func(field string, dst *string, src *string) {
		if src == nil {
			return
		}
		v := strings.TrimSpace(*src)
		if v == *dst {
			return
		}
		changes = append(changes, FieldChange{Field: field, OldValue: *dst, NewValue: v})
		*dst = v
	}

	setString("company_name", &lead.CompanyName, p.CompanyName)
	setString("contact_name", &lead.ContactName, p.ContactName)
	setString("contact_email", &lead.ContactEmail, p.ContactEmail)
	setString("contact_phone", &lead.ContactPhone, p.ContactPhone)
	setString("industry_name", &lead.IndustryName, p.IndustryName)
	setString("source", &lead.Source, p.Source)
	setString("assigned_to", &lead.AssignedTo, p.AssignedTo)

	if p.Value != nil || p.Revenue != nil {
		v := valueOrRevenue(p.Value, p.Revenue)
		if v != lead.Value {
			changes = append(changes, FieldChange{Field: "value", OldValue: lead.Value, NewValue: v})
			lead.Value = v
		}
	}

	if p.Stage != nil {
		st, ok := ParseStage(*p.Stage)
		if !ok {
			return nil, NewValidationError("stage", fmt.Sprintf("unknown stage %q", *p.Stage))
		}
		if st != lead.Stage {
			if !CanTransition(lead.Stage, st) {
				return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, lead.Stage, st)
			}
			changes = append(changes, FieldChange{Field: "stage", OldValue: string(lead.Stage), NewValue: string(st)})
			lead.Stage = st
		}
	}

	return changes, nil
}

type StageRequest struct {
	Version int64  `json:"version" validate:"required,min=1"`
	Stage   string `json:"stage" validate:"required"`
}

func (s *StageRequest) Bind(_ *http.Request) error {
	return validate.Struct(s)
}

type LeadFilter struct {
	Stage      string
	AssignedTo string
	Search     string
	// VisibleTo restricts results to leads assigned to or by this user.
	VisibleTo string
}
