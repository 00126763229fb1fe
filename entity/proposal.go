package entity

import (
	"BizDevCRM/internal/lib/validate"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	SentViaEmail    = "Email"
	SentViaWhatsApp = "WhatsApp"
	SentViaBoth     = "Both"
)

const (
	ProposalDraft = "Draft"
	ProposalSent  = "Sent"
)

type Proposal struct {
	ID              string     `json:"id" bson:"_id"`
	LeadID          string     `json:"lead_id" bson:"lead_id"`
	TemplateID      string     `json:"template_id" bson:"template_id"`
	RateCardVersion string     `json:"rate_card_version" bson:"rate_card_version"`
	SentVia         string     `json:"sent_via" bson:"sent_via"`
	Status          string     `json:"status" bson:"status"`
	Subject         string     `json:"subject" bson:"subject"`
	Body            string     `json:"body" bson:"body"`
	RecipientEmail  string     `json:"recipient_email,omitempty" bson:"recipient_email"`
	RecipientPhone  string     `json:"recipient_phone,omitempty" bson:"recipient_phone"`
	CreatedBy       string     `json:"created_by" bson:"created_by"`
	CreatedAt       time.Time  `json:"created_at" bson:"created_at"`
	SentAt          *time.Time `json:"sent_at,omitempty" bson:"sent_at,omitempty"`
}

func (p *Proposal) SendsEmail() bool {
	return p.SentVia == SentViaEmail || p.SentVia == SentViaBoth
}

func (p *Proposal) SendsWhatsApp() bool {
	return p.SentVia == SentViaWhatsApp || p.SentVia == SentViaBoth
}

type ProposalRequest struct {
	LeadID          string `json:"lead_id" validate:"required"`
	TemplateID      string `json:"template_id" validate:"required"`
	RateCardVersion string `json:"rate_card_version" validate:"required"`
	SentVia         string `json:"sent_via" validate:"required,oneof=Email WhatsApp Both"`
	Subject         string `json:"subject" validate:"omitempty"`
	Body            string `json:"body" validate:"omitempty"`
	RecipientEmail  string `json:"recipient_email" validate:"omitempty,email"`
	RecipientPhone  string `json:"recipient_phone" validate:"omitempty"`
}

func (r *ProposalRequest) Bind(_ *http.Request) error {
	return validate.Struct(r)
}

func NewProposal(req *ProposalRequest, lead *Lead, creatorID string) *Proposal {
	email := req.RecipientEmail
	if email == "" {
		email = lead.ContactEmail
	}
	phone := req.RecipientPhone
	if phone == "" {
		phone = lead.ContactPhone
	}
	subject := req.Subject
	if subject == "" {
		subject = "Proposal for " + lead.CompanyName
	}
	return &Proposal{
		ID:              uuid.NewString(),
		LeadID:          lead.ID,
		TemplateID:      req.TemplateID,
		RateCardVersion: req.RateCardVersion,
		SentVia:         req.SentVia,
		Status:          ProposalDraft,
		Subject:         subject,
		Body:            req.Body,
		RecipientEmail:  email,
		RecipientPhone:  phone,
		CreatedBy:       creatorID,
		CreatedAt:       time.Now(),
	}
}

type DraftRequest struct {
	LeadID          string `json:"lead_id" validate:"required"`
	TemplateID      string `json:"template_id" validate:"omitempty"`
	RateCardVersion string `json:"rate_card_version" validate:"omitempty"`
	Notes           string `json:"notes" validate:"omitempty"`
}

func (r *DraftRequest) Bind(_ *http.Request) error {
	return validate.Struct(r)
}
