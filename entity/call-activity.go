package entity

import (
	"BizDevCRM/internal/lib/validate"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// CallActivity is a raw call event; no aggregation is stored.
type CallActivity struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"userId" bson:"user_id"`
	LeadID    string    `json:"leadId" bson:"lead_id"`
	Phone     string    `json:"phone" bson:"phone"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

type CallLogRequest struct {
	LeadID string `json:"leadId" validate:"omitempty"`
	Phone  string `json:"phone" validate:"required"`
}

func (c *CallLogRequest) Bind(_ *http.Request) error {
	return validate.Struct(c)
}

func NewCallActivity(userID string, req *CallLogRequest) *CallActivity {
	return &CallActivity{
		ID:        uuid.NewString(),
		UserID:    userID,
		LeadID:    req.LeadID,
		Phone:     req.Phone,
		Timestamp: time.Now(),
	}
}

type UserCalls struct {
	UserID string         `json:"userId"`
	Count  int            `json:"count"`
	Calls  []CallActivity `json:"calls"`
}
