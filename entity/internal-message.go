package entity

import (
	"BizDevCRM/internal/lib/validate"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BroadcastRecipient addresses a message to every user.
const BroadcastRecipient = "ALL"

type InternalMessage struct {
	ID          string    `json:"id" bson:"_id"`
	SenderID    string    `json:"senderId" bson:"sender_id"`
	SenderName  string    `json:"senderName" bson:"sender_name"`
	SenderRole  string    `json:"senderRole" bson:"sender_role"`
	RecipientID string    `json:"recipientId" bson:"recipient_id"`
	Content     string    `json:"content" bson:"content"`
	ReadBy      []string  `json:"readBy" bson:"read_by"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
}

func (m *InternalMessage) IsBroadcast() bool {
	return m.RecipientID == BroadcastRecipient
}

// AddressedTo reports whether userID should receive the message.
func (m *InternalMessage) AddressedTo(userID string) bool {
	return m.IsBroadcast() || m.RecipientID == userID
}

type MessageRequest struct {
	RecipientID string `json:"recipientId" validate:"required"`
	Content     string `json:"content" validate:"required"`
}

func (r *MessageRequest) Bind(_ *http.Request) error {
	return validate.Struct(r)
}

// CanMessage applies the role rules: BD Executives may only write to an
// Admin or a Manager and may not broadcast.
func CanMessage(sender *UserAuth, recipient *User, broadcast bool) bool {
	if sender == nil {
		return false
	}
	if sender.IsBDExecutive() {
		if broadcast || recipient == nil {
			return false
		}
		return recipient.CanManage()
	}
	return broadcast || recipient != nil
}

func NewInternalMessage(sender *UserAuth, recipientID, content string) *InternalMessage {
	return &InternalMessage{
		ID:          uuid.NewString(),
		SenderID:    sender.ID,
		SenderName:  sender.Name,
		SenderRole:  sender.Role,
		RecipientID: recipientID,
		Content:     strings.TrimSpace(content),
		ReadBy:      []string{},
		CreatedAt:   time.Now(),
	}
}
