package core

import (
	"BizDevCRM/entity"
	"context"
	"strings"
)

// SendInternalMessage stores a direct or broadcast message and pushes it to
// connected clients. BD Executives may only write to Admin or Manager.
func (c *Core) SendInternalMessage(ctx context.Context, actor *entity.UserAuth, req *entity.MessageRequest) (*entity.InternalMessage, error) {
	recipientID := strings.TrimSpace(req.RecipientID)
	broadcast := strings.EqualFold(recipientID, entity.BroadcastRecipient)

	var recipient *entity.User
	if broadcast {
		recipientID = entity.BroadcastRecipient
	} else {
		var err error
		recipient, err = c.repo.GetUserByID(ctx, recipientID)
		if err != nil {
			return nil, err
		}
		if recipient == nil {
			return nil, entity.NewValidationError("recipientId", "recipient does not exist")
		}
	}
	if !entity.CanMessage(actor, recipient, broadcast) {
		return nil, entity.ErrForbidden
	}

	msg := entity.NewInternalMessage(actor, recipientID, req.Content)
	if msg.Content == "" {
		return nil, entity.NewValidationError("content", "message is empty")
	}
	if err := c.repo.InsertMessage(ctx, msg); err != nil {
		return nil, err
	}
	if c.notifier != nil {
		c.notifier.PushMessage(msg)
	}
	return msg, nil
}

// GetMessages returns the user's direct, broadcast and sent messages.
func (c *Core) GetMessages(ctx context.Context, actor *entity.UserAuth) ([]entity.InternalMessage, error) {
	messages, err := c.repo.FindMessages(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []entity.InternalMessage{}
	}
	return messages, nil
}

func (c *Core) MarkMessageRead(ctx context.Context, actor *entity.UserAuth, id string) error {
	msg, err := c.repo.GetMessage(ctx, id)
	if err != nil {
		return err
	}
	if msg == nil {
		return entity.ErrNotFound
	}
	if !msg.AddressedTo(actor.ID) {
		return entity.ErrForbidden
	}
	if _, err = c.repo.MarkMessageRead(ctx, id, actor.ID); err != nil {
		return err
	}
	if c.notifier != nil {
		c.notifier.PushRead(msg, actor.ID)
	}
	return nil
}
