package core

import (
	"BizDevCRM/entity"
	"BizDevCRM/internal/lib/sl"
	"context"
	"fmt"
	"log/slog"
)

// SendEmail validates the request before any network call, stores the
// attachments, sends with the sender's own SMTP login and records the
// outcome. The app password is used for this send only.
func (c *Core) SendEmail(ctx context.Context, actor *entity.UserAuth, req *entity.SendEmailRequest) (*entity.Email, error) {
	if err := req.Validate(c.maxFileSize); err != nil {
		return nil, err
	}
	if c.mailer == nil {
		return nil, fmt.Errorf("mailer: %w", entity.ErrNotConfigured)
	}

	email := entity.NewOutgoingEmail(actor.ID, req)
	for i := range req.Attachments {
		a := &req.Attachments[i]
		attachment := entity.Attachment{Filename: a.Filename, MIMEType: a.MIMEType, Size: a.Size()}
		if c.files != nil {
			id, err := c.storeUpload(ctx, a, entity.PurposeEmail, email.ID, actor.ID)
			if err != nil {
				return nil, err
			}
			attachment.FileID = id
		}
		email.Attachments = append(email.Attachments, attachment)
	}

	sendErr := c.mailer.Send(ctx, req.From, req.AppPassword, req.Mail())
	if sendErr != nil {
		email.Status = entity.EmailFailed
		email.Error = sendErr.Error()
	}

	if err := c.repo.InsertEmail(ctx, email); err != nil {
		c.log.With(sl.Err(err), slog.String("email", email.ID)).Error("store sent email")
	}
	c.signAttachments(email.Attachments)

	if sendErr != nil {
		return email, sendErr
	}
	return email, nil
}

func (c *Core) GetSentEmails(ctx context.Context, actor *entity.UserAuth) ([]entity.Email, error) {
	emails, err := c.repo.FindEmails(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if emails == nil {
		emails = []entity.Email{}
	}
	for i := range emails {
		c.signAttachments(emails[i].Attachments)
	}
	return emails, nil
}

func (c *Core) DeleteEmail(ctx context.Context, actor *entity.UserAuth, id string) error {
	deleted, err := c.repo.DeleteEmail(ctx, id, actor.ID)
	if err != nil {
		return err
	}
	if !deleted {
		return entity.ErrNotFound
	}
	return nil
}

// FetchInbox reads the shared mailbox on demand.
func (c *Core) FetchInbox(ctx context.Context, _ *entity.UserAuth, limit uint32) ([]entity.InboxMessage, error) {
	if c.mailer == nil {
		return nil, fmt.Errorf("mailer: %w", entity.ErrNotConfigured)
	}
	return c.mailer.FetchInbox(ctx, limit)
}

func (c *Core) signAttachments(attachments []entity.Attachment) {
	if c.signer == nil {
		return
	}
	for i := range attachments {
		attachments[i].URL = c.signer.Sign(attachments[i].FileID)
	}
}
