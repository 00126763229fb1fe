package core

import (
	"BizDevCRM/entity"
	"BizDevCRM/internal/lib/sl"
	"bytes"
	"context"
	"fmt"
	"log/slog"
)

// AddRemark appends a remark to the lead and returns the full remarks list.
// An uploaded file or voice note is stored first and referenced by ID.
func (c *Core) AddRemark(ctx context.Context, actor *entity.UserAuth, leadID string, in entity.RemarkInput, file, voice *entity.Upload) ([]entity.Remark, error) {
	lead, err := c.visibleLead(ctx, actor, leadID)
	if err != nil {
		return nil, err
	}

	var stored []string
	if file != nil {
		id, err := c.storeUpload(ctx, file, entity.PurposeRemark, lead.ID, actor.ID)
		if err != nil {
			return nil, err
		}
		in.FileID = id
		in.FileName = file.Filename
		stored = append(stored, id)
	}
	if voice != nil {
		id, err := c.storeUpload(ctx, voice, entity.PurposeVoice, lead.ID, actor.ID)
		if err != nil {
			c.discardFiles(ctx, stored)
			return nil, err
		}
		in.VoiceID = id
		stored = append(stored, id)
	}

	remark, err := entity.NewRemark(in, actor)
	if err != nil {
		c.discardFiles(ctx, stored)
		return nil, err
	}

	remarks, err := c.repo.PushRemark(ctx, lead.ID, remark)
	if err != nil {
		c.discardFiles(ctx, stored)
		return nil, err
	}
	if remarks == nil {
		c.discardFiles(ctx, stored)
		return nil, entity.ErrNotFound
	}

	c.recordActivity(ctx, entity.NewActivityLog(entity.EntityLead, entity.ActionRemarkAdded, lead.ID, lead.CompanyName, actor).
		WithRemark(remark))

	c.signRemarks(remarks)
	return remarks, nil
}

// DeleteRemark removes one remark. Its author or a manager may delete it.
func (c *Core) DeleteRemark(ctx context.Context, actor *entity.UserAuth, leadID, remarkID string) ([]entity.Remark, error) {
	lead, err := c.visibleLead(ctx, actor, leadID)
	if err != nil {
		return nil, err
	}

	var removed *entity.Remark
	for i := range lead.Remarks {
		if lead.Remarks[i].ID == remarkID {
			r := lead.Remarks[i]
			removed = &r
			break
		}
	}
	if removed == nil {
		return nil, entity.ErrNotFound
	}
	if removed.Author != actor.ID && !actor.CanManage() {
		return nil, entity.ErrForbidden
	}

	remarks, err := c.repo.PullRemark(ctx, lead.ID, remarkID)
	if err != nil {
		return nil, err
	}
	if remarks == nil {
		return nil, entity.ErrNotFound
	}

	c.discardFiles(ctx, []string{removed.FileID, removed.VoiceID})
	c.recordActivity(ctx, entity.NewActivityLog(entity.EntityLead, entity.ActionRemarkDeleted, lead.ID, lead.CompanyName, actor).
		WithRemark(removed))

	c.signRemarks(remarks)
	return remarks, nil
}

func (c *Core) storeUpload(ctx context.Context, upload *entity.Upload, purpose, entityID, uploader string) (string, error) {
	if c.files == nil {
		return "", fmt.Errorf("file store: %w", entity.ErrNotConfigured)
	}
	if upload.Size() > c.maxFileSize {
		return "", entity.FileTooLargeError(upload.Filename, upload.Size(), c.maxFileSize)
	}
	mimeType := upload.MIMEType
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	id, _, err := c.files.UploadFile(ctx, upload.Filename, bytes.NewReader(upload.Data), entity.FileMetadata{
		MIMEType: mimeType,
		Purpose:  purpose,
		EntityID: entityID,
		Uploader: uploader,
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

func (c *Core) discardFiles(ctx context.Context, ids []string) {
	if c.files == nil {
		return
	}
	for _, id := range ids {
		if id == "" {
			continue
		}
		if err := c.files.DeleteFile(ctx, id); err != nil {
			c.log.With(sl.Err(err), slog.String("file", id)).Warn("delete stored file")
		}
	}
}

func (c *Core) signRemark(r *entity.Remark) {
	if c.signer == nil {
		return
	}
	r.FileURL = c.signer.Sign(r.FileID)
	r.VoiceURL = c.signer.Sign(r.VoiceID)
}

func (c *Core) signRemarks(remarks []entity.Remark) {
	for i := range remarks {
		c.signRemark(&remarks[i])
	}
}
