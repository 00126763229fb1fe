package core

import (
	"BizDevCRM/entity"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func (f *fixture) lead(t *testing.T, owner *entity.UserAuth, company string) *entity.Lead {
	t.Helper()
	lead, err := f.core.CreateLead(context.Background(), owner, &entity.LeadRequest{
		CompanyName:  company,
		ContactEmail: "buyer@" + company + ".com",
		ContactPhone: "+91 98765 43210",
	})
	require.NoError(t, err)
	return lead
}

func TestCreateLeadRecordsActivity(t *testing.T) {
	f := newFixture()
	lead := f.lead(t, f.bd, "acme")

	assert.Equal(t, entity.StageNew, lead.Stage)
	assert.Equal(t, f.bd.ID, lead.AssignedTo)
	assert.Equal(t, int64(1), lead.Version)
	assert.Equal(t, []string{entity.ActionCreate}, f.repo.actions(lead.ID))
	require.Len(t, f.notifier.activities, 1)
	assert.Equal(t, "created Lead acme", f.notifier.activities[0].Description)
}

func TestBDExecutiveCannotAssignLeadToOthers(t *testing.T) {
	f := newFixture()
	_, err := f.core.CreateLead(context.Background(), f.bd, &entity.LeadRequest{CompanyName: "acme", AssignedTo: f.bd2.ID})
	assert.ErrorIs(t, err, entity.ErrForbidden)
}

func TestLeadVisibility(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	own := f.lead(t, f.bd, "acme")
	f.lead(t, f.bd2, "globex")

	leads, err := f.core.GetLeads(ctx, f.bd, entity.LeadFilter{})
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, own.ID, leads[0].ID)

	leads, err = f.core.GetLeads(ctx, f.manager, entity.LeadFilter{})
	require.NoError(t, err)
	assert.Len(t, leads, 2)

	_, err = f.core.GetLead(ctx, f.bd2, own.ID)
	assert.ErrorIs(t, err, entity.ErrForbidden)
}

func TestUpdateLeadRecordsStructuredChanges(t *testing.T) {
	f := newFixture()
	lead := f.lead(t, f.bd, "acme")

	value := 500000.0
	updated, err := f.core.UpdateLead(context.Background(), f.bd, lead.ID, &entity.LeadPatch{
		Version:      1,
		IndustryName: strPtr("Logistics"),
		Value:        &value,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.Version)

	logs, err := f.core.GetAllActivities(context.Background(), f.manager, entity.ActivityFilter{EntityID: lead.ID})
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, entity.ActionUpdate, logs[0].Action)
	assert.Equal(t, []entity.FieldChange{
		{Field: "industry_name", OldValue: "", NewValue: "Logistics"},
		{Field: "value", OldValue: 0.0, NewValue: 500000.0},
	}, logs[0].Changes)
	assert.Equal(t, "updated Lead acme: Industry, Value", logs[0].Description)
}

func TestUpdateLeadRejectsStaleVersion(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	lead := f.lead(t, f.bd, "acme")

	_, err := f.core.UpdateLead(ctx, f.bd, lead.ID, &entity.LeadPatch{Version: 1, Source: strPtr("referral")})
	require.NoError(t, err)

	_, err = f.core.UpdateLead(ctx, f.manager, lead.ID, &entity.LeadPatch{Version: 1, Source: strPtr("event")})
	assert.ErrorIs(t, err, entity.ErrVersionConflict)

	stored, err := f.core.GetLead(ctx, f.manager, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, "referral", stored.Source)
}

func TestUpdateLeadWithoutChangesKeepsVersion(t *testing.T) {
	f := newFixture()
	lead := f.lead(t, f.bd, "acme")

	same, err := f.core.UpdateLead(context.Background(), f.bd, lead.ID, &entity.LeadPatch{Version: 1, CompanyName: strPtr("acme")})
	require.NoError(t, err)
	assert.Equal(t, int64(1), same.Version)
	assert.Equal(t, []string{entity.ActionCreate}, f.repo.actions(lead.ID))
}

func TestBDExecutiveCannotReassignLead(t *testing.T) {
	f := newFixture()
	lead := f.lead(t, f.bd, "acme")

	_, err := f.core.UpdateLead(context.Background(), f.bd, lead.ID, &entity.LeadPatch{Version: 1, AssignedTo: strPtr(f.bd2.ID)})
	assert.ErrorIs(t, err, entity.ErrForbidden)
}

func TestChangeStage(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	lead := f.lead(t, f.bd, "acme")

	won, err := f.core.ChangeStage(ctx, f.bd, lead.ID, &entity.StageRequest{Version: 1, Stage: "won"})
	require.NoError(t, err)
	assert.Equal(t, entity.StageWon, won.Stage)
	assert.Equal(t, []string{entity.ActionCreate, entity.ActionStageChanged}, f.repo.actions(lead.ID))

	_, err = f.core.ChangeStage(ctx, f.bd, lead.ID, &entity.StageRequest{Version: 2, Stage: "New"})
	assert.ErrorIs(t, err, entity.ErrInvalidTransition)

	_, err = f.core.ChangeStage(ctx, f.bd, lead.ID, &entity.StageRequest{Version: 2, Stage: "Closed"})
	assert.True(t, entity.IsValidationError(err))
}

func TestDeleteLeadIsManagerOnly(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	lead := f.lead(t, f.bd, "acme")

	assert.ErrorIs(t, f.core.DeleteLead(ctx, f.bd, lead.ID), entity.ErrForbidden)
	require.NoError(t, f.core.DeleteLead(ctx, f.manager, lead.ID))
	assert.ErrorIs(t, f.core.DeleteLead(ctx, f.manager, lead.ID), entity.ErrNotFound)
}

func TestPointsOfContact(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	lead := f.lead(t, f.bd, "acme")

	contacts, err := f.core.AddPointOfContact(ctx, f.bd, lead.ID, &entity.PointOfContact{Name: "Priya"})
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.NotEmpty(t, contacts[0].ID)

	contacts, err = f.core.DeletePointOfContact(ctx, f.bd, lead.ID, contacts[0].ID)
	require.NoError(t, err)
	assert.Empty(t, contacts)

	_, err = f.core.DeletePointOfContact(ctx, f.bd, lead.ID, "missing")
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestAddRemarkWithFile(t *testing.T) {
	f := newFixture()
	lead := f.lead(t, f.bd, "acme")

	remarks, err := f.core.AddRemark(context.Background(), f.bd, lead.ID,
		entity.RemarkInput{Content: "see attached"},
		&entity.Upload{Filename: "quote.pdf", MIMEType: "application/pdf", Data: []byte("pdf")}, nil)
	require.NoError(t, err)
	require.Len(t, remarks, 1)
	assert.Equal(t, entity.RemarkFile, remarks[0].Type)
	assert.Equal(t, "quote.pdf", remarks[0].FileName)
	assert.Contains(t, remarks[0].FileURL, "/api/files/")
	assert.Empty(t, remarks[0].VoiceURL)
	assert.Equal(t, []string{entity.ActionCreate, entity.ActionRemarkAdded}, f.repo.actions(lead.ID))
}

func TestAddRemarkRejectsOversizedUpload(t *testing.T) {
	f := newFixture()
	f.core.SetMaxFileSize(4)
	lead := f.lead(t, f.bd, "acme")

	_, err := f.core.AddRemark(context.Background(), f.bd, lead.ID, entity.RemarkInput{},
		&entity.Upload{Filename: "big.bin", Data: []byte("12345")}, nil)
	assert.ErrorIs(t, err, entity.ErrFileTooLarge)
	assert.Empty(t, f.files.files)
}

func TestAddRemarkDiscardsFilesOnValidationError(t *testing.T) {
	f := newFixture()
	lead := f.lead(t, f.bd, "acme")

	_, err := f.core.AddRemark(context.Background(), f.bd, lead.ID, entity.RemarkInput{Type: entity.RemarkVoice},
		&entity.Upload{Filename: "a.txt", Data: []byte("a")}, nil)
	assert.True(t, entity.IsValidationError(err))
	assert.Empty(t, f.files.files)
	assert.Len(t, f.files.deleted, 1)
}

func TestDeleteRemarkLogsOnce(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	lead := f.lead(t, f.bd, "acme")

	var last []entity.Remark
	for _, text := range []string{"first call", "sent deck", "follow up"} {
		var err error
		last, err = f.core.AddRemark(ctx, f.bd, lead.ID, entity.RemarkInput{Content: text}, nil, nil)
		require.NoError(t, err)
	}
	require.Len(t, last, 3)

	remarks, err := f.core.DeleteRemark(ctx, f.bd, lead.ID, last[1].ID)
	require.NoError(t, err)
	assert.Len(t, remarks, 2)

	deleted := 0
	for _, action := range f.repo.actions(lead.ID) {
		if action == entity.ActionRemarkDeleted {
			deleted++
		}
	}
	assert.Equal(t, 1, deleted)

	logs, err := f.core.GetAllActivities(ctx, f.manager, entity.ActivityFilter{EntityID: lead.ID})
	require.NoError(t, err)
	require.NotNil(t, logs[0].Remark)
	assert.Equal(t, "sent deck", logs[0].Remark.Content)

	_, err = f.core.DeleteRemark(ctx, f.bd, lead.ID, last[1].ID)
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestDeleteRemarkByOtherBDExecutiveIsForbidden(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	lead := f.lead(t, f.manager, "acme")

	remarks, err := f.core.AddRemark(ctx, f.manager, lead.ID, entity.RemarkInput{Content: "intro"}, nil, nil)
	require.NoError(t, err)

	_, err = f.core.UpdateLead(ctx, f.manager, lead.ID, &entity.LeadPatch{Version: 1, AssignedTo: strPtr(f.bd.ID)})
	require.NoError(t, err)

	_, err = f.core.DeleteRemark(ctx, f.bd, lead.ID, remarks[0].ID)
	assert.ErrorIs(t, err, entity.ErrForbidden)
}

func TestRemarkPushDoesNotBumpVersion(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	lead := f.lead(t, f.bd, "acme")

	_, err := f.core.AddRemark(ctx, f.bd, lead.ID, entity.RemarkInput{Content: "note"}, nil, nil)
	require.NoError(t, err)

	updated, err := f.core.UpdateLead(ctx, f.bd, lead.ID, &entity.LeadPatch{Version: 1, Source: strPtr("web")})
	require.NoError(t, err)
	assert.Len(t, updated.Remarks, 1)
}

func TestActivityFailureDoesNotFailMutation(t *testing.T) {
	f := newFixture()
	f.repo.activityErr = errors.New("disk full")

	lead := f.lead(t, f.bd, "acme")
	assert.NotEmpty(t, lead.ID)
	assert.Empty(t, f.notifier.activities)
}

func TestCreateTaskWithoutLead(t *testing.T) {
	f := newFixture()
	task, err := f.core.CreateTask(context.Background(), f.manager, &entity.TaskRequest{
		Title:   "Call back",
		DueDate: f.now,
		Type:    entity.TaskCall,
		UserID:  f.bd.ID,
		LeadID:  strPtr(""),
	})
	require.NoError(t, err)
	assert.Nil(t, task.LeadID)
	assert.Equal(t, f.bd.ID, task.UserID)
	assert.Equal(t, entity.PriorityToday, task.Priority)
}

func TestCreateTaskForcesBDExecutiveToSelf(t *testing.T) {
	f := newFixture()
	task, err := f.core.CreateTask(context.Background(), f.bd, &entity.TaskRequest{
		Title:   "Send deck",
		DueDate: f.now.AddDate(0, 0, 1),
		Type:    entity.TaskEmail,
		UserID:  f.bd2.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, f.bd.ID, task.UserID)
	assert.Equal(t, entity.PriorityTomorrow, task.Priority)
}

func TestCreateTaskWithUnknownLead(t *testing.T) {
	f := newFixture()
	_, err := f.core.CreateTask(context.Background(), f.manager, &entity.TaskRequest{
		Title:   "Meet",
		DueDate: f.now,
		Type:    entity.TaskMeeting,
		LeadID:  strPtr("missing"),
	})
	assert.True(t, entity.IsValidationError(err))
}

func TestTaskBucketsAndVisibility(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	for i, due := range []time.Time{f.now.AddDate(0, 0, -2), f.now, f.now.AddDate(0, 0, 5)} {
		_, err := f.core.CreateTask(ctx, f.manager, &entity.TaskRequest{
			Title:   "task",
			DueDate: due,
			Type:    entity.TaskCall,
			UserID:  []string{f.bd.ID, f.bd.ID, f.bd2.ID}[i],
		})
		require.NoError(t, err)
	}

	overdue, err := f.core.GetTasks(ctx, f.manager, entity.TaskFilter{Bucket: entity.PriorityOverdue})
	require.NoError(t, err)
	assert.Len(t, overdue, 1)

	mine, err := f.core.GetTasks(ctx, f.bd, entity.TaskFilter{})
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestToggleAndUpdateTask(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	task, err := f.core.CreateTask(ctx, f.bd, &entity.TaskRequest{Title: "Call", DueDate: f.now, Type: entity.TaskCall})
	require.NoError(t, err)

	toggled, err := f.core.ToggleTask(ctx, f.bd, task.ID)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)
	assert.Equal(t, entity.PriorityCompleted, toggled.Priority)
	assert.Equal(t, int64(2), toggled.Version)

	_, err = f.core.UpdateTask(ctx, f.bd, task.ID, &entity.TaskPatch{Version: 1, Title: strPtr("stale")})
	assert.ErrorIs(t, err, entity.ErrVersionConflict)

	updated, err := f.core.UpdateTask(ctx, f.bd, task.ID, &entity.TaskPatch{Version: 2, UserID: strPtr(f.bd2.ID), Title: strPtr("Call again")})
	require.NoError(t, err)
	assert.Equal(t, f.bd.ID, updated.UserID)
	assert.Equal(t, "Call again", updated.Title)

	assert.ErrorIs(t, f.core.DeleteTask(ctx, f.bd2, task.ID), entity.ErrForbidden)
	require.NoError(t, f.core.DeleteTask(ctx, f.bd, task.ID))
	assert.Equal(t, []string{entity.ActionCreate, entity.ActionUpdate, entity.ActionUpdate, entity.ActionDelete}, f.repo.actions(task.ID))
}

func TestSendEmailWithoutRecipientNeverCallsMailer(t *testing.T) {
	f := newFixture()
	_, err := f.core.SendEmail(context.Background(), f.bd, &entity.SendEmailRequest{
		From:        "asha@example.com",
		AppPassword: "secret",
		Subject:     "Hello",
	})
	assert.True(t, entity.IsValidationError(err))
	assert.Empty(t, f.mailer.sent)
	assert.Empty(t, f.repo.emails)
}

func TestSendEmailRecordsOutcome(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	req := &entity.SendEmailRequest{
		From:        "asha@example.com",
		AppPassword: "secret",
		To:          []string{"buyer@acme.com"},
		Subject:     "Hello",
		Attachments: []entity.Upload{{Filename: "deck.pdf", Data: []byte("deck")}},
	}

	email, err := f.core.SendEmail(ctx, f.bd, req)
	require.NoError(t, err)
	assert.Equal(t, entity.EmailSent, email.Status)
	require.Len(t, email.Attachments, 1)
	assert.NotEmpty(t, email.Attachments[0].URL)
	require.Len(t, f.mailer.sent, 1)

	f.mailer.err = errors.New("535 auth failed")
	failed, err := f.core.SendEmail(ctx, f.bd, req)
	require.Error(t, err)
	assert.Equal(t, entity.EmailFailed, failed.Status)

	sent, err := f.core.GetSentEmails(ctx, f.bd)
	require.NoError(t, err)
	assert.Len(t, sent, 2)
	for _, e := range sent {
		assert.NotContains(t, e.Body+e.Error, "secret")
	}
}

func TestSendInternalMessageRoles(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.core.SendInternalMessage(ctx, f.bd, &entity.MessageRequest{RecipientID: f.bd2.ID, Content: "hi"})
	assert.ErrorIs(t, err, entity.ErrForbidden)

	_, err = f.core.SendInternalMessage(ctx, f.bd, &entity.MessageRequest{RecipientID: "all", Content: "hi"})
	assert.ErrorIs(t, err, entity.ErrForbidden)

	msg, err := f.core.SendInternalMessage(ctx, f.bd, &entity.MessageRequest{RecipientID: f.manager.ID, Content: "need help"})
	require.NoError(t, err)
	assert.Equal(t, f.manager.ID, msg.RecipientID)

	broadcast, err := f.core.SendInternalMessage(ctx, f.manager, &entity.MessageRequest{RecipientID: "all", Content: "standup at 10"})
	require.NoError(t, err)
	assert.True(t, broadcast.IsBroadcast())
	assert.Len(t, f.notifier.messages, 2)

	_, err = f.core.SendInternalMessage(ctx, f.manager, &entity.MessageRequest{RecipientID: "ghost", Content: "hi"})
	assert.True(t, entity.IsValidationError(err))

	inbox, err := f.core.GetMessages(ctx, f.bd2)
	require.NoError(t, err)
	assert.Len(t, inbox, 1)

	assert.ErrorIs(t, f.core.MarkMessageRead(ctx, f.bd2, msg.ID), entity.ErrForbidden)
	require.NoError(t, f.core.MarkMessageRead(ctx, f.bd2, broadcast.ID))
	assert.Equal(t, []string{f.bd2.ID}, f.notifier.reads)
}

func TestProposalAdvancesLeadStage(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	wa := &fakeWhatsApp{}
	f.core.SetWhatsApp(wa)
	lead := f.lead(t, f.bd, "acme")

	proposal, err := f.core.CreateProposal(ctx, f.bd, &entity.ProposalRequest{
		LeadID:          lead.ID,
		TemplateID:      "standard",
		RateCardVersion: "2024-q2",
		SentVia:         entity.SentViaBoth,
		Body:            "Rates attached",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.ProposalDraft, proposal.Status)
	assert.Equal(t, "buyer@acme.com", proposal.RecipientEmail)

	stored, err := f.core.GetLead(ctx, f.bd, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StageProposalSent, stored.Stage)

	sent, err := f.core.SendProposal(ctx, f.bd, proposal.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ProposalSent, sent.Status)
	assert.Equal(t, f.now, *sent.SentAt)
	assert.Len(t, f.mailer.company, 1)
	assert.Equal(t, []string{"+91 98765 43210"}, wa.phones)

	_, err = f.core.CreateProposal(ctx, f.bd, &entity.ProposalRequest{
		LeadID: "missing", TemplateID: "t", RateCardVersion: "v", SentVia: entity.SentViaEmail,
	})
	assert.True(t, entity.IsValidationError(err))
}

func TestDraftProposalBodyWithoutDrafter(t *testing.T) {
	f := newFixture()
	lead := f.lead(t, f.bd, "acme")
	_, err := f.core.DraftProposalBody(context.Background(), f.bd, &entity.DraftRequest{LeadID: lead.ID})
	assert.ErrorIs(t, err, entity.ErrNotConfigured)
}

func TestAttendanceLoginLogout(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.now = time.Date(2024, 5, 6, 8, 30, 0, 0, time.UTC)

	record, err := f.core.MarkAttendance(ctx, f.bd, entity.AttendanceLogin)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPresent, record.Status)

	f.now = f.now.Add(9 * time.Hour)
	record, err = f.core.Logout(ctx, f.bd)
	require.NoError(t, err)
	assert.Equal(t, 9.0, record.TotalHours)

	_, err = f.core.MarkAttendance(ctx, f.bd, "lunch")
	assert.True(t, entity.IsValidationError(err))
}

func TestGetAttendanceFillsAbsentDays(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.now = time.Date(2024, 5, 8, 10, 0, 0, 0, time.UTC)
	_, err := f.core.MarkAttendance(ctx, f.bd, entity.AttendanceLogin)
	require.NoError(t, err)

	records, err := f.core.GetAttendance(ctx, f.bd, "", "2024-05-06", "2024-05-08")
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, entity.StatusAbsent, records[0].Status)
	assert.Equal(t, entity.StatusLate, records[2].Status)

	_, err = f.core.GetAttendance(ctx, f.bd, f.bd2.ID, "", "")
	assert.ErrorIs(t, err, entity.ErrForbidden)

	_, err = f.core.GetAttendance(ctx, f.bd, "", "2024-05-08", "2024-05-01")
	assert.True(t, entity.IsValidationError(err))
}

func TestClearAttendanceIsAdminOnly(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.core.MarkAttendance(ctx, f.bd, entity.AttendanceLogin)
	require.NoError(t, err)

	_, err = f.core.ClearAttendance(ctx, f.manager, "")
	assert.ErrorIs(t, err, entity.ErrForbidden)

	deleted, err := f.core.ClearAttendance(ctx, f.admin, f.bd.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestPurgeActivityLogs(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.core.CreateLead(ctx, f.manager, &entity.LeadRequest{CompanyName: "Old"})
	require.NoError(t, err)

	f.now = f.now.Add(48 * time.Hour)
	f.core.now = func() time.Time { return f.now }
	_, err = f.core.CreateLead(ctx, f.manager, &entity.LeadRequest{CompanyName: "New"})
	require.NoError(t, err)

	_, err = f.core.PurgeActivityLogs(ctx, f.manager, f.now.Add(-time.Hour))
	assert.ErrorIs(t, err, entity.ErrForbidden)

	_, err = f.core.PurgeActivityLogs(ctx, f.admin, f.now.Add(time.Hour))
	assert.True(t, entity.IsValidationError(err))

	deleted, err := f.core.PurgeActivityLogs(ctx, f.admin, f.now.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	logs, err := f.core.GetAllActivities(ctx, f.admin, entity.ActivityFilter{})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "New", logs[0].EntityName)
}

func TestGetCallsBatch(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := f.core.LogCall(ctx, f.bd, &entity.CallLogRequest{Phone: "+1 555 0100"})
		require.NoError(t, err)
	}

	from := f.now.Add(-time.Hour)
	to := f.now.Add(time.Hour)
	batch, err := f.core.GetCallsBatch(ctx, f.manager, []string{f.bd.ID, f.bd2.ID}, from, to)
	require.NoError(t, err)
	require.Len(t, batch, 2)
	assert.Equal(t, 3, batch[0].Count)
	assert.Equal(t, 0, batch[1].Count)
	assert.NotNil(t, batch[1].Calls)

	own, err := f.core.GetCallsBatch(ctx, f.bd2, []string{f.bd.ID}, from, to)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, f.bd2.ID, own[0].UserID)
}

func TestLoginMarksAttendance(t *testing.T) {
	f := newFixture()
	user := f.repo.users[f.bd.ID]
	f.core.SetAuthService(&fakeAuth{user: user, token: "tok"})

	resp, err := f.core.Login(context.Background(), user.Email, "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok", resp.Token)
	assert.Equal(t, f.now, f.repo.users[f.bd.ID].LastSeen)

	record, err := f.repo.GetAttendance(context.Background(), f.bd.ID, "2024-05-06")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Len(t, record.Sessions, 1)

	_, err = f.core.Login(context.Background(), "nobody@example.com", "pw")
	assert.ErrorIs(t, err, entity.ErrInvalidCredential)
}

func TestDashboardStats(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	for i, value := range []float64{100, 500000} {
		lead := f.lead(t, f.bd, []string{"acme", "globex"}[i])
		v := value
		_, err := f.core.UpdateLead(ctx, f.bd, lead.ID, &entity.LeadPatch{Version: 1, Value: &v})
		require.NoError(t, err)
	}
	leads, err := f.core.GetLeads(ctx, f.bd, entity.LeadFilter{Search: "acme"})
	require.NoError(t, err)
	_, err = f.core.ChangeStage(ctx, f.bd, leads[0].ID, &entity.StageRequest{Version: 2, Stage: "Won"})
	require.NoError(t, err)

	stats, err := f.core.DashboardStats(ctx, f.bd)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalLeads)
	assert.Equal(t, 50.0, stats.ConversionRate)
	assert.Equal(t, 100.0, stats.TotalRevenue)
	assert.Equal(t, 500000.0, stats.PipelineValue)
	assert.Equal(t, 1, stats.LeadsByStage[entity.StageWon])
}

func TestDownloadFile(t *testing.T) {
	f := newFixture()
	_, _, _, err := f.core.DownloadFile(context.Background(), "missing")
	assert.ErrorIs(t, err, entity.ErrNotFound)
}
