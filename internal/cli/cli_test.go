package cli

import (
	"BizDevCRM/entity"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type fakeBackend struct {
	created  *entity.CreateUserRequest
	cleared  *string
	purged   time.Time
	activity entity.ActivityFilter
	actor    *entity.UserAuth
	released bool
}

func (f *fakeBackend) CreateUser(_ context.Context, actor *entity.UserAuth, req *entity.CreateUserRequest) (*entity.User, error) {
	f.actor = actor
	f.created = req
	return &entity.User{ID: "u1", Name: req.Name, Email: req.Email, Role: req.Role}, nil
}

func (f *fakeBackend) ClearAttendance(_ context.Context, actor *entity.UserAuth, userID string) (int64, error) {
	f.actor = actor
	f.cleared = &userID
	return 4, nil
}

func (f *fakeBackend) PurgeActivityLogs(_ context.Context, actor *entity.UserAuth, before time.Time) (int64, error) {
	f.actor = actor
	f.purged = before
	return 12, nil
}

func (f *fakeBackend) GetLeads(context.Context, *entity.UserAuth, entity.LeadFilter) ([]entity.Lead, error) {
	return []entity.Lead{{ID: "l1", CompanyName: "Acme", Stage: entity.StageNew}}, nil
}

func (f *fakeBackend) GetAllActivities(_ context.Context, _ *entity.UserAuth, filter entity.ActivityFilter) ([]entity.ActivityLog, error) {
	f.activity = filter
	return nil, nil
}

func (f *fakeBackend) GetAttendance(context.Context, *entity.UserAuth, string, string, string) ([]entity.AttendanceRecord, error) {
	return nil, nil
}

func execute(t *testing.T, backend *fakeBackend, args ...string) (map[string]any, error) {
	t.Helper()
	app := &App{open: func(*App) (Backend, func(), error) {
		return backend, func() { backend.released = true }, nil
	}}
	cmd := newRootCmd(app)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		return nil, err
	}
	var body map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &body))
	return body["data"].(map[string]any), nil
}

func TestUserCreate(t *testing.T) {
	b := &fakeBackend{}
	data, err := execute(t, b, "user", "create", "--name", "Admin", "--email", "admin@example.com", "--password", "secret123", "--role", "admin")
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", data["email"])
	assert.Equal(t, entity.AdminRole, b.created.Role)
	assert.True(t, b.actor.IsAdmin())
	assert.True(t, b.released)
}

func TestUserCreateRequiresFlags(t *testing.T) {
	b := &fakeBackend{}
	_, err := execute(t, b, "user", "create", "--name", "Admin")
	assert.Error(t, err)
	assert.Nil(t, b.created)
}

func TestAttendanceClear(t *testing.T) {
	b := &fakeBackend{}
	_, err := execute(t, b, "attendance", "clear")
	assert.Error(t, err)
	assert.Nil(t, b.cleared)

	data, err := execute(t, b, "attendance", "clear", "--all")
	require.NoError(t, err)
	assert.Equal(t, float64(4), data["deleted"])
	require.NotNil(t, b.cleared)
	assert.Equal(t, "", *b.cleared)

	_, err = execute(t, b, "attendance", "clear", "--user", "u7")
	require.NoError(t, err)
	assert.Equal(t, "u7", *b.cleared)
}

func TestActivityPurge(t *testing.T) {
	b := &fakeBackend{}
	data, err := execute(t, b, "activity", "purge", "--before", "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, float64(12), data["deleted"])
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), b.purged)

	_, err = execute(t, b, "activity", "purge", "--before", "yesterday")
	assert.Error(t, err)
}

func TestExportLeads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.xlsx")
	data, err := execute(t, &fakeBackend{}, "export", "leads", "--out", path)
	require.NoError(t, err)
	assert.Equal(t, float64(1), data["rows"])

	_, err = os.Stat(path)
	require.NoError(t, err)
	book, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer book.Close()
	rows, err := book.GetRows(book.GetSheetName(0))
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestExportActivitiesDateRange(t *testing.T) {
	b := &fakeBackend{}
	path := filepath.Join(t.TempDir(), "activities.xlsx")
	_, err := execute(t, b, "export", "activities", "--out", path, "--from", "2024-05-01", "--to", "2024-05-31")
	require.NoError(t, err)
	require.NotNil(t, b.activity.From)
	require.NotNil(t, b.activity.To)
	assert.Equal(t, time.Date(2024, 5, 31, 23, 59, 59, 999999999, time.UTC), *b.activity.To)
}

func TestExportUnknownReport(t *testing.T) {
	_, err := execute(t, &fakeBackend{}, "export", "invoices")
	assert.Error(t, err)
}
