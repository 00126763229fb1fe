package core

import (
	"BizDevCRM/entity"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"
)

// memRepo is an in-memory Repository.
type memRepo struct {
	mu          sync.Mutex
	users       map[string]*entity.User
	leads       map[string]*entity.Lead
	tasks       map[string]*entity.Task
	proposals   map[string]*entity.Proposal
	activities  []entity.ActivityLog
	calls       []entity.CallActivity
	attendance  map[string]*entity.AttendanceRecord
	emails      map[string]*entity.Email
	messages    map[string]*entity.InternalMessage
	activityErr error
}

func newMemRepo() *memRepo {
	return &memRepo{
		users:      map[string]*entity.User{},
		leads:      map[string]*entity.Lead{},
		tasks:      map[string]*entity.Task{},
		proposals:  map[string]*entity.Proposal{},
		attendance: map[string]*entity.AttendanceRecord{},
		emails:     map[string]*entity.Email{},
		messages:   map[string]*entity.InternalMessage{},
	}
}

func clone[T any](v *T) *T {
	c := *v
	return &c
}

func (m *memRepo) GetUserByID(_ context.Context, id string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		return clone(u), nil
	}
	return nil, nil
}

func (m *memRepo) GetUsers(_ context.Context) ([]entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.User
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *memRepo) TouchUser(_ context.Context, id string, seen time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		u.LastSeen = seen
	}
	return nil
}

func (m *memRepo) InsertLead(_ context.Context, lead *entity.Lead) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leads[lead.ID] = cloneLead(lead)
	return nil
}

func cloneLead(l *entity.Lead) *entity.Lead {
	c := *l
	c.Remarks = append([]entity.Remark{}, l.Remarks...)
	c.PointsOfContact = append([]entity.PointOfContact{}, l.PointsOfContact...)
	return &c
}

func (m *memRepo) GetLead(_ context.Context, id string) (*entity.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := m.leads[id]; ok {
		return cloneLead(l), nil
	}
	return nil, nil
}

func (m *memRepo) FindLeads(_ context.Context, filter entity.LeadFilter) ([]entity.Lead, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.Lead
	for _, l := range m.leads {
		if filter.Stage != "" && string(l.Stage) != filter.Stage {
			continue
		}
		if filter.VisibleTo != "" && l.AssignedTo != filter.VisibleTo && l.AssignedBy != filter.VisibleTo {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(l.CompanyName), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, *cloneLead(l))
	}
	return out, nil
}

func (m *memRepo) UpdateLead(_ context.Context, lead *entity.Lead, expectedVersion int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.leads[lead.ID]
	if !ok || stored.Version != expectedVersion {
		return entity.ErrVersionConflict
	}
	next := cloneLead(lead)
	next.Remarks = stored.Remarks
	next.PointsOfContact = stored.PointsOfContact
	m.leads[lead.ID] = next
	return nil
}

func (m *memRepo) DeleteLead(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.leads[id]
	delete(m.leads, id)
	return ok, nil
}

func (m *memRepo) PushRemark(_ context.Context, leadID string, remark *entity.Remark) ([]entity.Remark, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.leads[leadID]
	if !ok {
		return nil, nil
	}
	l.Remarks = append(l.Remarks, *remark)
	return append([]entity.Remark{}, l.Remarks...), nil
}

func (m *memRepo) PullRemark(_ context.Context, leadID, remarkID string) ([]entity.Remark, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.leads[leadID]
	if !ok {
		return nil, nil
	}
	out := []entity.Remark{}
	found := false
	for _, r := range l.Remarks {
		if r.ID == remarkID {
			found = true
			continue
		}
		out = append(out, r)
	}
	if !found {
		return nil, nil
	}
	l.Remarks = out
	return append([]entity.Remark{}, out...), nil
}

func (m *memRepo) PushContact(_ context.Context, leadID string, contact *entity.PointOfContact) ([]entity.PointOfContact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.leads[leadID]
	if !ok {
		return nil, nil
	}
	l.PointsOfContact = append(l.PointsOfContact, *contact)
	return append([]entity.PointOfContact{}, l.PointsOfContact...), nil
}

func (m *memRepo) PullContact(_ context.Context, leadID, contactID string) ([]entity.PointOfContact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.leads[leadID]
	if !ok {
		return nil, nil
	}
	out := []entity.PointOfContact{}
	for _, p := range l.PointsOfContact {
		if p.ID != contactID {
			out = append(out, p)
		}
	}
	l.PointsOfContact = out
	return append([]entity.PointOfContact{}, out...), nil
}

func (m *memRepo) InsertTask(_ context.Context, task *entity.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks[task.ID] = clone(task)
	return nil
}

func (m *memRepo) GetTask(_ context.Context, id string) (*entity.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tasks[id]; ok {
		return clone(t), nil
	}
	return nil, nil
}

func (m *memRepo) FindTasks(_ context.Context, filter entity.TaskFilter) ([]entity.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.Task
	for _, t := range m.tasks {
		if filter.UserID != "" && t.UserID != filter.UserID {
			continue
		}
		if filter.LeadID != "" && (t.LeadID == nil || *t.LeadID != filter.LeadID) {
			continue
		}
		if filter.Type != "" && t.Type != filter.Type {
			continue
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

func (m *memRepo) ReplaceTask(_ context.Context, task *entity.Task, expectedVersion int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.tasks[task.ID]
	if !ok || stored.Version != expectedVersion {
		return entity.ErrVersionConflict
	}
	m.tasks[task.ID] = clone(task)
	return nil
}

func (m *memRepo) DeleteTask(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.tasks[id]
	delete(m.tasks, id)
	return ok, nil
}

func (m *memRepo) InsertProposal(_ context.Context, p *entity.Proposal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.proposals[p.ID] = clone(p)
	return nil
}

func (m *memRepo) GetProposal(_ context.Context, id string) (*entity.Proposal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.proposals[id]; ok {
		return clone(p), nil
	}
	return nil, nil
}

func (m *memRepo) FindProposals(_ context.Context, leadID string) ([]entity.Proposal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.Proposal
	for _, p := range m.proposals {
		if leadID == "" || p.LeadID == leadID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memRepo) UpdateProposal(_ context.Context, p *entity.Proposal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.proposals[p.ID] = clone(p)
	return nil
}

func (m *memRepo) InsertActivityLog(_ context.Context, log *entity.ActivityLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.activityErr != nil {
		return m.activityErr
	}
	m.activities = append(m.activities, *log)
	return nil
}

func (m *memRepo) FindActivityLogs(_ context.Context, filter entity.ActivityFilter) ([]entity.ActivityLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.ActivityLog
	for i := len(m.activities) - 1; i >= 0; i-- {
		a := m.activities[i]
		if filter.EntityID != "" && a.EntityID != filter.EntityID {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

func (m *memRepo) PurgeActivityLogs(_ context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.activities[:0]
	for _, a := range m.activities {
		if !a.Timestamp.Before(before) {
			kept = append(kept, a)
		}
	}
	deleted := int64(len(m.activities) - len(kept))
	m.activities = kept
	return deleted, nil
}

func (m *memRepo) actions(entityID string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, a := range m.activities {
		if a.EntityID == entityID {
			out = append(out, a.Action)
		}
	}
	return out
}

func (m *memRepo) InsertCall(_ context.Context, call *entity.CallActivity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, *call)
	return nil
}

func (m *memRepo) FindCalls(_ context.Context, userIDs []string, from, to time.Time) ([]entity.CallActivity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	allowed := map[string]bool{}
	for _, id := range userIDs {
		allowed[id] = true
	}
	var out []entity.CallActivity
	for _, c := range m.calls {
		if len(userIDs) > 0 && !allowed[c.UserID] {
			continue
		}
		if c.Timestamp.Before(from) || !c.Timestamp.Before(to) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func attendanceKey(userID, date string) string {
	return userID + "|" + date
}

func (m *memRepo) GetAttendance(_ context.Context, userID, date string) (*entity.AttendanceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.attendance[attendanceKey(userID, date)]; ok {
		c := *r
		c.Sessions = append([]entity.Session{}, r.Sessions...)
		return &c, nil
	}
	return nil, nil
}

func (m *memRepo) SaveAttendance(_ context.Context, record *entity.AttendanceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *record
	c.Sessions = append([]entity.Session{}, record.Sessions...)
	m.attendance[attendanceKey(record.UserID, record.Date)] = &c
	return nil
}

func (m *memRepo) FindAttendance(_ context.Context, userID, fromDate, toDate string) ([]entity.AttendanceRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.AttendanceRecord
	for _, r := range m.attendance {
		if userID != "" && r.UserID != userID {
			continue
		}
		if (fromDate != "" && r.Date < fromDate) || (toDate != "" && r.Date > toDate) {
			continue
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (m *memRepo) ClearAttendance(_ context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for k, r := range m.attendance {
		if userID == "" || r.UserID == userID {
			delete(m.attendance, k)
			n++
		}
	}
	return n, nil
}

func (m *memRepo) InsertEmail(_ context.Context, email *entity.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emails[email.ID] = clone(email)
	return nil
}

func (m *memRepo) FindEmails(_ context.Context, userID string) ([]entity.Email, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.Email
	for _, e := range m.emails {
		if e.UserID == userID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (m *memRepo) DeleteEmail(_ context.Context, id, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.emails[id]
	if !ok || e.UserID != userID {
		return false, nil
	}
	delete(m.emails, id)
	return true, nil
}

func (m *memRepo) InsertMessage(_ context.Context, msg *entity.InternalMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages[msg.ID] = clone(msg)
	return nil
}

func (m *memRepo) GetMessage(_ context.Context, id string) (*entity.InternalMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if msg, ok := m.messages[id]; ok {
		return clone(msg), nil
	}
	return nil, nil
}

func (m *memRepo) FindMessages(_ context.Context, userID string) ([]entity.InternalMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []entity.InternalMessage
	for _, msg := range m.messages {
		if msg.SenderID == userID || msg.AddressedTo(userID) {
			out = append(out, *msg)
		}
	}
	return out, nil
}

func (m *memRepo) MarkMessageRead(_ context.Context, id, userID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg, ok := m.messages[id]
	if !ok {
		return false, nil
	}
	msg.ReadBy = append(msg.ReadBy, userID)
	return true, nil
}

// memFiles is an in-memory FileStore.
type memFiles struct {
	files   map[string][]byte
	deleted []string
	next    int
}

func newMemFiles() *memFiles {
	return &memFiles{files: map[string][]byte{}}
}

func (f *memFiles) UploadFile(_ context.Context, filename string, reader io.Reader, _ entity.FileMetadata) (string, int64, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", 0, err
	}
	f.next++
	id := fmt.Sprintf("%s-%d", filename, f.next)
	f.files[id] = data
	return id, int64(len(data)), nil
}

func (f *memFiles) DownloadFile(_ context.Context, id string) (string, entity.FileMetadata, io.ReadCloser, error) {
	data, ok := f.files[id]
	if !ok {
		return "", entity.FileMetadata{}, nil, nil
	}
	return id, entity.FileMetadata{MIMEType: "text/plain"}, io.NopCloser(bytes.NewReader(data)), nil
}

func (f *memFiles) DeleteFile(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	delete(f.files, id)
	return nil
}

type fakeMailer struct {
	sent    []*entity.OutgoingMail
	company []*entity.OutgoingMail
	err     error
}

func (f *fakeMailer) Send(_ context.Context, _, _ string, mail *entity.OutgoingMail) error {
	f.sent = append(f.sent, mail)
	return f.err
}

func (f *fakeMailer) SendAsCompany(_ context.Context, mail *entity.OutgoingMail) error {
	f.company = append(f.company, mail)
	return f.err
}

func (f *fakeMailer) FetchInbox(_ context.Context, _ uint32) ([]entity.InboxMessage, error) {
	return []entity.InboxMessage{{UID: 1, Subject: "hi"}}, nil
}

type fakeWhatsApp struct {
	phones []string
}

func (f *fakeWhatsApp) SendText(_ context.Context, phone, _ string) error {
	f.phones = append(f.phones, phone)
	return nil
}

type fakeNotifier struct {
	messages   []*entity.InternalMessage
	reads      []string
	activities []*entity.ActivityLog
}

func (f *fakeNotifier) PushMessage(msg *entity.InternalMessage) { f.messages = append(f.messages, msg) }
func (f *fakeNotifier) PushRead(_ *entity.InternalMessage, readerID string) {
	f.reads = append(f.reads, readerID)
}
func (f *fakeNotifier) PushActivity(log *entity.ActivityLog) {
	f.activities = append(f.activities, log)
}

type fakeSigner struct{}

func (fakeSigner) Sign(id string) string {
	if id == "" {
		return ""
	}
	return "/api/files/" + id + "?sig=x"
}

type fakeAuth struct {
	user  *entity.User
	token string
}

func (f *fakeAuth) RegisterUser(_ context.Context, req *entity.CreateUserRequest) (*entity.User, error) {
	return entity.NewUser(req.Name, req.Email, req.Role), nil
}

func (f *fakeAuth) Login(_ context.Context, email, _ string) (*entity.User, string, error) {
	if f.user == nil || f.user.Email != email {
		return nil, "", entity.ErrInvalidCredential
	}
	return f.user, f.token, nil
}

func (f *fakeAuth) AuthenticateByToken(token string) (*entity.UserAuth, error) {
	if token != f.token {
		return nil, errors.New("bad token")
	}
	return f.user.Auth(), nil
}

type fixture struct {
	core     *Core
	repo     *memRepo
	files    *memFiles
	mailer   *fakeMailer
	notifier *fakeNotifier
	admin    *entity.UserAuth
	manager  *entity.UserAuth
	bd       *entity.UserAuth
	bd2      *entity.UserAuth
	now      time.Time
}

func newFixture() *fixture {
	f := &fixture{
		repo:     newMemRepo(),
		files:    newMemFiles(),
		mailer:   &fakeMailer{},
		notifier: &fakeNotifier{},
		now:      time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC),
	}
	f.core = New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	f.core.SetRepository(f.repo)
	f.core.SetFileStore(f.files)
	f.core.SetMailer(f.mailer)
	f.core.SetNotifier(f.notifier)
	f.core.SetFileSigner(fakeSigner{})
	f.core.now = func() time.Time { return f.now }

	add := func(name, role string) *entity.UserAuth {
		u := entity.NewUser(name, strings.ToLower(name)+"@example.com", role)
		f.repo.users[u.ID] = u
		return u.Auth()
	}
	f.admin = add("Admin", entity.AdminRole)
	f.manager = add("Manager", entity.ManagerRole)
	f.bd = add("Asha", entity.BDExecutiveRole)
	f.bd2 = add("Ravi", entity.BDExecutiveRole)
	return f
}
