package core

import (
	"BizDevCRM/entity"
	"BizDevCRM/internal/lib/sl"
	"context"
	"io"
	"log/slog"
	"time"
)

type Repository interface {
	GetUserByID(ctx context.Context, id string) (*entity.User, error)
	GetUsers(ctx context.Context) ([]entity.User, error)
	TouchUser(ctx context.Context, id string, seen time.Time) error

	InsertLead(ctx context.Context, lead *entity.Lead) error
	GetLead(ctx context.Context, id string) (*entity.Lead, error)
	FindLeads(ctx context.Context, filter entity.LeadFilter) ([]entity.Lead, error)
	UpdateLead(ctx context.Context, lead *entity.Lead, expectedVersion int64) error
	DeleteLead(ctx context.Context, id string) (bool, error)
	PushRemark(ctx context.Context, leadID string, remark *entity.Remark) ([]entity.Remark, error)
	PullRemark(ctx context.Context, leadID, remarkID string) ([]entity.Remark, error)
	PushContact(ctx context.Context, leadID string, contact *entity.PointOfContact) ([]entity.PointOfContact, error)
	PullContact(ctx context.Context, leadID, contactID string) ([]entity.PointOfContact, error)

	InsertTask(ctx context.Context, task *entity.Task) error
	GetTask(ctx context.Context, id string) (*entity.Task, error)
	FindTasks(ctx context.Context, filter entity.TaskFilter) ([]entity.Task, error)
	ReplaceTask(ctx context.Context, task *entity.Task, expectedVersion int64) error
	DeleteTask(ctx context.Context, id string) (bool, error)

	InsertProposal(ctx context.Context, proposal *entity.Proposal) error
	GetProposal(ctx context.Context, id string) (*entity.Proposal, error)
	FindProposals(ctx context.Context, leadID string) ([]entity.Proposal, error)
	UpdateProposal(ctx context.Context, proposal *entity.Proposal) error

	InsertActivityLog(ctx context.Context, log *entity.ActivityLog) error
	FindActivityLogs(ctx context.Context, filter entity.ActivityFilter) ([]entity.ActivityLog, error)
	PurgeActivityLogs(ctx context.Context, before time.Time) (int64, error)

	InsertCall(ctx context.Context, call *entity.CallActivity) error
	FindCalls(ctx context.Context, userIDs []string, from, to time.Time) ([]entity.CallActivity, error)

	GetAttendance(ctx context.Context, userID, date string) (*entity.AttendanceRecord, error)
	SaveAttendance(ctx context.Context, record *entity.AttendanceRecord) error
	FindAttendance(ctx context.Context, userID, fromDate, toDate string) ([]entity.AttendanceRecord, error)
	ClearAttendance(ctx context.Context, userID string) (int64, error)

	InsertEmail(ctx context.Context, email *entity.Email) error
	FindEmails(ctx context.Context, userID string) ([]entity.Email, error)
	DeleteEmail(ctx context.Context, id, userID string) (bool, error)

	InsertMessage(ctx context.Context, message *entity.InternalMessage) error
	GetMessage(ctx context.Context, id string) (*entity.InternalMessage, error)
	FindMessages(ctx context.Context, userID string) ([]entity.InternalMessage, error)
	MarkMessageRead(ctx context.Context, id, userID string) (bool, error)
}

type FileStore interface {
	UploadFile(ctx context.Context, filename string, reader io.Reader, meta entity.FileMetadata) (string, int64, error)
	DownloadFile(ctx context.Context, id string) (string, entity.FileMetadata, io.ReadCloser, error)
	DeleteFile(ctx context.Context, id string) error
}

type AuthService interface {
	RegisterUser(ctx context.Context, req *entity.CreateUserRequest) (*entity.User, error)
	Login(ctx context.Context, email, password string) (*entity.User, string, error)
	AuthenticateByToken(token string) (*entity.UserAuth, error)
}

type Mailer interface {
	Send(ctx context.Context, username, password string, mail *entity.OutgoingMail) error
	SendAsCompany(ctx context.Context, mail *entity.OutgoingMail) error
	FetchInbox(ctx context.Context, limit uint32) ([]entity.InboxMessage, error)
}

type WhatsApp interface {
	SendText(ctx context.Context, phone, text string) error
}

type Drafter interface {
	Draft(ctx context.Context, lead *entity.Lead, req *entity.DraftRequest) (string, error)
}

type EventPublisher interface {
	PublishActivity(ctx context.Context, log *entity.ActivityLog) error
}

// Notifier pushes live updates to connected clients.
type Notifier interface {
	PushMessage(msg *entity.InternalMessage)
	PushRead(msg *entity.InternalMessage, readerID string)
	PushActivity(log *entity.ActivityLog)
}

type FileSigner interface {
	Sign(fileID string) string
}

type Core struct {
	repo        Repository
	files       FileStore
	authService AuthService
	mailer      Mailer
	whatsapp    WhatsApp
	drafter     Drafter
	events      EventPublisher
	notifier    Notifier
	signer      FileSigner
	maxFileSize int64
	now         func() time.Time
	log         *slog.Logger
}

func New(log *slog.Logger) *Core {
	return &Core{
		maxFileSize: entity.DefaultMaxFileSize,
		now:         time.Now,
		log:         log.With(sl.Module("core")),
	}
}

func (c *Core) SetRepository(repo Repository) {
	c.repo = repo
}

func (c *Core) SetFileStore(files FileStore) {
	c.files = files
}

func (c *Core) SetAuthService(auth AuthService) {
	c.authService = auth
}

func (c *Core) SetMailer(mailer Mailer) {
	c.mailer = mailer
}

func (c *Core) SetWhatsApp(whatsapp WhatsApp) {
	c.whatsapp = whatsapp
}

func (c *Core) SetDrafter(drafter Drafter) {
	c.drafter = drafter
}

func (c *Core) SetEventPublisher(events EventPublisher) {
	c.events = events
}

func (c *Core) SetNotifier(notifier Notifier) {
	c.notifier = notifier
}

func (c *Core) SetFileSigner(signer FileSigner) {
	c.signer = signer
}

func (c *Core) SetMaxFileSize(size int64) {
	if size > 0 {
		c.maxFileSize = size
	}
}

func (c *Core) MaxFileSize() int64 {
	return c.maxFileSize
}
