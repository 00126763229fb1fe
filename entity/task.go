package entity

import (
	"BizDevCRM/internal/lib/validate"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	TaskEmail   = "email"
	TaskCall    = "call"
	TaskMeeting = "meeting"
)

const (
	PriorityCompleted = "completed"
	PriorityOverdue   = "overdue"
	PriorityToday     = "today"
	PriorityTomorrow  = "tomorrow"
	PriorityUpcoming  = "upcoming"
)

type Task struct {
	ID          string     `json:"id" bson:"_id"`
	Title       string     `json:"title" bson:"title"`
	Description string     `json:"description" bson:"description"`
	DueDate     time.Time  `json:"due_date" bson:"due_date"`
	Type        string     `json:"type" bson:"type"`
	Completed   bool       `json:"completed" bson:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
	UserID      string     `json:"user_id" bson:"user_id"`
	LeadID      *string    `json:"lead_id" bson:"lead_id"`
	CreatedBy   string     `json:"created_by" bson:"created_by"`
	Version     int64      `json:"version" bson:"version"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" bson:"updated_at"`
	Priority    string     `json:"priority" bson:"-"`
}

// TaskPriority buckets a task against now. Buckets are calendar days in
// now's location; a completed task is always "completed".
func TaskPriority(dueDate time.Time, completed bool, now time.Time) string {
	if completed {
		return PriorityCompleted
	}
	if dueDate.IsZero() {
		return PriorityUpcoming
	}

	today := startOfDay(now)
	due := startOfDay(dueDate.In(now.Location()))
	switch {
	case due.Before(today):
		return PriorityOverdue
	case due.Equal(today):
		return PriorityToday
	case due.Equal(today.AddDate(0, 0, 1)):
		return PriorityTomorrow
	default:
		return PriorityUpcoming
	}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func (t *Task) SetPriority(now time.Time) {
	t.Priority = TaskPriority(t.DueDate, t.Completed, now)
}

func (t *Task) VisibleTo(user *UserAuth) bool {
	if user == nil {
		return false
	}
	return user.CanManage() || t.UserID == user.ID || t.CreatedBy == user.ID
}

type TaskRequest struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description" validate:"omitempty"`
	DueDate     time.Time `json:"due_date" validate:"required"`
	Type        string    `json:"type" validate:"required,oneof=email call meeting"`
	UserID      string    `json:"user_id" validate:"omitempty"`
	LeadID      *string   `json:"lead_id" validate:"omitempty"`
}

func (r *TaskRequest) Bind(_ *http.Request) error {
	return validate.Struct(r)
}

func NewTask(req *TaskRequest, creatorID string) *Task {
	now := time.Now()
	userID := req.UserID
	if userID == "" {
		userID = creatorID
	}
	return &Task{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		DueDate:     req.DueDate,
		Type:        req.Type,
		UserID:      userID,
		LeadID:      normalizeLeadID(req.LeadID),
		CreatedBy:   creatorID,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func normalizeLeadID(id *string) *string {
	if id == nil {
		return nil
	}
	v := strings.TrimSpace(*id)
	if v == "" {
		return nil
	}
	return &v
}

// TaskPatch is a partial update; an empty lead_id clears the association.
type TaskPatch struct {
	Version     int64      `json:"version" validate:"required,min=1"`
	Title       *string    `json:"title" validate:"omitempty,min=1"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Type        *string    `json:"type" validate:"omitempty,oneof=email call meeting"`
	UserID      *string    `json:"user_id"`
	LeadID      *string    `json:"lead_id"`
	Completed   *bool      `json:"completed"`
}

func (p *TaskPatch) Bind(_ *http.Request) error {
	return validate.Struct(p)
}

func (p *TaskPatch) Apply(task *Task, now time.Time) []FieldChange {
	var changes []FieldChange

	if p.Title != nil && strings.TrimSpace(*p.Title) != task.Title {
		v := strings.TrimSpace(*p.Title)
		changes = append(changes, FieldChange{Field: "title", OldValue: task.Title, NewValue: v})
		task.Title = v
	}
	if p.Description != nil && *p.Description != task.Description {
		changes = append(changes, FieldChange{Field: "description", OldValue: task.Description, NewValue: *p.Description})
		task.Description = *p.Description
	}
	if p.DueDate != nil && !p.DueDate.Equal(task.DueDate) {
		changes = append(changes, FieldChange{Field: "due_date", OldValue: task.DueDate, NewValue: *p.DueDate})
		task.DueDate = *p.DueDate
	}
	if p.Type != nil && *p.Type != task.Type {
		changes = append(changes, FieldChange{Field: "type", OldValue: task.Type, NewValue: *p.Type})
		task.Type = *p.Type
	}
	if p.UserID != nil && *p.UserID != "" && *p.UserID != task.UserID {
		changes = append(changes, FieldChange{Field: "user_id", OldValue: task.UserID, NewValue: *p.UserID})
		task.UserID = *p.UserID
	}
	if p.LeadID != nil {
		next := normalizeLeadID(p.LeadID)
		if derefString(next) != derefString(task.LeadID) {
			changes = append(changes, FieldChange{Field: "lead_id", OldValue: derefString(task.LeadID), NewValue: derefString(next)})
			task.LeadID = next
		}
	}
	if p.Completed != nil && *p.Completed != task.Completed {
		changes = append(changes, task.setCompleted(*p.Completed, now))
	}

	return changes
}

// Toggle flips the completed flag and returns the change.
func (t *Task) Toggle(now time.Time) FieldChange {
	return t.setCompleted(!t.Completed, now)
}

func (t *Task) setCompleted(completed bool, now time.Time) FieldChange {
	change := FieldChange{Field: "completed", OldValue: t.Completed, NewValue: completed}
	t.Completed = completed
	if completed {
		at := now
		t.CompletedAt = &at
	} else {
		t.CompletedAt = nil
	}
	return change
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

type TaskFilter struct {
	UserID string
	LeadID string
	Type   string
	Bucket string
	Search string
}

// Matches applies the in-memory part of a filter: bucket and free text.
func (f TaskFilter) Matches(t *Task) bool {
	if f.Bucket != "" && t.Priority != f.Bucket {
		return false
	}
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(t.Title), q) && !strings.Contains(strings.ToLower(t.Description), q) {
			return false
		}
	}
	return true
}

// TaskBuckets counts tasks per priority bucket.
func TaskBuckets(tasks []Task, now time.Time) map[string]int {
	buckets := map[string]int{
		PriorityCompleted: 0,
		PriorityOverdue:   0,
		PriorityToday:     0,
		PriorityTomorrow:  0,
		PriorityUpcoming:  0,
	}
	for _, t := range tasks {
		buckets[TaskPriority(t.DueDate, t.Completed, now)]++
	}
	return buckets
}
