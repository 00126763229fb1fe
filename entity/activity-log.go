package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	EntityLead = "Lead"
	EntityTask = "Task"
)

const (
	ActionCreate        = "create"
	ActionUpdate        = "update"
	ActionDelete        = "delete"
	ActionRemarkAdded   = "remark_added"
	ActionRemarkDeleted = "remark_deleted"
	ActionStageChanged  = "stage_changed"
)

// maxDescribedFields caps how many changed fields a description lists.
const maxDescribedFields = 5

// FieldChange is one structured before/after pair captured at write time.
type FieldChange struct {
	Field    string      `json:"field" bson:"field"`
	OldValue interface{} `json:"old_value" bson:"old_value"`
	NewValue interface{} `json:"new_value" bson:"new_value"`
}

// ActivityLog is append-only; nothing in the API updates or deletes it.
type ActivityLog struct {
	ID          string        `json:"id" bson:"_id"`
	EntityID    string        `json:"entityId" bson:"entity_id"`
	EntityName  string        `json:"entityName" bson:"entity_name"`
	Entity      string        `json:"entity" bson:"entity"`
	Action      string        `json:"action" bson:"action"`
	Changes     []FieldChange `json:"changes,omitempty" bson:"changes,omitempty"`
	Remark      *Remark       `json:"remark,omitempty" bson:"remark,omitempty"`
	UserID      string        `json:"userId" bson:"user_id"`
	UserName    string        `json:"userName" bson:"user_name"`
	Timestamp   time.Time     `json:"timestamp" bson:"timestamp"`
	Description string        `json:"description" bson:"-"`
}

func NewActivityLog(entity, action, entityID, entityName string, actor *UserAuth) *ActivityLog {
	log := &ActivityLog{
		ID:         uuid.NewString(),
		EntityID:   entityID,
		EntityName: entityName,
		Entity:     entity,
		Action:     action,
		Timestamp:  time.Now(),
	}
	if actor != nil {
		log.UserID = actor.ID
		log.UserName = actor.Name
	}
	return log
}

func (a *ActivityLog) WithChanges(changes []FieldChange) *ActivityLog {
	a.Changes = changes
	return a
}

func (a *ActivityLog) WithRemark(remark *Remark) *ActivityLog {
	a.Remark = remark
	return a
}

// FormatUpdatedFields lists readable names of the changed fields, at most
// five followed by "...". With no field changes but a remark it reads
// "new remark added".
func FormatUpdatedFields(changes []FieldChange, remark *Remark) string {
	if len(changes) == 0 {
		if remark != nil {
			return "new remark added"
		}
		return ""
	}

	names := make([]string, 0, maxDescribedFields+1)
	for i, c := range changes {
		if i == maxDescribedFields {
			names = append(names, "...")
			break
		}
		names = append(names, FieldLabel(c.Field))
	}
	return strings.Join(names, ", ")
}

// Describe renders the feed line for this entry.
func (a *ActivityLog) Describe() string {
	subject := strings.TrimSpace(fmt.Sprintf("%s %s", a.Entity, a.EntityName))
	switch a.Action {
	case ActionCreate:
		return fmt.Sprintf("created %s", subject)
	case ActionDelete:
		return fmt.Sprintf("deleted %s", subject)
	case ActionRemarkAdded:
		return fmt.Sprintf("%s on %s", FormatUpdatedFields(nil, a.Remark), subject)
	case ActionRemarkDeleted:
		return fmt.Sprintf("remark deleted on %s", subject)
	case ActionStageChanged:
		for _, c := range a.Changes {
			if c.Field == "stage" {
				return fmt.Sprintf("moved %s from %v to %v", subject, c.OldValue, c.NewValue)
			}
		}
		return fmt.Sprintf("changed stage of %s", subject)
	default:
		fields := FormatUpdatedFields(a.Changes, a.Remark)
		if fields == "" {
			return fmt.Sprintf("updated %s", subject)
		}
		return fmt.Sprintf("updated %s: %s", subject, fields)
	}
}

var fieldLabels = map[string]string{
	"company_name":  "Company Name",
	"contact_name":  "Contact Name",
	"contact_email": "Contact Email",
	"contact_phone": "Contact Phone",
	"industry_name": "Industry",
	"stage":         "Stage",
	"value":         "Value",
	"source":        "Source",
	"assigned_to":   "Assigned To",
	"due_date":      "Due Date",
	"user_id":       "Assignee",
	"lead_id":       "Lead",
}

// FieldLabel maps a stored field name to its display name.
func FieldLabel(field string) string {
	if label, ok := fieldLabels[field]; ok {
		return label
	}
	words := strings.FieldsFunc(field, func(r rune) bool { return r == '_' || r == '.' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

type ActivityFilter struct {
	From     *time.Time
	To       *time.Time
	Entity   string
	EntityID string
	UserID   string
	Limit    int64
}
