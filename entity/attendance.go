package entity

import (
	"BizDevCRM/internal/lib/validate"
	"math"
	"net/http"
	"sort"
	"time"

	"github.com/google/uuid"
)

const (
	StatusPresent = "Present"
	StatusLate    = "Late"
	StatusHalfDay = "Half Day"
	StatusAbsent  = "Absent"
)

const (
	AttendanceLogin  = "login"
	AttendanceLogout = "logout"
)

// Fixed thresholds, local clock of the login time.
const (
	workdayStart  = 9 * time.Hour
	halfDayCutoff = 13 * time.Hour
)

const DateLayout = "2006-01-02"

type Session struct {
	LoginTime  time.Time  `json:"loginTime" bson:"login_time"`
	LogoutTime *time.Time `json:"logoutTime" bson:"logout_time"`
}

type AttendanceRecord struct {
	ID         string    `json:"id" bson:"_id"`
	UserID     string    `json:"userId" bson:"user_id"`
	UserName   string    `json:"userName" bson:"user_name"`
	Date       string    `json:"date" bson:"date"`
	Sessions   []Session `json:"sessions" bson:"sessions"`
	TotalHours float64   `json:"totalHours" bson:"total_hours"`
	Status     string    `json:"status" bson:"status"`
}

func NewAttendanceRecord(user *UserAuth, day time.Time) *AttendanceRecord {
	return &AttendanceRecord{
		ID:       uuid.NewString(),
		UserID:   user.ID,
		UserName: user.Name,
		Date:     day.Format(DateLayout),
		Sessions: []Session{},
		Status:   StatusAbsent,
	}
}

// DetermineStatus derives the day label from the first login.
func DetermineStatus(loginTime, logoutTime *time.Time) string {
	if loginTime == nil {
		return StatusAbsent
	}
	clock := loginTime.Sub(startOfDay(*loginTime))
	switch {
	case clock < workdayStart:
		return StatusPresent
	case clock <= halfDayCutoff:
		return StatusLate
	default:
		return StatusHalfDay
	}
}

func (a *AttendanceRecord) FirstLogin() *time.Time {
	if len(a.Sessions) == 0 {
		return nil
	}
	first := a.Sessions[0].LoginTime
	for _, s := range a.Sessions[1:] {
		if s.LoginTime.Before(first) {
			first = s.LoginTime
		}
	}
	return &first
}

func (a *AttendanceRecord) LastLogout() *time.Time {
	var last *time.Time
	for _, s := range a.Sessions {
		if s.LogoutTime != nil && (last == nil || s.LogoutTime.After(*last)) {
			t := *s.LogoutTime
			last = &t
		}
	}
	return last
}

func (a *AttendanceRecord) openSession() int {
	for i := len(a.Sessions) - 1; i >= 0; i-- {
		if a.Sessions[i].LogoutTime == nil {
			return i
		}
	}
	return -1
}

// Login opens a session unless one is already open.
func (a *AttendanceRecord) Login(now time.Time) bool {
	if a.openSession() >= 0 {
		return false
	}
	a.Sessions = append(a.Sessions, Session{LoginTime: now})
	a.Refresh()
	return true
}

// Logout closes the open session, if any.
func (a *AttendanceRecord) Logout(now time.Time) bool {
	i := a.openSession()
	if i < 0 {
		return false
	}
	t := now
	a.Sessions[i].LogoutTime = &t
	a.Refresh()
	return true
}

// Refresh recomputes derived fields. Open sessions do not count towards hours.
func (a *AttendanceRecord) Refresh() {
	var total time.Duration
	for _, s := range a.Sessions {
		if s.LogoutTime != nil && s.LogoutTime.After(s.LoginTime) {
			total += s.LogoutTime.Sub(s.LoginTime)
		}
	}
	a.TotalHours = round2(total.Hours())
	a.Status = DetermineStatus(a.FirstLogin(), a.LastLogout())
}

type AttendanceSummary struct {
	TotalDays            int     `json:"totalDays"`
	Present              int     `json:"present"`
	Late                 int     `json:"late"`
	HalfDay              int     `json:"halfDay"`
	Absent               int     `json:"absent"`
	TotalHours           float64 `json:"totalHours"`
	AverageHours         float64 `json:"averageHours"`
	AttendancePercentage float64 `json:"attendancePercentage"`
}

// SummarizeAttendance aggregates records; any day with a login counts as attended.
func SummarizeAttendance(records []AttendanceRecord) AttendanceSummary {
	var s AttendanceSummary
	for i := range records {
		r := records[i]
		r.Refresh()
		s.TotalDays++
		s.TotalHours += r.TotalHours
		switch r.Status {
		case StatusPresent:
			s.Present++
		case StatusLate:
			s.Late++
		case StatusHalfDay:
			s.HalfDay++
		default:
			s.Absent++
		}
	}
	if s.TotalDays == 0 {
		return s
	}
	attended := s.Present + s.Late + s.HalfDay
	s.TotalHours = round2(s.TotalHours)
	if attended > 0 {
		s.AverageHours = round2(s.TotalHours / float64(attended))
	}
	s.AttendancePercentage = round2(float64(attended) / float64(s.TotalDays) * 100)
	return s
}

// FillAbsentDays adds Absent placeholders for working days in [from, to]
// that have no record. Weekends are skipped.
func FillAbsentDays(records []AttendanceRecord, userID, userName string, from, to time.Time) []AttendanceRecord {
	seen := make(map[string]bool, len(records))
	for _, r := range records {
		seen[r.Date] = true
	}
	out := append([]AttendanceRecord{}, records...)
	for d := startOfDay(from); !d.After(to); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		key := d.Format(DateLayout)
		if seen[key] {
			continue
		}
		out = append(out, AttendanceRecord{
			UserID:   userID,
			UserName: userName,
			Date:     key,
			Sessions: []Session{},
			Status:   StatusAbsent,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

type MarkAttendanceRequest struct {
	Type string `json:"type" validate:"required,oneof=login logout"`
}

func (m *MarkAttendanceRequest) Bind(_ *http.Request) error {
	return validate.Struct(m)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
