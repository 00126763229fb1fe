package report

import (
	"BizDevCRM/entity"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeadsSheet(t *testing.T) {
	f, err := Leads([]entity.Lead{
		{CompanyName: "Acme", Stage: entity.StageWon, Value: 500000},
	})
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue("Leads", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Company", v)

	v, err = f.GetCellValue("Leads", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Acme", v)

	v, err = f.GetCellValue("Leads", "F2")
	require.NoError(t, err)
	assert.Equal(t, "Won", v)
}

func TestAttendanceSheetSummary(t *testing.T) {
	login := time.Date(2024, 5, 6, 8, 30, 0, 0, time.UTC)
	logout := login.Add(8 * time.Hour)
	record := entity.AttendanceRecord{
		Date:     "2024-05-06",
		UserName: "Asha",
		Sessions: []entity.Session{{LoginTime: login, LogoutTime: &logout}},
	}
	record.Refresh()

	f, err := Attendance([]entity.AttendanceRecord{record})
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue("Attendance", "C2")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPresent, v)

	v, err = f.GetCellValue("Summary", "B7")
	require.NoError(t, err)
	assert.Equal(t, "100", v)
}

func TestFormatChanges(t *testing.T) {
	out := formatChanges([]entity.FieldChange{{Field: "stage", OldValue: "New", NewValue: "Won"}})
	assert.Equal(t, "Stage: New -> Won", out)
}
