// Package report renders CRM data as xlsx workbooks.
package report

import (
	"BizDevCRM/entity"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const timeLayout = "2006-01-02 15:04"

// sheet writes a header row and the given rows to a new workbook.
func sheet(name string, header []string, rows [][]interface{}) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", name); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	for i, title := range header {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err = f.SetCellValue(name, cell, title); err != nil {
			return nil, err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	_ = f.SetCellStyle(name, "A1", last, style)

	for r, row := range rows {
		for col, value := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, r+2)
			if err = f.SetCellValue(name, cell, value); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}

func Leads(leads []entity.Lead) (*excelize.File, error) {
	header := []string{"Company", "Contact", "Email", "Phone", "Industry", "Stage", "Value", "Source", "Assigned To", "Remarks", "Created", "Updated"}
	rows := make([][]interface{}, 0, len(leads))
	for _, l := range leads {
		rows = append(rows, []interface{}{
			l.CompanyName, l.ContactName, l.ContactEmail, l.ContactPhone, l.IndustryName,
			string(l.Stage), l.Value, l.Source, l.AssignedTo, len(l.Remarks),
			l.CreatedAt.Format(timeLayout), l.UpdatedAt.Format(timeLayout),
		})
	}
	return sheet("Leads", header, rows)
}

func Activities(logs []entity.ActivityLog) (*excelize.File, error) {
	header := []string{"Time", "User", "Entity", "Name", "Action", "Description", "Changes"}
	rows := make([][]interface{}, 0, len(logs))
	for _, a := range logs {
		rows = append(rows, []interface{}{
			a.Timestamp.Format(timeLayout), a.UserName, a.Entity, a.EntityName, a.Action,
			a.Describe(), formatChanges(a.Changes),
		})
	}
	return sheet("Activities", header, rows)
}

func formatChanges(changes []entity.FieldChange) string {
	parts := make([]string, 0, len(changes))
	for _, c := range changes {
		parts = append(parts, fmt.Sprintf("%s: %v -> %v", entity.FieldLabel(c.Field), c.OldValue, c.NewValue))
	}
	return strings.Join(parts, "; ")
}

func Attendance(records []entity.AttendanceRecord) (*excelize.File, error) {
	header := []string{"Date", "User", "Status", "First Login", "Last Logout", "Sessions", "Hours"}
	rows := make([][]interface{}, 0, len(records))
	for _, r := range records {
		first, last := "", ""
		if t := r.FirstLogin(); t != nil {
			first = t.Format("15:04")
		}
		if t := r.LastLogout(); t != nil {
			last = t.Format("15:04")
		}
		rows = append(rows, []interface{}{r.Date, r.UserName, r.Status, first, last, len(r.Sessions), r.TotalHours})
	}

	f, err := sheet("Attendance", header, rows)
	if err != nil {
		return nil, err
	}

	s := entity.SummarizeAttendance(records)
	summary := [][]interface{}{
		{"Total days", s.TotalDays},
		{"Present", s.Present},
		{"Late", s.Late},
		{"Half day", s.HalfDay},
		{"Absent", s.Absent},
		{"Total hours", s.TotalHours},
		{"Attendance %", s.AttendancePercentage},
	}
	if _, err = f.NewSheet("Summary"); err != nil {
		return nil, err
	}
	for i, row := range summary {
		_ = f.SetCellValue("Summary", fmt.Sprintf("A%d", i+1), row[0])
		_ = f.SetCellValue("Summary", fmt.Sprintf("B%d", i+1), row[1])
	}
	return f, nil
}

// Write streams the workbook and closes it.
func Write(f *excelize.File, w io.Writer) error {
	defer f.Close()
	return f.Write(w)
}
