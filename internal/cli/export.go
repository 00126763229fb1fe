package cli

import (
	"BizDevCRM/entity"
	xlsx "BizDevCRM/internal/lib/report"
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"
)

type exportFlags struct {
	out    string
	user   string
	from   string
	to     string
	stage  string
	entity string
}

func newExportCmd(app *App) *cobra.Command {
	var f exportFlags
	cmd := &cobra.Command{
		Use:       "export <leads|activities|attendance>",
		Short:     "Write a report to an .xlsx file",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"leads", "activities", "attendance"},
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			out := f.out
			if out == "" {
				out = fmt.Sprintf("%s-%s.xlsx", name, time.Now().Format(entity.DateLayout))
			}
			return run(cmd, app, func(ctx context.Context, b Backend) (any, error) {
				book, rows, err := build(ctx, b, name, f)
				if err != nil {
					return nil, err
				}
				if err = save(book, out); err != nil {
					return nil, err
				}
				return map[string]any{"file": out, "rows": rows}, nil
			})
		},
	}
	cmd.Flags().StringVar(&f.out, "out", "", "Output path (default <report>-<date>.xlsx)")
	cmd.Flags().StringVar(&f.user, "user", "", "Filter by user id")
	cmd.Flags().StringVar(&f.from, "from", "", "From date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.to, "to", "", "To date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.stage, "stage", "", "Lead stage (leads only)")
	cmd.Flags().StringVar(&f.entity, "entity", "", "Entity type (activities only)")
	return cmd
}

func build(ctx context.Context, b Backend, name string, f exportFlags) (*excelize.File, int, error) {
	switch name {
	case "leads":
		leads, err := b.GetLeads(ctx, actor, entity.LeadFilter{Stage: f.stage, AssignedTo: f.user})
		if err != nil {
			return nil, 0, err
		}
		book, err := xlsx.Leads(leads)
		return book, len(leads), err
	case "activities":
		from, err := parseDate("from", f.from)
		if err != nil {
			return nil, 0, err
		}
		to, err := parseDate("to", f.to)
		if err != nil {
			return nil, 0, err
		}
		filter := entity.ActivityFilter{Entity: f.entity, UserID: f.user}
		if !from.IsZero() {
			filter.From = &from
		}
		if !to.IsZero() {
			if len(f.to) == len(entity.DateLayout) {
				to = to.Add(24*time.Hour - time.Nanosecond)
			}
			filter.To = &to
		}
		logs, err := b.GetAllActivities(ctx, actor, filter)
		if err != nil {
			return nil, 0, err
		}
		book, err := xlsx.Activities(logs)
		return book, len(logs), err
	case "attendance":
		records, err := b.GetAttendance(ctx, actor, f.user, f.from, f.to)
		if err != nil {
			return nil, 0, err
		}
		book, err := xlsx.Attendance(records)
		return book, len(records), err
	}
	return nil, 0, fmt.Errorf("unknown report %q", name)
}

func save(book *excelize.File, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = xlsx.Write(book, file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
