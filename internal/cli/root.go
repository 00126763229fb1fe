// Package cli implements crmctl, the admin tool for operations that have no
// HTTP surface: bootstrapping users, clearing attendance, purging the
// activity feed and exporting reports.
package cli

import (
	"BizDevCRM/entity"
	"BizDevCRM/impl/core"
	"BizDevCRM/internal/config"
	"BizDevCRM/internal/database"
	"BizDevCRM/internal/service/auth"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Backend is the slice of the core the admin commands drive.
type Backend interface {
	CreateUser(ctx context.Context, actor *entity.UserAuth, req *entity.CreateUserRequest) (*entity.User, error)
	ClearAttendance(ctx context.Context, actor *entity.UserAuth, userID string) (int64, error)
	PurgeActivityLogs(ctx context.Context, actor *entity.UserAuth, before time.Time) (int64, error)
	GetLeads(ctx context.Context, actor *entity.UserAuth, filter entity.LeadFilter) ([]entity.Lead, error)
	GetAllActivities(ctx context.Context, actor *entity.UserAuth, filter entity.ActivityFilter) ([]entity.ActivityLog, error)
	GetAttendance(ctx context.Context, actor *entity.UserAuth, userID, from, to string) ([]entity.AttendanceRecord, error)
}

type App struct {
	ConfigPath string
	Pretty     bool
	Timeout    time.Duration

	// open connects the backend; the returned func releases it.
	open func(app *App) (Backend, func(), error)
}

// actor is the principal recorded for changes made from the command line.
var actor = &entity.UserAuth{ID: "crmctl", Name: "crmctl", Role: entity.AdminRole}

func NewRootCmd() *cobra.Command {
	return newRootCmd(&App{open: connect})
}

func newRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "crmctl",
		Short:        "BizDevCRM admin tool",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Create the first admin
  crmctl user create --name "Admin" --email admin@example.com --password secret123 --role admin

  # Remove activity older than a date
  crmctl activity purge --before 2024-01-01

  # Export leads to a spreadsheet
  crmctl export leads --out leads.xlsx`),
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "conf", envOr("CRM_CONFIG", "config.yml"), "Path to config file")
	cmd.PersistentFlags().BoolVar(&app.Pretty, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().DurationVar(&app.Timeout, "timeout", time.Minute, "Timeout for each operation")

	cmd.AddCommand(newUserCmd(app))
	cmd.AddCommand(newAttendanceCmd(app))
	cmd.AddCommand(newActivityCmd(app))
	cmd.AddCommand(newExportCmd(app))

	return cmd
}

func connect(app *App) (Backend, func(), error) {
	_ = godotenv.Load()
	conf := config.MustLoad(app.ConfigPath)
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	db, err := repository.NewMongoClient(conf, log)
	if err != nil {
		return nil, nil, err
	}
	if db == nil {
		return nil, nil, errors.New("mongo is disabled in config")
	}

	authService := auth.NewAuthService(conf.Auth.Secret, conf.Auth.TokenTTL, log)
	authService.SetRepository(db)

	handler := core.New(log)
	handler.SetRepository(db)
	handler.SetFileStore(db)
	handler.SetAuthService(authService)

	release := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = db.Close(ctx)
	}
	return handler, release, nil
}

// run opens the backend for the duration of fn.
func run(cmd *cobra.Command, app *App, fn func(ctx context.Context, b Backend) (any, error)) error {
	backend, release, err := app.open(app)
	if err != nil {
		return writeErr(cmd, err)
	}
	defer release()

	ctx, cancel := context.WithTimeout(cmd.Context(), app.Timeout)
	defer cancel()

	out, err := fn(ctx, backend)
	if err != nil {
		return writeErr(cmd, err)
	}
	return writeOut(cmd, app, out)
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return encode(cmd.OutOrStdout(), map[string]any{"data": v}, app.Pretty)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}

func encode(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

func parseDate(flag, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(entity.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: expected YYYY-MM-DD or RFC3339, got %q", flag, value)
	}
	return t, nil
}
