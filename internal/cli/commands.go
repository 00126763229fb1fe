package cli

import (
	"BizDevCRM/entity"
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"
)

func newUserCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	var req entity.CreateUserRequest
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a user (admin, manager or bd_executive)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, app, func(ctx context.Context, b Backend) (any, error) {
				return b.CreateUser(ctx, actor, &req)
			})
		},
	}
	create.Flags().StringVar(&req.Name, "name", "", "Full name")
	create.Flags().StringVar(&req.Email, "email", "", "Login email")
	create.Flags().StringVar(&req.Phone, "phone", "", "Phone number")
	create.Flags().StringVar(&req.Password, "password", "", "Initial password (min 8 chars)")
	create.Flags().StringVar(&req.Role, "role", entity.BDExecutiveRole, "Role")
	_ = create.MarkFlagRequired("name")
	_ = create.MarkFlagRequired("email")
	_ = create.MarkFlagRequired("password")

	cmd.AddCommand(create)
	return cmd
}

func newAttendanceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attendance",
		Short: "Manage attendance records",
	}

	var userID string
	var all bool
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete attendance records for one user, or everyone with --all",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == "" && !all {
				return writeErr(cmd, errors.New("pass --user <id> or --all"))
			}
			return run(cmd, app, func(ctx context.Context, b Backend) (any, error) {
				deleted, err := b.ClearAttendance(ctx, actor, userID)
				if err != nil {
					return nil, err
				}
				return map[string]any{"deleted": deleted}, nil
			})
		},
	}
	clearCmd.Flags().StringVar(&userID, "user", "", "User id")
	clearCmd.Flags().BoolVar(&all, "all", false, "Clear every user's records")

	cmd.AddCommand(clearCmd)
	return cmd
}

func newActivityCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activity",
		Short: "Manage the activity feed",
	}

	var before string
	purge := &cobra.Command{
		Use:   "purge",
		Short: "Delete activity entries older than a date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := parseDate("before", before)
			if err != nil {
				return writeErr(cmd, err)
			}
			return run(cmd, app, func(ctx context.Context, b Backend) (any, error) {
				deleted, err := b.PurgeActivityLogs(ctx, actor, t)
				if err != nil {
					return nil, err
				}
				return map[string]any{"deleted": deleted, "before": t.Format(time.RFC3339)}, nil
			})
		},
	}
	purge.Flags().StringVar(&before, "before", "", "Cutoff date (YYYY-MM-DD or RFC3339)")
	_ = purge.MarkFlagRequired("before")

	cmd.AddCommand(purge)
	return cmd
}
