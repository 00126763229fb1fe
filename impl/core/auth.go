package core

import (
	"BizDevCRM/entity"
	"BizDevCRM/internal/lib/sl"
	"context"
	"fmt"
	"log/slog"
)

func (c *Core) AuthenticateByToken(token string) (*entity.UserAuth, error) {
	if c.authService == nil {
		return nil, fmt.Errorf("auth service: %w", entity.ErrNotConfigured)
	}
	return c.authService.AuthenticateByToken(token)
}

// Login issues a token and opens an attendance session. A failed attendance
// write does not block the login.
func (c *Core) Login(ctx context.Context, email, password string) (*entity.LoginResponse, error) {
	user, token, err := c.authService.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	auth := user.Auth()
	now := c.now()
	if _, err = c.MarkAttendance(ctx, auth, entity.AttendanceLogin); err != nil {
		c.log.With(sl.Err(err), slog.String("user", user.ID)).Warn("attendance login")
	}
	if err = c.repo.TouchUser(ctx, user.ID, now); err != nil {
		c.log.With(sl.Err(err), slog.String("user", user.ID)).Warn("touch user")
	}

	c.log.With(
		slog.String("user", user.ID),
		slog.String("role", user.Role),
	).Info("user logged in")

	return &entity.LoginResponse{Token: token, User: auth}, nil
}

// Logout closes the open attendance session. Tokens are stateless, the
// client drops its copy.
func (c *Core) Logout(ctx context.Context, user *entity.UserAuth) (*entity.AttendanceRecord, error) {
	return c.MarkAttendance(ctx, user, entity.AttendanceLogout)
}

func (c *Core) GetMe(ctx context.Context, user *entity.UserAuth) (*entity.User, error) {
	me, err := c.repo.GetUserByID(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if me == nil {
		return nil, entity.ErrNotFound
	}
	return me, nil
}
