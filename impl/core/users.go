package core

import (
	"BizDevCRM/entity"
	"context"
)

func (c *Core) GetUsers(ctx context.Context, _ *entity.UserAuth) ([]entity.User, error) {
	users, err := c.repo.GetUsers(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []entity.User{}
	}
	return users, nil
}

// CreateUser is restricted to admins.
func (c *Core) CreateUser(ctx context.Context, actor *entity.UserAuth, req *entity.CreateUserRequest) (*entity.User, error) {
	if !actor.IsAdmin() {
		return nil, entity.ErrForbidden
	}
	return c.authService.RegisterUser(ctx, req)
}

func (c *Core) userName(ctx context.Context, id string) string {
	user, err := c.repo.GetUserByID(ctx, id)
	if err != nil || user == nil {
		return ""
	}
	return user.Name
}
