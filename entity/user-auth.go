package entity

import (
	"BizDevCRM/internal/lib/validate"
	"net/http"
)

// UserAuth is the authenticated principal attached to a request context.
type UserAuth struct {
	ID    string `json:"id" bson:"id" validate:"required"`
	Name  string `json:"name" bson:"name" validate:"omitempty"`
	Email string `json:"email" bson:"email" validate:"omitempty"`
	Role  string `json:"role" bson:"role" validate:"required"`
	Token string `json:"token,omitempty" bson:"-"`
}

func (u *UserAuth) Bind(_ *http.Request) error {
	return validate.Struct(u)
}

func (u *UserAuth) CanManage() bool {
	return u.Role == AdminRole || u.Role == ManagerRole
}

func (u *UserAuth) IsAdmin() bool {
	return u.Role == AdminRole
}

func (u *UserAuth) IsBDExecutive() bool {
	return u.Role == BDExecutiveRole
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (l *LoginRequest) Bind(_ *http.Request) error {
	return validate.Struct(l)
}

type LoginResponse struct {
	Token string    `json:"token"`
	User  *UserAuth `json:"user"`
}
