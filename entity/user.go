package entity

import (
	"BizDevCRM/internal/lib/validate"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	AdminRole       = "admin"
	ManagerRole     = "manager"
	BDExecutiveRole = "bd_executive"
)

type User struct {
	ID           string    `json:"id" bson:"_id"`
	Name         string    `json:"name" bson:"name"`
	Email        string    `json:"email" bson:"email"`
	Phone        string    `json:"phone,omitempty" bson:"phone"`
	Role         string    `json:"role" bson:"role"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Active       bool      `json:"active" bson:"active"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	LastSeen     time.Time `json:"last_seen" bson:"last_seen"`
}

func NewUser(name, email, role string) *User {
	return &User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Role:      role,
		Active:    true,
		CreatedAt: time.Now(),
	}
}

func ValidRole(role string) bool {
	switch role {
	case AdminRole, ManagerRole, BDExecutiveRole:
		return true
	}
	return false
}

func (u *User) IsAdmin() bool {
	return u.Role == AdminRole
}

func (u *User) IsManager() bool {
	return u.Role == ManagerRole
}

func (u *User) IsBDExecutive() bool {
	return u.Role == BDExecutiveRole
}

// CanManage reports whether the user sees and edits records of other users.
func (u *User) CanManage() bool {
	return u.IsAdmin() || u.IsManager()
}

func (u *User) Auth() *UserAuth {
	return &UserAuth{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}

type CreateUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"omitempty"`
	Role     string `json:"role" validate:"required,oneof=admin manager bd_executive"`
	Password string `json:"password" validate:"required,min=8"`
}

func (c *CreateUserRequest) Bind(_ *http.Request) error {
	return validate.Struct(c)
}
