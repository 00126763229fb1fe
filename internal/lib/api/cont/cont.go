package cont

import (
	"BizDevCRM/entity"
	"context"
	"errors"
)

type ctxKey string

const userDataKey ctxKey = "userData"

func PutUser(c context.Context, user *entity.UserAuth) context.Context {
	return context.WithValue(c, userDataKey, user)
}

func GetUser(c context.Context) (*entity.UserAuth, error) {
	user, ok := c.Value(userDataKey).(*entity.UserAuth)
	if !ok || user == nil {
		return nil, errors.New("user not found in context")
	}
	return user, nil
}
