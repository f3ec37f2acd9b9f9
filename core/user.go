package core

import (
	"context"
)

// User mixin user behind an access token, the MixinID is the account id
type User struct {
	MixinID     string `json:"mixin_id,omitempty"`
	Name        string `json:"name,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
	AccessToken string `json:"-"`
}

// UserService user service interface
type UserService interface {
	Login(ctx context.Context, token string) (*User, error)
}
