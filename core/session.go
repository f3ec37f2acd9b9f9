package core

import (
	"context"
)

// Session user session
type Session interface {
	// Login return the user of the access token
	Login(ctx context.Context, accessToken string) (*User, error)
}
