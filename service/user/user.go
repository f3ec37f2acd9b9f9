package user

import (
	"context"

	"lending/core"

	"github.com/fox-one/mixin-sdk-go"
)

type userService struct{}

// New new user service, users are authenticated by their mixin access token
func New() core.UserService {
	return &userService{}
}

func (s *userService) Login(ctx context.Context, token string) (*core.User, error) {
	profile, err := mixin.UserMe(ctx, token)
	if err != nil {
		return nil, err
	}

	user := core.User{
		MixinID:     profile.UserID,
		Name:        profile.FullName,
		Avatar:      profile.AvatarURL,
		AccessToken: token,
	}

	return &user, nil
}
