package session

import (
	"context"
	"errors"

	"lending/core"

	"github.com/asaskevich/govalidator"
	"github.com/bluele/gcache"
	"golang.org/x/sync/singleflight"
)

// ErrInvalidToken empty or malformed access token
var ErrInvalidToken = errors.New("invalid access token")

// New new session, logins are cached per token when capacity > 0
func New(userz core.UserService, capacity int) core.Session {
	var s core.Session = &session{
		userz: userz,
		sf:    &singleflight.Group{},
	}

	if capacity > 0 {
		s = &cacheSession{
			Session: s,
			tokens:  gcache.New(capacity).LRU().Build(),
		}
	}

	return s
}

type session struct {
	userz core.UserService
	sf    *singleflight.Group
}

func (s *session) Login(ctx context.Context, accessToken string) (*core.User, error) {
	if govalidator.IsNull(accessToken) {
		return nil, ErrInvalidToken
	}

	user, err, _ := s.sf.Do(accessToken, func() (interface{}, error) {
		return s.userz.Login(ctx, accessToken)
	})
	if err != nil {
		return nil, err
	}

	return user.(*core.User), nil
}
