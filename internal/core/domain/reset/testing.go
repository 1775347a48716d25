package reset

import (
	"context"
	"fmt"
	"sync"

	"selfadmin/internal/core/domain/directory"
	"selfadmin/internal/core/domain/token"
)

type SentToken struct {
	User   directory.User
	Secret token.Secret
}

type FakeTokenSender struct {
	Sent        []SentToken
	ReturnError bool
	lock        sync.Mutex
}

func NewFakeTokenSender() *FakeTokenSender {
	return &FakeTokenSender{}
}

func (s *FakeTokenSender) SendToken(ctx context.Context, user directory.User, secret token.Secret) error {
	if s.ReturnError {
		return fmt.Errorf("could not send reset token to user %s", user.ID)
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.Sent = append(s.Sent, SentToken{User: user, Secret: secret})
	return nil
}

func (s *FakeTokenSender) SentCount() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.Sent)
}

func (s *FakeTokenSender) LastSent() SentToken {
	s.lock.Lock()
	defer s.lock.Unlock()
	if len(s.Sent) == 0 {
		panic("Sent count is 0.")
	}
	return s.Sent[len(s.Sent)-1]
}
