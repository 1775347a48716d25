package directory

import (
	"context"
	"sync"

	c "selfadmin/internal/core/domain/common"
)

type FakeClient struct {
	Users         map[UserID]User
	Passwords     map[UserID]RawPassword
	CurrentUserID UserID

	GetCallCount    int
	UpdateCallCount int
	Updates         []Update

	GetReturnsError    error
	UpdateReturnsError error

	lock sync.Mutex
}

func NewFakeClient() *FakeClient {
	return &FakeClient{
		Users:     make(map[UserID]User),
		Passwords: make(map[UserID]RawPassword),
	}
}

func (f *FakeClient) GetUser(ctx context.Context, accessToken AccessToken, id UserID) (User, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.GetCallCount++
	if f.GetReturnsError != nil {
		return User{}, f.GetReturnsError
	}
	u, ok := f.Users[id]
	if !ok {
		return User{}, ErrUserDoesNotExist
	}
	return u, nil
}

func (f *FakeClient) GetCurrentUser(ctx context.Context, accessToken AccessToken) (User, error) {
	return f.GetUser(ctx, accessToken, f.CurrentUserID)
}

func (f *FakeClient) UpdateUser(
	ctx context.Context,
	accessToken AccessToken,
	id UserID,
	update Update,
) (User, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.UpdateCallCount++
	f.Updates = append(f.Updates, update)
	if f.UpdateReturnsError != nil {
		return User{}, f.UpdateReturnsError
	}
	u, ok := f.Users[id]
	if !ok {
		return User{}, ErrUserDoesNotExist
	}
	if update.IfOneTimeTokenIs.IsPresent {
		if !u.OneTimeToken.IsPresent || u.OneTimeToken.Value != update.IfOneTimeTokenIs.Value {
			return User{}, ErrPreconditionFailed
		}
	}
	if update.SetOneTimeToken.IsPresent {
		u.OneTimeToken = c.NewOptional(update.SetOneTimeToken.Value, true)
	}
	if update.DeleteOneTimeToken {
		u.OneTimeToken = c.Optional[string]{}
	}
	if update.SetPassword.IsPresent {
		f.Passwords[id] = update.SetPassword.Value
	}
	f.Users[id] = u
	return u, nil
}

func (f *FakeClient) StoredToken(id UserID) c.Optional[string] {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.Users[id].OneTimeToken
}
