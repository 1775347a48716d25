package directory

import (
	"context"

	c "selfadmin/internal/core/domain/common"
)

type UserID string

type AccessToken string

func (t AccessToken) String() string {
	return "***"
}

type RawPassword string

func (p RawPassword) String() string {
	return "***"
}

type EmailAddress struct {
	Value   c.Email
	Primary bool
}

// User is the directory's view of an account. The one-time token attribute
// is the single slot this add-on owns on the record; everything else is
// read-only context for delivery.
type User struct {
	ID           UserID
	UserName     string
	Locale       string
	Emails       []EmailAddress
	OneTimeToken c.Optional[string]
}

func (u User) PrimaryOrFirstEmail() (email c.Email, ok bool) {
	for _, e := range u.Emails {
		if e.Primary {
			return e.Value, true
		}
	}
	if len(u.Emails) > 0 {
		return u.Emails[0].Value, true
	}
	return email, false
}

// Update is one combined write against a user record. Setting the password
// and deleting the token slot in the same document is what makes redeem's
// consume step a single logical unit. IfOneTimeTokenIs makes the write
// conditional: the directory rejects it with ErrPreconditionFailed unless
// the slot still holds exactly that value.
type Update struct {
	SetOneTimeToken    c.Optional[string]
	DeleteOneTimeToken bool
	SetPassword        c.Optional[RawPassword]
	IfOneTimeTokenIs   c.Optional[string]
}

type Client interface {
	GetUser(ctx context.Context, accessToken AccessToken, id UserID) (User, error)
	GetCurrentUser(ctx context.Context, accessToken AccessToken) (User, error)
	UpdateUser(ctx context.Context, accessToken AccessToken, id UserID, update Update) (User, error)
}
