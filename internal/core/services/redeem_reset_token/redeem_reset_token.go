package redeemresettoken

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	c "selfadmin/internal/core/domain/common"
	"selfadmin/internal/core/domain/directory"
	e "selfadmin/internal/core/domain/errors"
	"selfadmin/internal/core/domain/logging"
	"selfadmin/internal/core/domain/reset"
	"selfadmin/internal/core/domain/token"
	"selfadmin/internal/core/services"
)

type Input struct {
	AccessToken directory.AccessToken
	// UserID is set when an operator resets on behalf of a user; when absent
	// the caller's own record is used.
	UserID      c.Optional[directory.UserID]
	Token       string
	NewPassword directory.RawPassword
}

type Result struct {
	User directory.User
}

type service struct {
	log       logging.Logger
	directory directory.Client
	codec     token.Codec
	timeout   time.Duration
	now       func() time.Time
}

func New(
	log logging.Logger,
	directoryClient directory.Client,
	codec token.Codec,
	timeout time.Duration,
	now func() time.Time,
) services.Service[Input, Result] {
	if log == nil {
		panic(e.NewNilArgumentError("log"))
	}
	if directoryClient == nil {
		panic(e.NewNilArgumentError("directoryClient"))
	}
	if codec == nil {
		panic(e.NewNilArgumentError("codec"))
	}
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &service{
		log:       log,
		directory: directoryClient,
		codec:     codec,
		timeout:   timeout,
		now:       now,
	}
}

func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	if input.Token == "" {
		// Cheap rejection, no directory round-trip.
		return result, reset.ErrInvalidResetToken
	}

	u, err := s.getUser(ctx, input)
	if errors.Is(err, context.Canceled) {
		return result, err
	}
	if err != nil {
		s.log.Warning(
			ctx,
			"Could not get user for password reset.",
			logging.Entry("userID", input.UserID),
			logging.Entry("err", err),
		)
		return result, err
	}

	if !u.OneTimeToken.IsPresent {
		s.log.Info(ctx, "No one time token stored for user.", logging.Entry("userID", u.ID))
		return result, reset.ErrInvalidResetToken
	}
	stored, err := s.codec.Parse(u.OneTimeToken.Value)
	if err != nil {
		// Malformed must be indistinguishable from absent.
		s.log.Warning(
			ctx,
			"Stored one time token is malformed.",
			logging.Entry("userID", u.ID),
			logging.Entry("err", err),
		)
		return result, reset.ErrInvalidResetToken
	}

	if token.IsExpired(stored, s.timeout, s.now()) {
		return result, s.purgeExpired(ctx, input.AccessToken, u)
	}

	if subtle.ConstantTimeCompare([]byte(input.Token), []byte(stored.Secret)) != 1 {
		// The slot is left untouched so a still-valid token may be retried
		// with the correct value.
		s.log.Warning(
			ctx,
			"Submitted one time token does not match the stored one.",
			logging.Entry("userID", u.ID),
		)
		return result, reset.ErrInvalidResetToken
	}

	// Consume: set the password and delete the slot in one conditional
	// write. The precondition closes the window where a concurrent redeem
	// or a fresh issue has already replaced the stored value.
	updated, err := s.directory.UpdateUser(
		ctx,
		input.AccessToken,
		u.ID,
		directory.Update{
			DeleteOneTimeToken: true,
			SetPassword:        c.NewOptional(input.NewPassword, true),
			IfOneTimeTokenIs:   c.NewOptional(u.OneTimeToken.Value, true),
		},
	)
	if errors.Is(err, directory.ErrPreconditionFailed) {
		s.log.Info(
			ctx,
			"One time token was consumed or superseded concurrently.",
			logging.Entry("userID", u.ID),
		)
		return result, reset.ErrInvalidResetToken
	}
	if err != nil {
		s.log.Error(
			ctx,
			"Could not update user password.",
			logging.Entry("userID", u.ID),
			logging.Entry("err", err),
		)
		return result, err
	}

	s.log.Info(ctx, "New password has been successfully set.", logging.Entry("userID", u.ID))
	return Result{User: updated}, nil
}

func (s *service) getUser(ctx context.Context, input Input) (directory.User, error) {
	if input.UserID.IsPresent {
		return s.directory.GetUser(ctx, input.AccessToken, input.UserID.Value)
	}
	return s.directory.GetCurrentUser(ctx, input.AccessToken)
}

// purgeExpired removes an expired token the moment a redeem attempt touches
// it. The delete is unconditional: even if a concurrent call races it, the
// slot must not keep an expired value.
func (s *service) purgeExpired(
	ctx context.Context,
	accessToken directory.AccessToken,
	u directory.User,
) error {
	_, err := s.directory.UpdateUser(
		ctx,
		accessToken,
		u.ID,
		directory.Update{DeleteOneTimeToken: true},
	)
	if err != nil {
		s.log.Error(
			ctx,
			"Could not purge expired one time token.",
			logging.Entry("userID", u.ID),
			logging.Entry("err", err),
		)
		return err
	}
	s.log.Info(ctx, "Expired one time token has been purged.", logging.Entry("userID", u.ID))
	return reset.ErrInvalidResetToken
}
