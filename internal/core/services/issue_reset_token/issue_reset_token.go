package issueresettoken

import (
	"context"

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
	UserID      directory.UserID
}

type Result struct {
	// Secret is returned so the transport layer can expose it in test mode;
	// it must never appear in a regular success response.
	Secret token.Secret
}

type service struct {
	log         logging.Logger
	directory   directory.Client
	codec       token.Codec
	tokenSender reset.TokenSender
}

func New(
	log logging.Logger,
	directoryClient directory.Client,
	codec token.Codec,
	tokenSender reset.TokenSender,
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
	if tokenSender == nil {
		panic(e.NewNilArgumentError("tokenSender"))
	}
	return &service{
		log:         log,
		directory:   directoryClient,
		codec:       codec,
		tokenSender: tokenSender,
	}
}

// Run writes a freshly generated token into the user's attribute slot and
// hands the secret to the sender. The write is a plain overwrite: issuing
// again silently invalidates any previously issued token, so only the most
// recent one is ever redeemable.
func (s *service) Run(ctx context.Context, input Input) (result Result, err error) {
	t := s.codec.Generate()
	u, err := s.directory.UpdateUser(
		ctx,
		input.AccessToken,
		input.UserID,
		directory.Update{SetOneTimeToken: c.NewOptional(s.codec.Serialize(t), true)},
	)
	if err != nil {
		s.log.Warning(
			ctx,
			"Could not store one time token for user.",
			logging.Entry("userID", input.UserID),
			logging.Entry("err", err),
		)
		return result, err
	}

	if _, ok := u.PrimaryOrFirstEmail(); !ok {
		s.log.Error(
			ctx,
			"Could not send reset token, user has no email address.",
			logging.Entry("userID", u.ID),
		)
		return result, reset.ErrNoDeliveryAddress
	}

	if err := s.tokenSender.SendToken(ctx, u, t.Secret); err != nil {
		s.log.Error(
			ctx,
			"Could not send password reset token.",
			logging.Entry("userID", u.ID),
			logging.Entry("err", err),
		)
		return result, err
	}

	s.log.Info(
		ctx,
		"Password reset token has been issued.",
		logging.Entry("userID", u.ID),
	)
	return Result{Secret: t.Secret}, nil
}
