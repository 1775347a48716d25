package reset

import (
	"context"
	"errors"

	"selfadmin/internal/core/domain/directory"
	"selfadmin/internal/core/domain/token"
)

var (
	// ErrInvalidResetToken deliberately covers absent, malformed, expired
	// and mismatched tokens alike, so a caller cannot tell "no such token"
	// from "wrong guess".
	ErrInvalidResetToken = errors.New("invalid password reset token")

	ErrNoDeliveryAddress = errors.New("user has no email address")
)

type TokenSender interface {
	SendToken(ctx context.Context, user directory.User, secret token.Secret) error
}
