package onetimetoken

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	e "selfadmin/internal/core/domain/errors"
	"selfadmin/internal/core/domain/token"
)

// 128 bits of entropy per secret.
const secretByteCount = 16

const separator = ":"

// Codec generates one-time tokens and round-trips them through the stored
// string form "<secret>:<issuedAtUnix>".
type Codec struct {
	now func() time.Time
}

func NewCodec(now func() time.Time) *Codec {
	if now == nil {
		panic(e.NewNilArgumentError("now"))
	}
	return &Codec{now: now}
}

func (c *Codec) Generate() token.OneTimeToken {
	b := make([]byte, secretByteCount)
	if _, err := rand.Read(b); err != nil {
		panic(fmt.Sprintf("could not read random bytes: %v", err))
	}
	return token.OneTimeToken{
		Secret: token.Secret(base64.RawURLEncoding.EncodeToString(b)),
		// Truncated to seconds, the serialized form carries no finer
		// resolution.
		IssuedAt: c.now().Truncate(time.Second),
	}
}

func (c *Codec) Serialize(t token.OneTimeToken) string {
	return fmt.Sprintf("%s%s%d", t.Secret, separator, t.IssuedAt.Unix())
}

func (c *Codec) Parse(raw string) (token.OneTimeToken, error) {
	parts := strings.Split(raw, separator)
	if len(parts) != 2 {
		return token.OneTimeToken{}, token.NewFormatError("expected 2 parts, got %d", len(parts))
	}
	if parts[0] == "" {
		return token.OneTimeToken{}, token.NewFormatError("empty secret")
	}
	issuedAt, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return token.OneTimeToken{}, token.NewFormatError("corrupt timestamp %q", parts[1])
	}
	return token.OneTimeToken{
		Secret:   token.Secret(parts[0]),
		IssuedAt: time.Unix(issuedAt, 0).UTC(),
	}, nil
}
