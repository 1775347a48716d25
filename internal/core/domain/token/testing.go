package token

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FakeCodec returns a predefined token from Generate and round-trips the
// same wire form as the real codec.
type FakeCodec struct {
	NextToken OneTimeToken
}

func NewFakeCodec(next OneTimeToken) *FakeCodec {
	return &FakeCodec{NextToken: next}
}

func (c *FakeCodec) Generate() OneTimeToken {
	return c.NextToken
}

func (c *FakeCodec) Serialize(t OneTimeToken) string {
	return fmt.Sprintf("%s:%d", t.Secret, t.IssuedAt.Unix())
}

func (c *FakeCodec) Parse(raw string) (OneTimeToken, error) {
	parts := strings.Split(raw, ":")
	if len(parts) != 2 || parts[0] == "" {
		return OneTimeToken{}, NewFormatError("unexpected structure")
	}
	issuedAt, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return OneTimeToken{}, NewFormatError("corrupt timestamp %q", parts[1])
	}
	return OneTimeToken{Secret: Secret(parts[0]), IssuedAt: time.Unix(issuedAt, 0).UTC()}, nil
}
