package token

import "time"

type Secret string

// OneTimeToken proves the holder received the out-of-band reset link.
// Immutable once created; the issuance time travels inside the serialized
// form, so expiry never depends on state stored elsewhere.
type OneTimeToken struct {
	Secret   Secret
	IssuedAt time.Time
}

type Codec interface {
	Generate() OneTimeToken
	Serialize(t OneTimeToken) string
	Parse(raw string) (OneTimeToken, error)
}

// IsExpired reports whether t is no longer redeemable at the given moment.
// The boundary is inclusive: a token of age exactly timeout is expired.
func IsExpired(t OneTimeToken, timeout time.Duration, now time.Time) bool {
	return now.Sub(t.IssuedAt) >= timeout
}
