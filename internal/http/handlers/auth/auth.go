package auth

import (
	"net/http"
	"strings"

	"selfadmin/internal/core/domain/directory"
)

const (
	AUTH_TOKEN_PREFIX  = "Bearer "
	AUTH_TOKEN_MAX_LEN = 1024
)

// ParseAccessToken extracts the bearer token the caller obtained from the
// directory's auth server. The add-on holds no credentials of its own; every
// directory call is made with the caller's token.
func ParseAccessToken(r *http.Request) (token directory.AccessToken, ok bool) {
	header := r.Header.Get("authorization")
	if header == "" {
		return token, false
	}
	parts := strings.SplitN(header, AUTH_TOKEN_PREFIX, 2)
	if len(parts) != 2 {
		return token, false
	}
	if len(parts[1]) > AUTH_TOKEN_MAX_LEN {
		return token, false
	}
	return directory.AccessToken(parts[1]), true
}
