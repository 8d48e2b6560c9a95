package common

import "strings"

// WipeByteArray overwrites b with zeros. Used for passwords read from the
// terminal once they have been sent.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// BearerToken formats an access token as an Authorization header value.
func BearerToken(token string) string {
	return BearerPrefix + token
}

// TokenFromBearer extracts the token from an Authorization header value.
// The second result is false when the value is not a bearer credential.
func TokenFromBearer(header string) (string, bool) {
	if !strings.HasPrefix(header, BearerPrefix) {
		return "", false
	}
	return strings.TrimPrefix(header, BearerPrefix), true
}
