package session

import (
	"errors"
	"time"

	"github.com/dgrijalva/jwt-go"
)

var (
	nowFunc = time.Now // mockable

	errMalformedToken = errors.New("malformed ID token")
	errTokenExpired   = errors.New("ID token expired")
)

// idTokenClaims is the subset of provider claims this client reads.
type idTokenClaims struct {
	jwt.StandardClaims
	Email  string `json:"email,omitempty"`
	UserID string `json:"user_id,omitempty"`
}

// inspectToken reads claims off an ID token without verifying its signature;
// verification is the backend's job. Used to fill Session metadata and to
// reject tokens already expired client-side before a round trip is wasted.
func inspectToken(token string) (idTokenClaims, error) {
	var claims idTokenClaims
	parser := &jwt.Parser{}
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return idTokenClaims{}, errMalformedToken
	}
	if claims.ExpiresAt > 0 && nowFunc().After(time.Unix(claims.ExpiresAt, 0)) {
		return idTokenClaims{}, errTokenExpired
	}
	return claims, nil
}

func (c idTokenClaims) issuedAt() time.Time {
	if c.IssuedAt == 0 {
		return time.Time{}
	}
	return time.Unix(c.IssuedAt, 0).UTC()
}
