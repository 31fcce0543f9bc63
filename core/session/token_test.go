package session

import (
	"testing"
	"time"

	"github.com/dgrijalva/jwt-go"
)

var testSecret = []byte("secret")

func mintToken(t *testing.T, email, userID string, issuedAt time.Time, ttl time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":     userID,
		"user_id": userID,
		"email":   email,
		"iat":     issuedAt.Unix(),
		"exp":     issuedAt.Add(ttl).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	if err != nil {
		t.Fatalf("mintToken() failed: %v", err)
	}
	return token
}

func TestInspectToken(t *testing.T) {
	now := time.Now()
	valid := mintToken(t, "awe@test.cd", "u1", now, time.Hour)
	expired := mintToken(t, "awe@test.cd", "u1", now.Add(-2*time.Hour), time.Hour)

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "empty", token: "", wantErr: errMalformedToken},
		{name: "garbage", token: "lmaooolol", wantErr: errMalformedToken},
		{name: "expired", token: expired, wantErr: errTokenExpired},
		{name: "valid", token: valid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := inspectToken(tt.token)
			if err != tt.wantErr {
				t.Fatalf("inspectToken() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if claims.Email != "awe@test.cd" || claims.UserID != "u1" {
				t.Errorf("inspectToken() claims = %+v", claims)
			}
			if got := claims.issuedAt(); got.Unix() != now.Unix() {
				t.Errorf("issuedAt() = %v, want %v", got, now)
			}
		})
	}
}

func TestInspectToken_clockSkew(t *testing.T) {
	token := mintToken(t, "awe@test.cd", "u1", time.Now(), time.Hour)

	// same token judged expired once the clock moves past exp
	nowFunc = func() time.Time { return time.Now().Add(2 * time.Hour) }
	defer func() { nowFunc = time.Now }()

	if _, err := inspectToken(token); err != errTokenExpired {
		t.Errorf("inspectToken() error = %v, want %v", err, errTokenExpired)
	}
}
