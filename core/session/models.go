package session

import (
	"context"
	"time"
)

// Session is the authenticated-identity context attached to outbound calls.
// It is owned exclusively by the Manager; an invalid Session is never handed
// to the API client.
type Session struct {
	Token         string
	TokenIssuedAt time.Time
	TeacherID     string
	Email         string
	IsValid       bool
}

type (
	// Credential is the identity-provider session obtained from a successful
	// sign-in. The refresh token outlives the short-lived ID token.
	Credential struct {
		UserID       string
		Email        string
		IDToken      string
		RefreshToken string
	}

	// Provider verifies credentials and issues ID tokens.
	Provider interface {
		SignIn(ctx context.Context, email, password string) (Credential, error)
		// FreshIDToken returns an ID token for cred. With forceRefresh the
		// provider must mint a new token even if a cached one has not
		// expired client-side: a stale token may already be rejected
		// server-side.
		FreshIDToken(ctx context.Context, cred Credential, forceRefresh bool) (string, error)
		// CurrentCredential reports the provider session restored from a
		// previous run, if any.
		CurrentCredential() (Credential, bool)
		SignOut()
	}

	// BackendValidator exchanges a fresh ID token for a backend session,
	// returning the backend-issued teacher ID.
	BackendValidator interface {
		ValidateLogin(ctx context.Context, email, idToken string) (teacherID string, err error)
	}

	// TokenStore is the single process-wide persisted-token slot. Only the
	// Manager writes it; everything else reads it through the API client.
	TokenStore interface {
		Read() (string, error)
		Write(token string) error
		Clear() error
	}
)
