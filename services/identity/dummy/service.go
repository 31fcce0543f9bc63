package dummyid

import (
	"context"
	"sync"
	"time"

	"github.com/dgrijalva/jwt-go"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/session"
)

// Account is a pre-registered identity for tests and local development.
type Account struct {
	UserID   string
	Email    string
	Password string
}

// Provider is an in-memory identity provider. It mints real HS256 ID tokens
// so claim inspection works against it like against the hosted provider.
type Provider struct {
	secret   []byte
	tokenTTL time.Duration

	mu       sync.Mutex
	accounts map[string]Account // email -> account
	current  session.Credential
	haveCur  bool

	// RefreshErr, when set, fails the next FreshIDToken call.
	RefreshErr error
	// RefreshCount counts minted tokens, forced or not.
	RefreshCount int
}

var _ session.Provider = (*Provider)(nil)

func NewProvider(secret []byte, accounts ...Account) *Provider {
	p := &Provider{
		secret:   secret,
		tokenTTL: time.Hour,
		accounts: make(map[string]Account, len(accounts)),
	}
	for _, acc := range accounts {
		p.accounts[acc.Email] = acc
	}
	return p
}

func (p *Provider) SignIn(_ context.Context, email, password string) (session.Credential, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	acc, ok := p.accounts[email]
	if !ok || acc.Password != password {
		return session.Credential{}, core.NewAuthError(400, "INVALID_PASSWORD")
	}

	token, err := p.mint(acc)
	if err != nil {
		return session.Credential{}, err
	}
	cred := session.Credential{
		UserID:       acc.UserID,
		Email:        acc.Email,
		IDToken:      token,
		RefreshToken: "refresh-" + acc.UserID,
	}
	p.current, p.haveCur = cred, true
	return cred, nil
}

func (p *Provider) FreshIDToken(_ context.Context, cred session.Credential, _ bool) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.RefreshErr != nil {
		return "", p.RefreshErr
	}
	acc, ok := p.accounts[cred.Email]
	if !ok {
		return "", core.NewAuthError(400, "USER_NOT_FOUND")
	}
	return p.mint(acc)
}

func (p *Provider) CurrentCredential() (session.Credential, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current, p.haveCur
}

func (p *Provider) SignOut() {
	p.mu.Lock()
	p.current, p.haveCur = session.Credential{}, false
	p.mu.Unlock()
}

// Restore seeds a live provider session, as if restored from a previous run.
func (p *Provider) Restore(cred session.Credential) {
	p.mu.Lock()
	p.current, p.haveCur = cred, true
	p.mu.Unlock()
}

func (p *Provider) mint(acc Account) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":     acc.UserID,
		"user_id": acc.UserID,
		"email":   acc.Email,
		"iat":     now.Unix(),
		"exp":     now.Add(p.tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", err
	}
	p.RefreshCount++
	return token, nil
}
