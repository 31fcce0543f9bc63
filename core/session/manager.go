package session

import (
	"context"
	"errors"
	"sync"

	pkgerrors "github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
)

var (
	// errors
	ErrNoSession      = errors.New("no active session")
	ErrAuthInProgress = errors.New("another authentication attempt is in progress")
)

// Manager owns the authentication lifecycle: credential exchange with the
// identity provider, backend session validation, token persistence and
// re-validation on application start. It establishes at most one
// authenticated session per run.
type Manager struct {
	provider Provider
	backend  BackendValidator
	tokens   TokenStore
	logger   core.Logger

	mu      sync.Mutex
	busy    bool // an attempt is in flight; a second one is rejected, never run concurrently
	session Session
}

func NewManager(provider Provider, backend BackendValidator, tokens TokenStore, logger core.Logger) *Manager {
	return &Manager{
		provider: provider,
		backend:  backend,
		tokens:   tokens,
		logger:   logger,
	}
}

// Current returns the active session, if any.
func (m *Manager) Current() (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session, m.session.IsValid
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (li *loginInput) Validate() error {
	li.Email = core.CleanString(li.Email, true /* lower */)
	return core.Validate.Struct(li)
}

// Login runs the explicit login flow: sign in at the identity provider,
// force-mint a fresh ID token, validate it with the backend, then persist.
// On any failure the persisted token is cleared and the Manager stays
// Unauthenticated.
func (m *Manager) Login(ctx context.Context, email, password string) (Session, error) {
	if err := m.begin(); err != nil {
		return Session{}, err
	}
	defer m.end()

	data := loginInput{Email: email, Password: password}
	if err := data.Validate(); err != nil {
		return Session{}, err
	}

	cred, err := m.provider.SignIn(ctx, data.Email, password)
	if err != nil {
		m.reset()
		return Session{}, pkgerrors.Wrap(err, "signing in at identity provider")
	}

	token, err := m.provider.FreshIDToken(ctx, cred, true /* forceRefresh */)
	if err != nil {
		m.reset()
		return Session{}, pkgerrors.Wrap(err, "refreshing ID token")
	}

	return m.establish(ctx, cred.Email, token)
}

// RevalidateOnStartup restores a previous run's session. A missing persisted
// token or a dead provider credential short-circuits with no network call;
// any failure clears the persisted token and lands in Unauthenticated.
func (m *Manager) RevalidateOnStartup(ctx context.Context) (Session, error) {
	if err := m.begin(); err != nil {
		return Session{}, err
	}
	defer m.end()

	token, err := m.tokens.Read()
	if err != nil || token == "" {
		m.reset()
		return Session{}, ErrNoSession
	}
	cred, ok := m.provider.CurrentCredential()
	if !ok {
		m.reset()
		return Session{}, ErrNoSession
	}

	// always force a refresh: a token whose claims are stale may already be
	// rejected server-side even if not yet expired client-side.
	fresh, err := m.provider.FreshIDToken(ctx, cred, true /* forceRefresh */)
	if err != nil {
		m.reset()
		return Session{}, pkgerrors.Wrap(err, "refreshing ID token")
	}

	return m.establish(ctx, cred.Email, fresh)
}

// Logout clears the persisted token and drops the session.
func (m *Manager) Logout() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.tokens.Clear(); err != nil && m.logger != nil {
		m.logger.Warn("clearing persisted token", err)
	}
	m.provider.SignOut()
	m.session = Session{}
}

// establish validates a freshly minted token with the backend and, on
// success, persists it and activates the session.
func (m *Manager) establish(ctx context.Context, email, token string) (Session, error) {
	claims, err := inspectToken(token)
	if err != nil {
		m.reset()
		return Session{}, err
	}

	teacherID, err := m.backend.ValidateLogin(ctx, email, token)
	if err != nil {
		m.reset()
		return Session{}, pkgerrors.Wrap(err, "validating session with backend")
	}

	if err := m.tokens.Write(token); err != nil {
		m.reset()
		return Session{}, pkgerrors.Wrap(err, "persisting token")
	}

	sess := Session{
		Token:         token,
		TokenIssuedAt: claims.issuedAt(),
		TeacherID:     teacherID,
		Email:         email,
		IsValid:       true,
	}
	m.mu.Lock()
	m.session = sess
	m.mu.Unlock()
	return sess, nil
}

// reset clears the persisted token and drops any session. An invalid session
// must be cleared before the next authenticated call is attempted.
func (m *Manager) reset() {
	if err := m.tokens.Clear(); err != nil && m.logger != nil {
		m.logger.Warn("clearing persisted token", err)
	}
	m.mu.Lock()
	m.session = Session{}
	m.mu.Unlock()
}

func (m *Manager) begin() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.busy {
		return ErrAuthInProgress
	}
	m.busy = true
	return nil
}

func (m *Manager) end() {
	m.mu.Lock()
	m.busy = false
	m.mu.Unlock()
}
