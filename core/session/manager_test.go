package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/trezcool/mahudhurio/core"
)

type fakeProvider struct {
	mu           sync.Mutex
	t            *testing.T
	email        string
	password     string
	userID       string
	current      Credential
	haveCur      bool
	refreshErr   error
	refreshCount int
	signInGate   chan struct{} // when set, SignIn blocks until closed
}

func (p *fakeProvider) SignIn(_ context.Context, email, password string) (Credential, error) {
	if p.signInGate != nil {
		<-p.signInGate
	}
	if email != p.email || password != p.password {
		return Credential{}, core.NewAuthError(400, "INVALID_PASSWORD")
	}
	cred := Credential{
		UserID:       p.userID,
		Email:        p.email,
		IDToken:      mintToken(p.t, p.email, p.userID, time.Now(), time.Hour),
		RefreshToken: "refresh-" + p.userID,
	}
	p.mu.Lock()
	p.current, p.haveCur = cred, true
	p.mu.Unlock()
	return cred, nil
}

func (p *fakeProvider) FreshIDToken(_ context.Context, cred Credential, _ bool) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.refreshErr != nil {
		return "", p.refreshErr
	}
	p.refreshCount++
	return mintToken(p.t, cred.Email, cred.UserID, time.Now(), time.Hour), nil
}

func (p *fakeProvider) CurrentCredential() (Credential, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current, p.haveCur
}

func (p *fakeProvider) SignOut() {
	p.mu.Lock()
	p.current, p.haveCur = Credential{}, false
	p.mu.Unlock()
}

type fakeBackend struct {
	teacherID string
	err       error
	calls     int
}

func (b *fakeBackend) ValidateLogin(_ context.Context, _, _ string) (string, error) {
	b.calls++
	if b.err != nil {
		return "", b.err
	}
	return b.teacherID, nil
}

type memStore struct {
	mu    sync.Mutex
	token string
}

func (ms *memStore) Read() (string, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.token, nil
}

func (ms *memStore) Write(token string) error {
	ms.mu.Lock()
	ms.token = token
	ms.mu.Unlock()
	return nil
}

func (ms *memStore) Clear() error { return ms.Write("") }

func newTestProvider(t *testing.T) *fakeProvider {
	return &fakeProvider{t: t, email: "awe@test.cd", password: "mdr", userID: "u1"}
}

func TestManager_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("invalid input fails before any network call", func(t *testing.T) {
		provider := newTestProvider(t)
		backend := &fakeBackend{teacherID: "t1"}
		mgr := NewManager(provider, backend, &memStore{}, nil)

		if _, err := mgr.Login(ctx, "not-an-email", "mdr"); !core.IsValidationError(err) {
			t.Errorf("Login() error = %v, want validation error", err)
		}
		if backend.calls != 0 {
			t.Errorf("backend called %d times, want 0", backend.calls)
		}
	})

	t.Run("bad password", func(t *testing.T) {
		provider := newTestProvider(t)
		tokens := &memStore{token: "stale"} // left over from an earlier run
		mgr := NewManager(provider, &fakeBackend{teacherID: "t1"}, tokens, nil)

		if _, err := mgr.Login(ctx, "awe@test.cd", "nope"); !core.IsAuthError(err) {
			t.Errorf("Login() error = %v, want auth error", err)
		}
		if _, ok := mgr.Current(); ok {
			t.Error("Current() reports a session after a failed login")
		}
		if persisted, _ := tokens.Read(); persisted != "" {
			t.Errorf("persisted token = %q after failed sign-in, want cleared", persisted)
		}
	})

	t.Run("success persists token and session", func(t *testing.T) {
		provider := newTestProvider(t)
		tokens := &memStore{}
		mgr := NewManager(provider, &fakeBackend{teacherID: "t1"}, tokens, nil)

		sess, err := mgr.Login(ctx, "AWE@test.cd", "mdr") // email is normalized
		if err != nil {
			t.Fatalf("Login() failed: %v", err)
		}
		if !sess.IsValid || sess.TeacherID != "t1" || sess.Email != "awe@test.cd" {
			t.Errorf("Login() session = %+v", sess)
		}
		if persisted, _ := tokens.Read(); persisted != sess.Token {
			t.Errorf("persisted token = %q, want %q", persisted, sess.Token)
		}
		// login always mints a fresh token, never trusts the sign-in one
		if provider.refreshCount != 1 {
			t.Errorf("refreshCount = %d, want 1", provider.refreshCount)
		}
	})

	t.Run("backend rejection clears the persisted token", func(t *testing.T) {
		provider := newTestProvider(t)
		tokens := &memStore{token: "stale"}
		backend := &fakeBackend{err: core.NewAuthError(401, "unknown teacher")}
		mgr := NewManager(provider, backend, tokens, nil)

		if _, err := mgr.Login(ctx, "awe@test.cd", "mdr"); !core.IsAuthError(err) {
			t.Errorf("Login() error = %v, want auth error", err)
		}
		if persisted, _ := tokens.Read(); persisted != "" {
			t.Errorf("persisted token = %q, want cleared", persisted)
		}
		if _, ok := mgr.Current(); ok {
			t.Error("Current() reports a session after backend rejection")
		}
	})

	t.Run("concurrent attempt is rejected", func(t *testing.T) {
		provider := newTestProvider(t)
		provider.signInGate = make(chan struct{})
		mgr := NewManager(provider, &fakeBackend{teacherID: "t1"}, &memStore{}, nil)

		done := make(chan struct{})
		go func() {
			defer close(done)
			if _, err := mgr.Login(ctx, "awe@test.cd", "mdr"); err != nil {
				t.Errorf("Login() failed: %v", err)
			}
		}()

		// wait until the first attempt holds the busy flag
		for i := 0; ; i++ {
			mgr.mu.Lock()
			busy := mgr.busy
			mgr.mu.Unlock()
			if busy {
				break
			}
			if i > 1000 {
				t.Fatal("first login never started")
			}
			time.Sleep(time.Millisecond)
		}

		if _, err := mgr.Login(ctx, "awe@test.cd", "mdr"); err != ErrAuthInProgress {
			t.Errorf("Login() error = %v, want %v", err, ErrAuthInProgress)
		}

		close(provider.signInGate)
		<-done
	})
}

func TestManager_RevalidateOnStartup(t *testing.T) {
	ctx := context.Background()

	t.Run("no persisted token short-circuits without network", func(t *testing.T) {
		provider := newTestProvider(t)
		backend := &fakeBackend{teacherID: "t1"}
		mgr := NewManager(provider, backend, &memStore{}, nil)

		if _, err := mgr.RevalidateOnStartup(ctx); err != ErrNoSession {
			t.Errorf("RevalidateOnStartup() error = %v, want %v", err, ErrNoSession)
		}
		if provider.refreshCount != 0 || backend.calls != 0 {
			t.Errorf("network was hit: refreshes=%d backend=%d", provider.refreshCount, backend.calls)
		}
	})

	t.Run("persisted token without a live credential is cleared", func(t *testing.T) {
		provider := newTestProvider(t)
		tokens := &memStore{token: "orphan"}
		mgr := NewManager(provider, &fakeBackend{teacherID: "t1"}, tokens, nil)

		if _, err := mgr.RevalidateOnStartup(ctx); err != ErrNoSession {
			t.Errorf("RevalidateOnStartup() error = %v, want %v", err, ErrNoSession)
		}
		if persisted, _ := tokens.Read(); persisted != "" {
			t.Errorf("persisted token = %q, want cleared", persisted)
		}
	})

	t.Run("restores a session with a forced refresh", func(t *testing.T) {
		provider := newTestProvider(t)
		tokens := &memStore{}
		mgr := NewManager(provider, &fakeBackend{teacherID: "t1"}, tokens, nil)

		if _, err := mgr.Login(ctx, "awe@test.cd", "mdr"); err != nil {
			t.Fatalf("Login() failed: %v", err)
		}

		// simulate next run: same provider session and persisted token
		mgr2 := NewManager(provider, &fakeBackend{teacherID: "t1"}, tokens, nil)
		sess, err := mgr2.RevalidateOnStartup(ctx)
		if err != nil {
			t.Fatalf("RevalidateOnStartup() failed: %v", err)
		}
		if !sess.IsValid || sess.TeacherID != "t1" {
			t.Errorf("RevalidateOnStartup() session = %+v", sess)
		}
		if provider.refreshCount != 2 { // one from login, one forced on startup
			t.Errorf("refreshCount = %d, want 2", provider.refreshCount)
		}
	})

	t.Run("refresh failure clears the persisted token", func(t *testing.T) {
		provider := newTestProvider(t)
		tokens := &memStore{}
		mgr := NewManager(provider, &fakeBackend{teacherID: "t1"}, tokens, nil)

		if _, err := mgr.Login(ctx, "awe@test.cd", "mdr"); err != nil {
			t.Fatalf("Login() failed: %v", err)
		}
		provider.refreshErr = core.NewAuthError(400, "TOKEN_EXPIRED")

		if _, err := mgr.RevalidateOnStartup(ctx); err == nil {
			t.Fatal("RevalidateOnStartup() succeeded with a dead refresh token")
		}
		if persisted, _ := tokens.Read(); persisted != "" {
			t.Errorf("persisted token = %q, want cleared", persisted)
		}
	})
}

func TestManager_Logout(t *testing.T) {
	ctx := context.Background()
	provider := newTestProvider(t)
	tokens := &memStore{}
	mgr := NewManager(provider, &fakeBackend{teacherID: "t1"}, tokens, nil)

	if _, err := mgr.Login(ctx, "awe@test.cd", "mdr"); err != nil {
		t.Fatalf("Login() failed: %v", err)
	}

	mgr.Logout()

	if _, ok := mgr.Current(); ok {
		t.Error("Current() reports a session after logout")
	}
	if persisted, _ := tokens.Read(); persisted != "" {
		t.Errorf("persisted token = %q, want cleared", persisted)
	}
	if _, ok := provider.CurrentCredential(); ok {
		t.Error("provider still holds a credential after logout")
	}
}
