package identitysvc

import (
	"bytes"
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/session"
)

// httpProvider talks to the hosted identity provider's REST surface:
// password sign-in and refresh-token exchange. It keeps the last credential
// in memory as the "live provider session" consulted on startup.
type httpProvider struct {
	baseURL string
	apiKey  string
	http    *http.Client

	mu      sync.Mutex
	current session.Credential
	haveCur bool
}

var _ session.Provider = (*httpProvider)(nil)

func NewHTTPProvider(conf *core.Config) *httpProvider {
	return &httpProvider{
		baseURL: conf.Identity.BaseURL,
		apiKey:  conf.Identity.APIKey,
		http:    &http.Client{Timeout: conf.Identity.Timeout},
	}
}

type (
	signInRequest struct {
		Email             string `json:"email"`
		Password          string `json:"password"`
		ReturnSecureToken bool   `json:"returnSecureToken"`
	}

	signInResponse struct {
		IDToken      string `json:"idToken"`
		RefreshToken string `json:"refreshToken"`
		LocalID      string `json:"localId"`
		Email        string `json:"email"`
	}

	refreshRequest struct {
		GrantType    string `json:"grant_type"`
		RefreshToken string `json:"refresh_token"`
	}

	refreshResponse struct {
		IDToken      string `json:"id_token"`
		RefreshToken string `json:"refresh_token"`
	}

	providerError struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
)

func (p *httpProvider) SignIn(ctx context.Context, email, password string) (session.Credential, error) {
	req := signInRequest{Email: email, Password: password, ReturnSecureToken: true}
	var res signInResponse
	if err := p.post(ctx, "/v1/accounts:signInWithPassword", req, &res); err != nil {
		return session.Credential{}, err
	}

	cred := session.Credential{
		UserID:       res.LocalID,
		Email:        res.Email,
		IDToken:      res.IDToken,
		RefreshToken: res.RefreshToken,
	}
	if cred.Email == "" {
		cred.Email = email
	}
	p.mu.Lock()
	p.current, p.haveCur = cred, true
	p.mu.Unlock()
	return cred, nil
}

func (p *httpProvider) FreshIDToken(ctx context.Context, cred session.Credential, forceRefresh bool) (string, error) {
	if !forceRefresh && cred.IDToken != "" {
		return cred.IDToken, nil
	}

	req := refreshRequest{GrantType: "refresh_token", RefreshToken: cred.RefreshToken}
	var res refreshResponse
	if err := p.post(ctx, "/v1/token", req, &res); err != nil {
		return "", err
	}
	if res.IDToken == "" {
		return "", core.NewServerError(http.StatusOK, "identity provider returned no token", nil)
	}

	p.mu.Lock()
	if p.haveCur && p.current.UserID == cred.UserID {
		p.current.IDToken = res.IDToken
		if res.RefreshToken != "" {
			p.current.RefreshToken = res.RefreshToken
		}
	}
	p.mu.Unlock()
	return res.IDToken, nil
}

func (p *httpProvider) CurrentCredential() (session.Credential, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current, p.haveCur
}

func (p *httpProvider) SignOut() {
	p.mu.Lock()
	p.current, p.haveCur = session.Credential{}, false
	p.mu.Unlock()
}

func (p *httpProvider) post(ctx context.Context, path string, body, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return errors.Wrap(err, "encoding request body")
	}

	url := p.baseURL + path + "?key=" + p.apiKey
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := p.http.Do(req)
	if err != nil {
		return core.NewNetworkError(err)
	}
	defer res.Body.Close()

	resBody, err := ioutil.ReadAll(res.Body)
	if err != nil {
		return core.NewNetworkError(err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		msg := "authentication failed"
		var pErr providerError
		if err := json.Unmarshal(resBody, &pErr); err == nil && pErr.Error.Message != "" {
			msg = pErr.Error.Message
		}
		if res.StatusCode >= http.StatusInternalServerError {
			return core.NewServerError(res.StatusCode, msg, nil)
		}
		return core.NewAuthError(res.StatusCode, msg)
	}
	if err := json.Unmarshal(resBody, out); err != nil {
		return core.NewServerError(res.StatusCode, "unexpected response shape", err)
	}
	return nil
}
