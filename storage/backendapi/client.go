package backendapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"io/ioutil"
	"net/http"

	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/session"
)

// Client performs the backend's authenticated operations with a uniform
// bearer-token attachment policy: the token is read from the store and
// attached on every request; callers never manage headers. An empty token
// slot fails fast with an auth error, no network request.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  session.TokenStore
}

func NewClient(conf *core.Config, tokens session.TokenStore) *Client {
	return &Client{
		baseURL: conf.Backend.BaseURL,
		http:    &http.Client{Timeout: conf.Backend.Timeout},
		tokens:  tokens,
	}
}

// errorBody is the backend's structured error field.
type errorBody struct {
	Error string `json:"error"`
}

// do performs an authenticated request, JSON-encoding body (if any) and
// decoding the response into out (if non-nil).
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	token, err := c.tokens.Read()
	if err != nil {
		return errors.Wrap(err, "reading token slot")
	}
	if token == "" {
		return core.NewAuthError(0, "not authenticated")
	}
	return c.doWithToken(ctx, token, method, path, body, out)
}

// doWithToken is the semi-authenticated variant for login validation, where
// the token was just obtained and no session formally exists yet.
func (c *Client) doWithToken(ctx context.Context, token, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encoding request body")
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := c.http.Do(req)
	if err != nil {
		return core.NewNetworkError(err)
	}
	defer res.Body.Close()

	resBody, err := ioutil.ReadAll(res.Body)
	if err != nil {
		return core.NewNetworkError(err)
	}

	if res.StatusCode >= http.StatusBadRequest {
		return mapStatusError(res.StatusCode, resBody)
	}
	if out == nil || len(bytes.TrimSpace(resBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(resBody, out); err != nil {
		return core.NewServerError(res.StatusCode, "unexpected response shape", err)
	}
	return nil
}

// mapStatusError surfaces the taxonomy: 401/403 auth, other 4xx validation
// with the server's message, 5xx server.
func mapStatusError(status int, body []byte) error {
	msg := serverMessage(body)
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		if msg == "" {
			msg = "not authorized"
		}
		return core.NewAuthError(status, msg)
	case status < http.StatusInternalServerError:
		if msg == "" {
			msg = http.StatusText(status)
		}
		return core.NewRemoteValidationError(status, msg)
	default:
		if msg == "" {
			msg = http.StatusText(status)
		}
		return core.NewServerError(status, msg, nil)
	}
}

func serverMessage(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return ""
	}
	return eb.Error
}
