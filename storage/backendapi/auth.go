package backendapi

import (
	"context"
	"net/http"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/session"
)

var _ session.BackendValidator = (*Client)(nil)

type (
	loginRequest struct {
		Email string `json:"email"`
	}

	loginResponse struct {
		Teacher struct {
			ID string `json:"id"`
		} `json:"teacher"`
	}
)

// ValidateLogin exchanges a just-obtained ID token for a backend session.
// Called before a Session formally exists, so the token is explicit.
func (c *Client) ValidateLogin(ctx context.Context, email, idToken string) (string, error) {
	var res loginResponse
	if err := c.doWithToken(ctx, idToken, http.MethodPost, "/api/auth/login", loginRequest{Email: email}, &res); err != nil {
		return "", err
	}
	if res.Teacher.ID == "" {
		return "", core.NewServerError(http.StatusOK, "unexpected response shape", nil)
	}
	return res.Teacher.ID, nil
}
