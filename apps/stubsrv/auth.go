package main

import (
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
)

const (
	contextTokenKey = "idToken"
	idTokenTTL      = time.Hour
)

// Claims mirrors the ID-token claims the identity provider issues.
type Claims struct {
	jwt.StandardClaims
	Email  string `json:"email,omitempty"`
	UserID string `json:"user_id,omitempty"`
}

func newJWTConfig(secret string) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(secret),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    contextTokenKey,
		Claims:        new(Claims),
	}
}

func newAccountClaims(appName string, acc account) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    appName,
			Subject:   acc.TeacherID,
			ExpiresAt: now.Add(idTokenTTL).Unix(),
			IssuedAt:  now.Unix(),
		},
		Email:  acc.Email,
		UserID: acc.TeacherID,
	}
}

// generateToken generates a signed JWT token string representing the account Claims.
func generateToken(claims *Claims, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.GetSigningMethod(middleware.AlgorithmHS256), claims)
	ss, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

// identityApi mimics the hosted identity provider's password sign-in and
// refresh-token endpoints, issuing HS256 dev tokens.
type identityApi struct {
	conf  *core.Config
	store *memoryStore
}

func registerIdentityAPI(app *echo.Echo, conf *core.Config, store *memoryStore) {
	api := identityApi{conf: conf, store: store}

	// the sign-in action name carries a ":"; a single param route matches
	// both it and "token" as whole segments.
	app.POST("/identity/v1/:action", api.dispatch)
}

type (
	signInRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	signInResponse struct {
		IDToken      string `json:"idToken"`
		RefreshToken string `json:"refreshToken"`
		LocalID      string `json:"localId"`
		Email        string `json:"email"`
	}

	refreshRequest struct {
		GrantType    string `json:"grant_type" validate:"required,eq=refresh_token"`
		RefreshToken string `json:"refresh_token" validate:"required"`
	}

	refreshResponse struct {
		IDToken      string `json:"id_token"`
		RefreshToken string `json:"refresh_token"`
	}

	identityError struct {
		Error identityErrorBody `json:"error"`
	}
	identityErrorBody struct {
		Message string `json:"message"`
	}
)

func (api *identityApi) dispatch(ctx echo.Context) error {
	switch ctx.Param("action") {
	case "accounts:signInWithPassword":
		return api.signIn(ctx)
	case "token":
		return api.refresh(ctx)
	}
	return errHttpNotFound
}

func (api *identityApi) signIn(ctx echo.Context) error {
	var data signInRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to signInRequest")
	}
	if err := core.Validate.Struct(&data); err != nil {
		return err
	}

	acc, ok := api.store.findAccount(data.Email)
	if !ok || acc.Password != data.Password {
		return api.providerError(ctx, "INVALID_LOGIN_CREDENTIALS")
	}

	token, err := generateToken(newAccountClaims(api.conf.AppName, acc), api.conf.Server.SecretKey)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, signInResponse{
		IDToken:      token,
		RefreshToken: refreshTokenFor(acc),
		LocalID:      acc.TeacherID,
		Email:        acc.Email,
	})
}

func (api *identityApi) refresh(ctx echo.Context) error {
	var data refreshRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to refreshRequest")
	}
	if err := core.Validate.Struct(&data); err != nil {
		return err
	}

	acc, ok := api.store.findAccountByRefreshToken(data.RefreshToken)
	if !ok {
		return api.providerError(ctx, "INVALID_REFRESH_TOKEN")
	}

	token, err := generateToken(newAccountClaims(api.conf.AppName, acc), api.conf.Server.SecretKey)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}
	return ctx.JSON(http.StatusOK, refreshResponse{
		IDToken:      token,
		RefreshToken: refreshTokenFor(acc),
	})
}

// providerError replies in the provider's error envelope instead of ours so
// the client's identity service can surface the message as-is.
func (api *identityApi) providerError(ctx echo.Context, msg string) error {
	return ctx.JSON(http.StatusBadRequest, identityError{Error: identityErrorBody{Message: msg}})
}

// refreshTokenFor derives a stable opaque refresh token for a dev account.
func refreshTokenFor(acc account) string {
	return "refresh-" + acc.TeacherID
}

func (s *memoryStore) findAccountByRefreshToken(token string) (account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acc := range s.accounts {
		if refreshTokenFor(acc) == token {
			return acc, true
		}
	}
	return account{}, false
}
