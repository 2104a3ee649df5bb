package apiclient

import (
	"context"
	"errors"
	"net/http"

	"github.com/hotelops/hms-console/internal/core/domain"
)

const (
	msgLoginFailed  = "Login failed"
	msgSignupFailed = "Signup failed"
	msgSignupError  = "Error during signup"

	// usernameTakenText is the exact error text the API returns for a taken
	// username on /register.
	usernameTakenText = "Username already exists"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// AuthAPI implements ports.AuthGateway over a Client.
type AuthAPI struct {
	c *Client
}

func NewAuthAPI(c *Client) *AuthAPI {
	return &AuthAPI{c: c}
}

// Login posts the credentials and returns the issued token.
func (a *AuthAPI) Login(ctx context.Context, username, password string) (string, error) {
	var resp loginResponse
	err := a.c.Do(ctx, http.MethodPost, "/login", credentials{Username: username, Password: password}, &resp)
	if err != nil {
		return "", &domain.AuthError{Op: "login", Status: statusOf(err), Message: msgLoginFailed, Err: err}
	}
	if resp.Token == "" {
		return "", &domain.AuthError{
			Op:      "login",
			Status:  http.StatusOK,
			Message: msgLoginFailed,
			Err:     errors.New("login response carried no token"),
		}
	}
	return resp.Token, nil
}

// Register creates an account. It does not log in.
func (a *AuthAPI) Register(ctx context.Context, username, password string) error {
	err := a.c.Do(ctx, http.MethodPost, "/register", credentials{Username: username, Password: password}, nil)
	if err == nil {
		return nil
	}

	var se *statusError
	if !errors.As(err, &se) {
		return &domain.AuthError{Op: "register", Message: msgSignupError, Err: err}
	}
	if se.Message == usernameTakenText {
		return &domain.AuthError{Op: "register", Status: se.Status, Message: se.Message, Err: domain.ErrUsernameTaken}
	}
	msg := se.Message
	if msg == "" {
		msg = msgSignupFailed
	}
	return &domain.AuthError{Op: "register", Status: se.Status, Message: msg, Err: err}
}

func statusOf(err error) int {
	var se *statusError
	if errors.As(err, &se) {
		return se.Status
	}
	return 0
}
