package matcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

const (
	tokenPath  = "/user/token"
	signupPath = "/user/user_details"
)

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     int    `json:"role"`
}

// Login exchanges credentials for an access token using the OAuth2 password form.
func (c *Client) Login(ctx context.Context, email, password string) (*Token, error) {
	form := url.Values{}
	form.Set("username", email)
	form.Set("password", password)

	var token Token
	if err := c.postForm(ctx, c.endpoint(tokenPath), form, &token); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	if token.AccessToken == "" {
		return nil, errors.New("login: backend returned no access token")
	}

	return &token, nil
}

func (c *Client) Signup(ctx context.Context, req *SignupRequest) error {
	if err := c.sendJSON(ctx, http.MethodPost, c.endpoint(signupPath), req, nil); err != nil {
		return fmt.Errorf("signup: %w", err)
	}

	return nil
}
