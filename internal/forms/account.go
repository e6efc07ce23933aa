package forms

import (
	"context"
	"strconv"
	"strings"

	"github.com/spigell/doc-matcher/internal/matcher"
)

const (
	PasswordMismatchMessage = "Passwords do not match"
	SelectRoleMessage       = "Please select a role"

	loginFallback  = "Login failed"
	signupFallback = "Signup failed"
)

var loginMessages = messages{
	"email":    {"*": "Email is required"},
	"password": {"*": "Password is required"},
}

var signupMessages = messages{
	"name":             {"*": "Name is required"},
	"email":            {"*": "Email is required"},
	"password":         {"*": "Password is required"},
	"confirm_password": {"*": PasswordMismatchMessage},
	"role":             {"*": SelectRoleMessage},
}

type LoginForm struct {
	Email    string `form:"email" validate:"required"`
	Password string `form:"password" validate:"required"`
}

type Authenticator interface {
	Login(ctx context.Context, email, password string) (*matcher.Token, error)
}

func (f *LoginForm) Validate() FieldErrors {
	f.Email = strings.TrimSpace(f.Email)
	return check(f, loginMessages)
}

func (f *LoginForm) Submit(ctx context.Context, api Authenticator) (*matcher.Token, error) {
	if errs := f.Validate(); len(errs) > 0 {
		return nil, errs
	}

	token, err := api.Login(ctx, f.Email, f.Password)
	if err != nil {
		return nil, &SubmitError{Message: matcher.DetailOr(err, loginFallback), Err: err}
	}

	return token, nil
}

// SignupForm takes the role as the backend id: "1" for recruiters, "2" for
// account managers.
type SignupForm struct {
	Name            string `form:"name" validate:"required"`
	Email           string `form:"email" validate:"required"`
	Password        string `form:"password" validate:"required"`
	ConfirmPassword string `form:"confirm_password" validate:"eqfield=Password"`
	Role            string `form:"role" validate:"required,oneof=1 2"`
}

type Registrar interface {
	Signup(ctx context.Context, req *matcher.SignupRequest) error
}

func (f *SignupForm) Validate() FieldErrors {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Role = strings.TrimSpace(f.Role)
	return check(f, signupMessages)
}

func (f *SignupForm) Request() *matcher.SignupRequest {
	role, _ := strconv.Atoi(f.Role)
	return &matcher.SignupRequest{
		Name:     f.Name,
		Email:    f.Email,
		Password: f.Password,
		Role:     role,
	}
}

func (f *SignupForm) Submit(ctx context.Context, api Registrar) error {
	if errs := f.Validate(); len(errs) > 0 {
		return errs
	}

	if err := api.Signup(ctx, f.Request()); err != nil {
		return &SubmitError{Message: matcher.DetailOr(err, signupFallback), Err: err}
	}

	return nil
}
