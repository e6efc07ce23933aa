// Package session keeps the backend access token between cli invocations.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	dirName  = "doc-matcher"
	fileName = "session.json"
)

// ErrNoSession is returned when nobody has logged in yet.
var ErrNoSession = errors.New("not logged in")

type Role int

const (
	RoleUnknown        Role = 0
	RoleRecruiter      Role = 1
	RoleAccountManager Role = 2
)

func (r Role) String() string {
	switch r {
	case RoleRecruiter:
		return "recruiter"
	case RoleAccountManager:
		return "account manager"
	default:
		return "unknown"
	}
}

// ParseRole accepts the numeric role ids used by the backend and their names.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "recruiter":
		return RoleRecruiter, nil
	case "2", "ar", "account-manager", "account manager":
		return RoleAccountManager, nil
	default:
		return RoleUnknown, fmt.Errorf("unknown role %q", s)
	}
}

type Session struct {
	Token   string    `json:"token"`
	Email   string    `json:"email"`
	Role    Role      `json:"role"`
	SavedAt time.Time `json:"saved_at"`
}

// Store persists a single session as a json file readable only by the owner.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultPath is session.json under the user config directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}

	return filepath.Join(dir, dirName, fileName), nil
}

func (s *Store) Path() string {
	return s.path
}

func (s *Store) Load() (*Session, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("read session %q: %w", s.path, err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("parse session %q: %w", s.path, err)
	}

	if strings.TrimSpace(session.Token) == "" {
		return nil, ErrNoSession
	}

	return &session, nil
}

func (s *Store) Save(session *Session) error {
	if session == nil || strings.TrimSpace(session.Token) == "" {
		return errors.New("session token is required")
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	if session.SavedAt.IsZero() {
		session.SavedAt = time.Now().UTC()
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return err
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write session %q: %w", s.path, err)
	}

	return nil
}

// Clear removes the stored session. Clearing a missing session is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove session %q: %w", s.path, err)
	}

	return nil
}

// RoleFromToken reads the "role" claim of the access token. The signature is
// not verified: the backend does that on every request.
func RoleFromToken(token string) (Role, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return RoleUnknown, fmt.Errorf("parse access token: %w", err)
	}

	switch v := claims["role"].(type) {
	case float64:
		return Role(int(v)), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return RoleUnknown, fmt.Errorf("unexpected role claim %q", v)
		}
		return Role(n), nil
	case nil:
		return RoleUnknown, nil
	default:
		return RoleUnknown, fmt.Errorf("unexpected role claim type %T", v)
	}
}

// Expired reports whether the token's exp claim is in the past. Tokens
// without exp never expire client-side.
func Expired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}

	return exp.Before(now)
}
