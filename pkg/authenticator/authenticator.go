// Package authenticator verifies logins against a credentials document and
// issues the signed cookie that keeps a browser logged in.
package authenticator

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// MaxLoginAttempts is the number of consecutive failures that locks a session.
const MaxLoginAttempts = 3

var ErrInvalidCredentials = errors.New("username/password is incorrect")

type Identity struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

// Ticket is a successful login: who logged in and the cookie to set.
type Ticket struct {
	Identity   Identity
	CookieName string
	Token      string
	ExpiresAt  time.Time
}

type cookieClaims struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	jwt.RegisteredClaims
}

type Authenticator struct {
	source Source
	now    func() time.Time
}

func New(source Source) *Authenticator {
	return &Authenticator{source: source, now: time.Now}
}

func (a *Authenticator) SourceName() string {
	return a.source.Name()
}

// Login verifies a username/password pair and signs a login cookie.
func (a *Authenticator) Login(ctx context.Context, username, password string) (*Ticket, error) {
	cfg, err := a.source.Load(ctx)
	if err != nil {
		return nil, err
	}

	key := normalizeUsername(username)
	user, ok := cfg.Credentials.Usernames[key]
	if !ok || !checkPassword(user.Password, password) {
		return nil, ErrInvalidCredentials
	}

	identity := Identity{Username: key, Name: user.Name, Email: user.Email}
	expiresAt := a.now().Add(time.Duration(cfg.Cookie.ExpiryDays * float64(24*time.Hour)))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, cookieClaims{
		Username: identity.Username,
		Name:     identity.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(a.now()),
		},
	})
	signed, err := token.SignedString([]byte(cfg.Cookie.Key))
	if err != nil {
		return nil, fmt.Errorf("sign login cookie: %w", err)
	}

	return &Ticket{
		Identity:   identity,
		CookieName: cfg.Cookie.Name,
		Token:      signed,
		ExpiresAt:  expiresAt,
	}, nil
}

// Restore re-authenticates from a login cookie. cookie looks a cookie value
// up by name. A missing, expired or foreign cookie yields (nil, nil).
func (a *Authenticator) Restore(ctx context.Context, cookie func(name string) string) (*Identity, error) {
	cfg, err := a.source.Load(ctx)
	if err != nil {
		return nil, err
	}
	raw := cookie(cfg.Cookie.Name)
	if raw == "" {
		return nil, nil
	}

	var claims cookieClaims
	_, err = jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.Cookie.Key), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(a.now))
	if err != nil {
		return nil, nil
	}

	user, ok := cfg.Credentials.Usernames[claims.Username]
	if !ok {
		return nil, nil
	}
	return &Identity{Username: claims.Username, Name: user.Name, Email: user.Email}, nil
}

// CookieName returns the configured login cookie name.
func (a *Authenticator) CookieName(ctx context.Context) (string, error) {
	cfg, err := a.source.Load(ctx)
	if err != nil {
		return "", err
	}
	return cfg.Cookie.Name, nil
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func isBcryptHash(s string) bool {
	return strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$")
}

func checkPassword(stored, given string) bool {
	if isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(given)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}
