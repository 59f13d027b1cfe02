package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CookieName carries the signed session token on authenticated routes.
const CookieName = "vodhub_auth"

var ErrInvalidCredentials = errors.New("invalid credentials")

type TokenService struct {
	Secret   []byte
	Issuer   string
	Duration time.Duration
}

type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func (ts TokenService) Sign(username string) (string, time.Time, error) {
	exp := time.Now().Add(ts.Duration)

	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.Issuer,
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString(ts.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return s, exp, nil
}

func (ts TokenService) Parse(tokenString string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		// enforce HS256
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return ts.Secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}

// FromRequest extracts and validates the session cookie.
func (ts TokenService) FromRequest(r *http.Request) (*Claims, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil, err
	}
	return ts.Parse(cookie.Value)
}

// Login checks the submitted credentials against the configured site account
// and mints a session token. The site runs single-tenant: one shared password,
// an optional fixed username.
func (ts TokenService) Login(username, password, siteUsername, sitePassword string) (string, time.Time, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		username = siteUsername
	}
	if sitePassword == "" ||
		subtle.ConstantTimeCompare([]byte(password), []byte(sitePassword)) != 1 ||
		subtle.ConstantTimeCompare([]byte(username), []byte(siteUsername)) != 1 {
		return "", time.Time{}, ErrInvalidCredentials
	}
	return ts.Sign(username)
}
