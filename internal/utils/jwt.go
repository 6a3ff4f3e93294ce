package utils

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	adminRole    = "admin"
	bearerPrefix = "Bearer "
)

var (
	ErrMissingAuthHeader = errors.New("missing or malformed Authorization header")
	ErrInvalidToken      = errors.New("invalid token")
	ErrInvalidClaims     = errors.New("invalid token claims")
	ErrNotAdmin          = errors.New("token is not an admin token")
)

// tokenParser only accepts HS256 tokens that carry an expiry.
var tokenParser = jwt.NewParser(
	jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	jwt.WithExpirationRequired(),
)

// parseJWT is replaced in tests.
var parseJWT = func(raw string, secret []byte) (*jwt.Token, error) {
	return tokenParser.Parse(raw, func(*jwt.Token) (interface{}, error) { return secret, nil })
}

// IssueAdminToken signs an admin token for username valid for ttl from now.
func IssueAdminToken(username, secret string, ttl time.Duration, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(ttl)
	claims := jwt.MapClaims{
		"sub":  username,
		"role": adminRole,
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	raw := strings.TrimSpace(header[len(bearerPrefix):])
	return raw, raw != ""
}

// VerifyToken checks the bearer token on r against secret and returns its
// claims.
func VerifyToken(r *http.Request, secret string) (jwt.MapClaims, error) {
	raw, ok := bearerToken(r)
	if !ok {
		return nil, ErrMissingAuthHeader
	}
	token, err := parseJWT(raw, []byte(secret))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidClaims
	}
	return claims, nil
}

// RequireAdminClaims rejects claims whose role is not admin.
func RequireAdminClaims(claims jwt.MapClaims) error {
	if role, _ := claims["role"].(string); role != adminRole {
		return ErrNotAdmin
	}
	return nil
}
