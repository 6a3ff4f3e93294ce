package utils

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestIssueAndVerifyAdminToken(t *testing.T) {
	token, exp, err := IssueAdminToken("admin", "secret", time.Hour, time.Now())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Fatalf("expected future expiry")
	}

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	claims, err := VerifyToken(req, "secret")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if err := RequireAdminClaims(claims); err != nil {
		t.Fatalf("expected admin claims: %v", err)
	}
	if claims["sub"] != "admin" {
		t.Fatalf("unexpected sub: %v", claims["sub"])
	}
}

func TestVerifyTokenMissingHeader(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if _, err := VerifyToken(req, "secret"); !errors.Is(err, ErrMissingAuthHeader) {
		t.Fatalf("expected ErrMissingAuthHeader, got %v", err)
	}
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	token, _, err := IssueAdminToken("admin", "secret", time.Hour, time.Now())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	if _, err := VerifyToken(req, "other"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyTokenExpired(t *testing.T) {
	token, _, err := IssueAdminToken("admin", "secret", time.Minute, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	if _, err := VerifyToken(req, "secret"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyTokenInvalidClaims(t *testing.T) {
	orig := parseJWT
	defer func() { parseJWT = orig }()
	parseJWT = func(string, []byte) (*jwt.Token, error) {
		return &jwt.Token{Valid: true, Claims: jwt.RegisteredClaims{}}, nil
	}

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer whatever")
	if _, err := VerifyToken(req, "secret"); !errors.Is(err, ErrInvalidClaims) {
		t.Fatalf("expected ErrInvalidClaims, got %v", err)
	}
}

func TestVerifyTokenRejectsOtherAlgorithms(t *testing.T) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	if _, err := VerifyToken(req, "secret"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyTokenRequiresExpiry(t *testing.T) {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"role": "admin"}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	if _, err := VerifyToken(req, "secret"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestRequireAdminClaimsRejectsOtherRoles(t *testing.T) {
	if err := RequireAdminClaims(jwt.MapClaims{"role": "user"}); !errors.Is(err, ErrNotAdmin) {
		t.Fatalf("expected ErrNotAdmin, got %v", err)
	}
}
