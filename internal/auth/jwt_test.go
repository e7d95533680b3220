package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestJWTManager_GenerateAndParse(t *testing.T) {
	manager := NewJWTManager("secret", time.Hour)
	token, err := manager.GenerateToken("user-1", "rep@example.com", "admin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := manager.ParseToken(token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Subject != "user-1" || claims.Email != "rep@example.com" || claims.Role != "admin" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Issuer != Issuer {
		t.Fatalf("expected issuer %q, got %q", Issuer, claims.Issuer)
	}
	if claims.Actor() != "rep@example.com" {
		t.Fatalf("expected email as actor, got %q", claims.Actor())
	}

	if _, err := manager.ParseToken(token + "tampered"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for tampered token, got %v", err)
	}
}

func TestJWTManager_Rejects(t *testing.T) {
	manager := NewJWTManager("secret", time.Minute)

	tests := map[string]func() string{
		"expired": func() string {
			issuer := NewJWTManager("secret", time.Minute)
			issuer.now = func() time.Time { return time.Now().Add(-time.Hour) }
			token, _ := issuer.GenerateToken("user-1", "rep@example.com", "sales")
			return token
		},
		"other secret": func() string {
			token, _ := NewJWTManager("other", time.Minute).GenerateToken("user-1", "rep@example.com", "sales")
			return token
		},
		"foreign issuer": func() string {
			claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "someone-else",
				Subject:   "user-1",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
			}}
			token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
			return token
		},
		"no expiry": func() string {
			claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{Issuer: Issuer, Subject: "user-1"}}
			token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
			return token
		},
		"wrong algorithm": func() string {
			claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    Issuer,
				Subject:   "user-1",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
			}}
			token, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
			return token
		},
	}

	for name, build := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := manager.ParseToken(build()); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestClaims_ActorFallsBackToSubject(t *testing.T) {
	claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "user-7"}}
	if claims.Actor() != "user-7" {
		t.Fatalf("expected subject fallback, got %q", claims.Actor())
	}
}

func TestJWTManager_EmptySecret(t *testing.T) {
	manager := NewJWTManager("", time.Hour)
	if _, err := manager.GenerateToken("user", "user@example.com", "sales"); err == nil {
		t.Fatalf("expected error when secret is empty")
	}
}
