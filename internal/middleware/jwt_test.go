package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/octobees/prospect-crm/internal/auth"
	"github.com/octobees/prospect-crm/internal/entity"
)

func mustToken(t *testing.T, manager *auth.JWTManager, subject, email, role string) string {
	t.Helper()
	token, err := manager.GenerateToken(subject, email, role)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

func TestJWTMiddleware_Rejects(t *testing.T) {
	manager := auth.NewJWTManager("secret", 0)
	foreign := auth.NewJWTManager("another-secret", 0)

	tests := map[string]string{
		"missing header":     "",
		"basic scheme":       "Basic dXNlcjpwYXNz",
		"scheme only":        "Bearer",
		"empty bearer":       "Bearer ",
		"garbage token":      "Bearer invalid",
		"foreign signature":  "Bearer " + mustToken(t, foreign, "u-1", "rep@example.com", entity.RoleSales),
		"token without type": mustToken(t, manager, "u-1", "rep@example.com", entity.RoleSales),
	}

	for name, header := range tests {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/companies", nil)
			if header != "" {
				req.Header.Set(echo.HeaderAuthorization, header)
			}
			rec := httptest.NewRecorder()
			c := echo.New().NewContext(req, rec)

			err := JWT(manager)(func(c echo.Context) error {
				t.Fatalf("next handler must not run")
				return nil
			})(c)
			if err != nil {
				t.Fatalf("middleware returned error: %v", err)
			}
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), `"status":"error"`) {
				t.Fatalf("expected error envelope, got %s", rec.Body.String())
			}
			if ActorFromContext(c) != "" {
				t.Fatalf("expected no actor on rejection, got %q", ActorFromContext(c))
			}
		})
	}
}

func TestJWTMiddleware_SetsActor(t *testing.T) {
	manager := auth.NewJWTManager("secret", 0)

	tests := map[string]struct {
		subject, email, role string
		scheme               string
		expectActor          string
	}{
		"email is the actor": {
			subject: "u-1", email: "rep@example.com", role: entity.RoleSales,
			scheme: "Bearer", expectActor: "rep@example.com",
		},
		"subject without email": {
			subject: "svc-importer", role: entity.RoleAdmin,
			scheme: "Bearer", expectActor: "svc-importer",
		},
		"scheme is case-insensitive": {
			subject: "u-2", email: "lead@example.com", role: entity.RoleAdmin,
			scheme: "bearer", expectActor: "lead@example.com",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/companies", nil)
			req.Header.Set(echo.HeaderAuthorization, tt.scheme+" "+mustToken(t, manager, tt.subject, tt.email, tt.role))
			rec := httptest.NewRecorder()
			c := echo.New().NewContext(req, rec)

			executed := false
			err := JWT(manager)(func(c echo.Context) error {
				executed = true
				return c.NoContent(http.StatusOK)
			})(c)
			if err != nil || !executed {
				t.Fatalf("expected next handler to run, err=%v", err)
			}

			if got := ActorFromContext(c); got != tt.expectActor {
				t.Fatalf("expected actor %q, got %q", tt.expectActor, got)
			}
			if c.Get(ContextKeyUserID) != tt.subject || c.Get(ContextKeyUserRole) != tt.role {
				t.Fatalf("unexpected identity in context: id=%v role=%v", c.Get(ContextKeyUserID), c.Get(ContextKeyUserRole))
			}
		})
	}
}
