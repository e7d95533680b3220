package middleware

import "github.com/labstack/echo/v4"

// Context keys used to store authentication metadata.
const (
	ContextKeyUserID    = "user_id"
	ContextKeyUserEmail = "user_email"
	ContextKeyUserRole  = "user_role"
	ContextKeyActor     = "actor"
	ContextKeyRequestID = "request_id"
)

// ActorFromContext returns the authenticated actor recorded by JWT, or "".
func ActorFromContext(c echo.Context) string {
	actor, _ := c.Get(ContextKeyActor).(string)
	return actor
}
