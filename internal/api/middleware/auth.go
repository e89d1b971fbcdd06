package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/chismoso/checkin-api/internal/api/metrics"
	"github.com/chismoso/checkin-api/internal/core/auth"
	"github.com/chismoso/checkin-api/internal/core/domain"
)

// Context keys under which Authenticate stores its outcome. Exported so
// handler tests can seed a decision without running the middleware.
const (
	DecisionKey  = "authz_decision"
	PresentedKey = "authz_presented"
)

// maxPeekBytes bounds how much of a request body is read looking for the
// legacy adminEmail field.
const maxPeekBytes = 1 << 20

// Authenticate resolves the caller's authorization decision for a surface
// and stores it on the context. It never rejects by itself; pair it with
// RequireUser or RequireAdmin. A directory outage propagates as
// domain.ErrUnavailable and becomes a 500, not a misleading 401.
func Authenticate(policy *auth.Policy, surface auth.Surface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			creds := extractCredentials(c)

			decision, err := policy.Authorize(c.Request().Context(), creds, surface)
			if err != nil {
				return err
			}
			metrics.AuthzDecisionsTotal.WithLabelValues(levelLabel(decision.Level), strategyLabel(decision.Strategy)).Inc()

			c.Set(DecisionKey, decision)
			c.Set(PresentedKey, creds.Token != "" || creds.AdminEmail != "")
			return next(c)
		}
	}
}

// Decision returns the decision stored by Authenticate. The zero decision
// (anonymous) is returned when Authenticate did not run.
func Decision(c echo.Context) auth.Decision {
	if d, ok := c.Get(DecisionKey).(auth.Decision); ok {
		return d
	}
	return auth.Decision{}
}

// RequireUser admits only callers with a resolved identity. A verified
// token whose subject no longer exists is a 404, anything else a 401.
func RequireUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		d := Decision(c)
		if d.User != nil {
			return next(c)
		}
		if d.SubjectID != 0 {
			return domain.ErrUserNotFound
		}
		return domain.ErrInvalidToken
	}
}

// RequireAdmin admits only admin-level decisions. A caller that presented
// some credential but fell short is forbidden (403); a caller that
// presented nothing usable is unauthenticated (401).
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		d := Decision(c)
		if d.Admin() {
			return next(c)
		}
		presented, _ := c.Get(PresentedKey).(bool)
		if d.User != nil || presented {
			return domain.ErrForbidden
		}
		return domain.ErrInvalidToken
	}
}

// extractCredentials gathers the bearer token and the legacy admin-email
// signal. A missing or malformed Authorization header means "no token",
// never an error. The admin email may arrive as an X-Admin-Email header,
// an adminEmail query parameter, or an adminEmail field in a JSON body
// (the transports the legacy clients use).
func extractCredentials(c echo.Context) auth.Credentials {
	var creds auth.Credentials

	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if parts := strings.SplitN(header, " ", 2); len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		creds.Token = strings.TrimSpace(parts[1])
	}

	creds.AdminEmail = c.Request().Header.Get("X-Admin-Email")
	if creds.AdminEmail == "" {
		creds.AdminEmail = c.QueryParam("adminEmail")
	}
	if creds.AdminEmail == "" {
		creds.AdminEmail = peekAdminEmail(c)
	}
	return creds
}

// peekAdminEmail reads the adminEmail field out of a JSON body and puts
// the body back so the handler can still bind it.
func peekAdminEmail(c echo.Context) string {
	req := c.Request()
	if req.Body == nil || !strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		return ""
	}

	body, err := io.ReadAll(io.LimitReader(req.Body, maxPeekBytes))
	_ = req.Body.Close()
	req.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil {
		return ""
	}

	var payload struct {
		AdminEmail string `json:"adminEmail"`
	}
	if json.Unmarshal(body, &payload) != nil {
		return ""
	}
	return payload.AdminEmail
}

func levelLabel(l auth.Level) string {
	switch l {
	case auth.LevelAdmin:
		return "admin"
	case auth.LevelUser:
		return "user"
	default:
		return "anonymous"
	}
}

func strategyLabel(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
