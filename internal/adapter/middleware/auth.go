package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"library-backend/internal/domain/user"
	"library-backend/pkg/token"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

// Context keys set by JWTAuth.
const (
	CtxUserID   = "user_id"
	CtxUsername = "username"
	CtxRole     = "role"
)

// JWTAuth validates the bearer token and stores the caller identity in the context.
func JWTAuth(issuer *token.Issuer) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		TokenLookup: "header:Authorization:Bearer ",
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			return issuer.Parse(auth)
		},
		SuccessHandler: func(c echo.Context) {
			claims, ok := c.Get("user").(*token.Claims)
			if !ok {
				return
			}
			c.Set(CtxUserID, claims.UserID())
			c.Set(CtxUsername, claims.Username)
			c.Set(CtxRole, user.Role(claims.Role))
		},
		ErrorHandler: func(c echo.Context, err error) error {
			msg := "unauthorized"
			if errors.Is(err, token.ErrTokenExpired) {
				msg = token.ErrTokenExpired.Error()
			}
			slog.Warn("auth rejected",
				"req_id", c.Response().Header().Get(echo.HeaderXRequestID),
				"ip", c.RealIP(),
				"err", err)
			return errorJSON(c, http.StatusUnauthorized, "unauthorized", msg)
		},
	})
}

// RequireRole lets the request through only when the caller has one of roles.
func RequireRole(roles ...user.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if UserID(c) == "" {
				return errorJSON(c, http.StatusUnauthorized, "unauthorized", "unauthorized")
			}
			have := RoleOf(c)
			for _, r := range roles {
				if have == r {
					return next(c)
				}
			}
			return errorJSON(c, http.StatusForbidden, "forbidden", "insufficient role")
		}
	}
}

// UserID returns the authenticated user id or "".
func UserID(c echo.Context) string {
	s, _ := c.Get(CtxUserID).(string)
	return s
}

func RoleOf(c echo.Context) user.Role {
	r, _ := c.Get(CtxRole).(user.Role)
	return r
}
