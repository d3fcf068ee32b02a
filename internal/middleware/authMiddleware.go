package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/sol1corejz/greenmart/internal/auth"
	"github.com/sol1corejz/greenmart/internal/session"
	"github.com/sol1corejz/greenmart/internal/tokenstorage"
)

const (
	SessionKey = "session"
	TokenKey   = "token"
)

// TokenFromRequest reads the jwt cookie, falling back to a Bearer Authorization header.
func TokenFromRequest(c *fiber.Ctx) string {
	if token := c.Cookies("jwt"); token != "" {
		return token
	}

	header := c.Get(fiber.HeaderAuthorization)
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func AuthMiddleware(tokens *tokenstorage.TokenStorage, sessions *session.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := TokenFromRequest(c)
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		claims, err := auth.ParseToken(tokenString)
		if err != nil {
			tokens.RevokeToken(tokenString)
			msg := "Invalid or expired token"
			if errors.Is(err, auth.ErrInvalidToken) && strings.Contains(err.Error(), "expired") {
				msg = "Token expired"
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": msg,
			})
		}

		sessionID, ok := tokens.CheckToken(tokenString)
		if !ok || sessionID != claims.SessionID {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		s, ok := sessions.Lookup(sessionID)
		if !ok || !s.Active() {
			tokens.RevokeToken(tokenString)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": session.ErrNoActiveSession.Error(),
			})
		}

		c.Locals(SessionKey, s)
		c.Locals(TokenKey, tokenString)

		return c.Next()
	}
}

// CurrentSession returns the session stored by AuthMiddleware.
func CurrentSession(c *fiber.Ctx) *session.Session {
	s, _ := c.Locals(SessionKey).(*session.Session)
	return s
}
