package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sol1corejz/greenmart/internal/auth"
	"github.com/sol1corejz/greenmart/internal/logger"
	"github.com/sol1corejz/greenmart/internal/middleware"
	"github.com/sol1corejz/greenmart/internal/session"
	"go.uber.org/zap"
)

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) RegisterHandler(c *fiber.Ctx) error {
	var request RegisterRequest
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	s, err := h.Sessions.SignUp(ctx, request.Email, request.Password, request.Name)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.issueToken(c, s); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    h.Engine.View(s),
	})
}

func (h *Handler) LoginHandler(c *fiber.Ctx) error {
	var request LoginRequest
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	s, err := h.Sessions.SignIn(ctx, request.Email, request.Password)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.issueToken(c, s); err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "User authorized successfully",
		"user":    h.Engine.View(s),
	})
}

func (h *Handler) LogoutHandler(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	s := middleware.CurrentSession(c)
	sessionID := s.ID()

	if err := h.Sessions.SignOut(ctx, s); err != nil {
		return respondError(c, err)
	}

	revoked := h.Tokens.RevokeSession(sessionID)
	logger.Log.Debug("Tokens revoked", zap.String("sessionID", sessionID), zap.Int("count", revoked))

	c.ClearCookie("jwt")

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "User signed out successfully",
	})
}

func (h *Handler) issueToken(c *fiber.Ctx, s *session.Session) error {
	token, err := auth.GenerateToken(s.ID(), s.Email())
	if err != nil {
		logger.Log.Error("Error generating token: ", zap.Error(err))
		return err
	}

	h.Tokens.AddToken(token, s.ID())

	c.Cookie(&fiber.Cookie{
		Name:     "jwt",
		Value:    token,
		Expires:  time.Now().Add(auth.TokenExp),
		HTTPOnly: true,
	})

	c.Set("Authorization", "Bearer "+token)
	return nil
}
