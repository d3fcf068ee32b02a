package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sol1corejz/greenmart/internal/catalog"
	"github.com/sol1corejz/greenmart/internal/logger"
	"github.com/sol1corejz/greenmart/internal/middleware"
	"github.com/sol1corejz/greenmart/internal/progression"
	"github.com/sol1corejz/greenmart/internal/session"
	"github.com/sol1corejz/greenmart/internal/tokenstorage"
	"go.uber.org/zap"
)

const RequestTimeout = time.Second * 10

type Handler struct {
	Sessions *session.Manager
	Engine   *progression.Engine
	Catalog  *catalog.Service
	Tokens   *tokenstorage.TokenStorage
}

func New(sessions *session.Manager, engine *progression.Engine, cat *catalog.Service, tokens *tokenstorage.TokenStorage) *Handler {
	return &Handler{
		Sessions: sessions,
		Engine:   engine,
		Catalog:  cat,
		Tokens:   tokens,
	}
}

// Routes mounts every endpoint under /api.
func (h *Handler) Routes(app *fiber.App) {
	api := app.Group("/api")
	auth := middleware.AuthMiddleware(h.Tokens, h.Sessions)

	api.Post("/user/register", h.RegisterHandler)
	api.Post("/user/login", h.LoginHandler)
	api.Get("/products", h.ListProductsHandler)
	api.Post("/products", auth, h.CreateProductHandler)

	user := api.Group("/user", auth)
	user.Post("/logout", h.LogoutHandler)
	user.Get("/stats", h.GetStatsHandler)
	user.Get("/badges", h.GetBadgesHandler)
	user.Post("/badges/ack", h.AcknowledgeBadgeHandler)
	user.Post("/orders", h.CreateOrderHandler)
}

func requestContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), RequestTimeout)
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, session.ErrDuplicateAccount):
		return fiber.StatusConflict
	case errors.Is(err, session.ErrAccountNotFound),
		errors.Is(err, catalog.ErrProductNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, session.ErrInvalidCredentials),
		errors.Is(err, session.ErrNoActiveSession):
		return fiber.StatusUnauthorized
	case errors.Is(err, session.ErrMissingField),
		errors.Is(err, catalog.ErrInvalidListing),
		errors.Is(err, progression.ErrInvalidImpact):
		return fiber.StatusBadRequest
	case errors.Is(err, catalog.ErrSoldOut):
		return fiber.StatusGone
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return fiber.StatusRequestTimeout
	}
	return fiber.StatusInternalServerError
}

func respondError(c *fiber.Ctx, err error) error {
	status := errorStatus(err)

	switch status {
	case fiber.StatusInternalServerError:
		logger.Log.Error("Request failed", zap.String("path", c.Path()), zap.Error(err))
		return c.Status(status).JSON(fiber.Map{
			"error": "Internal server error",
		})
	case fiber.StatusRequestTimeout:
		logger.Log.Warn("Context canceled or timeout exceeded", zap.String("path", c.Path()))
		return c.Status(status).JSON(fiber.Map{
			"error": "Request timed out",
		})
	}

	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}
