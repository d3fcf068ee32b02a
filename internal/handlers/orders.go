package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sol1corejz/greenmart/internal/logger"
	"github.com/sol1corejz/greenmart/internal/middleware"
	"github.com/sol1corejz/greenmart/internal/progression"
	"github.com/sol1corejz/greenmart/internal/session"
	"go.uber.org/zap"
)

type OrderRequest struct {
	ProductID string `json:"productId"`
}

// CreateOrderHandler buys one unit of a listing and records it against the
// caller's statistics. Stock is put back when the purchase cannot be recorded.
func (h *Handler) CreateOrderHandler(c *fiber.Ctx) error {
	var request OrderRequest
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := c.BodyParser(&request); err != nil || request.ProductID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	s := middleware.CurrentSession(c)
	if !s.Active() {
		return respondError(c, session.ErrNoActiveSession)
	}

	product, err := h.Catalog.Purchase(ctx, request.ProductID)
	if err != nil {
		return respondError(c, err)
	}

	earned, err := h.Engine.RecordPurchase(ctx, s, product.Impact())
	if err != nil {
		if restockErr := h.Catalog.Restock(ctx, product.ID); restockErr != nil {
			logger.Log.Error("Failed to restock listing", zap.String("productID", product.ID), zap.Error(restockErr))
		}
		return respondError(c, err)
	}

	snap := h.Engine.View(s)

	var newBadge *progression.BadgeStatus
	for i := range snap.Badges {
		if snap.Badges[i].ID == earned {
			newBadge = &snap.Badges[i]
			break
		}
	}

	logger.Log.Info("Order placed", zap.String("email", s.Email()), zap.String("productID", product.ID))

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Order placed",
		"product":  product,
		"newBadge": newBadge,
		"stats":    snap,
	})
}
