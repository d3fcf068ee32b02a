package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sol1corejz/greenmart/internal/middleware"
)

func (h *Handler) GetStatsHandler(c *fiber.Ctx) error {
	s := middleware.CurrentSession(c)
	return c.Status(fiber.StatusOK).JSON(h.Engine.View(s))
}

func (h *Handler) GetBadgesHandler(c *fiber.Ctx) error {
	snap := h.Engine.View(middleware.CurrentSession(c))

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"badges":           snap.Badges,
		"newlyEarnedBadge": snap.NewlyEarnedBadge,
	})
}

func (h *Handler) AcknowledgeBadgeHandler(c *fiber.Ctx) error {
	if err := h.Engine.Acknowledge(middleware.CurrentSession(c)); err != nil {
		return respondError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
