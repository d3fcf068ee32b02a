package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sol1corejz/greenmart/internal/catalog"
	"github.com/sol1corejz/greenmart/internal/middleware"
)

func parsePrice(c *fiber.Ctx, key string) (float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseFloat(raw, 64)
}

func (h *Handler) ListProductsHandler(c *fiber.Ctx) error {
	ctx, cancel := requestContext(c)
	defer cancel()

	minPrice, err := parsePrice(c, "min")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid min price",
		})
	}
	maxPrice, err := parsePrice(c, "max")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid max price",
		})
	}

	listings, err := h.Catalog.List(ctx, catalog.Filter{
		Category: c.Query("category"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(listings)
}

func (h *Handler) CreateProductHandler(c *fiber.Ctx) error {
	var listing catalog.Listing
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := c.BodyParser(&listing); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	s := middleware.CurrentSession(c)
	listing.SellerID = s.Email()
	listing.SellerName = s.DisplayName()

	product, err := h.Catalog.Create(ctx, listing)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(product)
}
