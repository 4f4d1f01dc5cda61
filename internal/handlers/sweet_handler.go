package handlers

import (
	"errors"
	"fmt"
	"log"

	"sweetshop/internal/models"
	"sweetshop/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// SweetHandler handles HTTP requests for the sweet inventory.
type SweetHandler struct {
	service  *services.SweetService
	validate *validator.Validate
}

// NewSweetHandler creates a new SweetHandler.
func NewSweetHandler(service *services.SweetService) *SweetHandler {
	return &SweetHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the sweet routes. authRequired resolves the
// request identity; adminRequired additionally gates on the admin role and
// is always chained after authRequired.
func (h *SweetHandler) RegisterRoutes(router fiber.Router, authRequired, adminRequired fiber.Handler) {
	sweets := router.Group("/sweets")

	sweets.Get("/", h.HandleGetSweets)
	// The search route must be registered before /:id so the term is not
	// parsed as an identifier.
	sweets.Get("/search", h.HandleSearchSweets)
	sweets.Get("/:id", h.HandleGetSweetByID)

	sweets.Post("/:id/purchase", authRequired, h.HandlePurchaseSweet)

	sweets.Post("/", authRequired, adminRequired, h.HandleCreateSweet)
	sweets.Put("/:id", authRequired, adminRequired, h.HandleUpdateSweet)
	sweets.Delete("/:id", authRequired, adminRequired, h.HandleDeleteSweet)
	sweets.Post("/:id/restock", authRequired, adminRequired, h.HandleRestockSweet)
}

// HandleGetSweets retrieves all sweets.
func (h *SweetHandler) HandleGetSweets(c *fiber.Ctx) error {
	sweets, err := h.service.GetAllSweets()
	if err != nil {
		log.Printf("Error getting all sweets: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve sweets",
		})
	}
	return c.JSON(sweets)
}

// HandleSearchSweets filters sweets by a case-insensitive substring match
// against name or category.
func (h *SweetHandler) HandleSearchSweets(c *fiber.Ctx) error {
	sweets, err := h.service.SearchSweets(c.Query("q"))
	if err != nil {
		if errors.Is(err, models.ErrMissingQuery) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Search query required",
			})
		}
		log.Printf("Error searching sweets: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not search sweets",
		})
	}
	if sweets == nil {
		sweets = []models.Sweet{}
	}
	return c.JSON(sweets)
}

// HandleGetSweetByID retrieves a single sweet by its ID.
func (h *SweetHandler) HandleGetSweetByID(c *fiber.Ctx) error {
	sweet, err := h.service.GetSweetByID(c.Params("id"))
	if err != nil {
		return h.sweetError(c, err, "Could not retrieve sweet")
	}
	return c.JSON(sweet)
}

// HandleCreateSweet creates a new sweet. Admin only.
func (h *SweetHandler) HandleCreateSweet(c *fiber.Ctx) error {
	var sweet models.Sweet
	if err := c.BodyParser(&sweet); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	sweet.ID = ""

	if err := h.validate.Struct(sweet); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationMessages(err),
		})
	}

	if err := h.service.CreateSweet(&sweet); err != nil {
		if errors.Is(err, models.ErrDuplicateSweet) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "Sweet with this name and category already exists",
			})
		}
		log.Printf("Error creating sweet: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not create sweet",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(sweet)
}

// HandleUpdateSweet merges the supplied fields onto an existing sweet.
// Admin only.
func (h *SweetHandler) HandleUpdateSweet(c *fiber.Ctx) error {
	var input models.SweetUpdate
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationMessages(err),
		})
	}

	sweet, err := h.service.UpdateSweet(c.Params("id"), &input)
	if err != nil {
		if errors.Is(err, models.ErrDuplicateSweet) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message": "Sweet with this name and category already exists",
			})
		}
		return h.sweetError(c, err, "Could not update sweet")
	}
	return c.JSON(sweet)
}

// HandleDeleteSweet deletes a sweet. Admin only.
func (h *SweetHandler) HandleDeleteSweet(c *fiber.Ctx) error {
	if err := h.service.DeleteSweet(c.Params("id")); err != nil {
		return h.sweetError(c, err, "Could not delete sweet")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"message": "Sweet deleted successfully",
	})
}

// HandlePurchaseSweet decrements the quantity by one for the authenticated
// buyer.
func (h *SweetHandler) HandlePurchaseSweet(c *fiber.Ctx) error {
	sweet, err := h.service.PurchaseSweet(c.Params("id"))
	if err != nil {
		if errors.Is(err, models.ErrOutOfStock) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Out of stock!",
			})
		}
		return h.sweetError(c, err, "Could not purchase sweet")
	}
	return c.JSON(fiber.Map{
		"success":     true,
		"message":     fmt.Sprintf("Purchased 1 %s!", sweet.Name),
		"newQuantity": sweet.Quantity,
	})
}

// RestockRequest represents the request body for restocking.
type RestockRequest struct {
	Quantity int `json:"quantity"`
}

// HandleRestockSweet increments the quantity by the requested amount.
// Admin only.
func (h *SweetHandler) HandleRestockSweet(c *fiber.Ctx) error {
	var req RestockRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	sweet, err := h.service.RestockSweet(c.Params("id"), req.Quantity)
	if err != nil {
		if errors.Is(err, models.ErrInvalidAmount) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Valid quantity required",
			})
		}
		return h.sweetError(c, err, "Could not restock sweet")
	}
	return c.JSON(fiber.Map{
		"success":     true,
		"message":     fmt.Sprintf("Restocked %d %s!", req.Quantity, sweet.Name),
		"newQuantity": sweet.Quantity,
	})
}

// sweetError maps repository errors to 404/500.
func (h *SweetHandler) sweetError(c *fiber.Ctx, err error, fallback string) error {
	if errors.Is(err, models.ErrSweetNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Sweet not found",
		})
	}
	log.Printf("%s: %v", fallback, err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": fallback,
	})
}
