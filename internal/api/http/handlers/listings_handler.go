package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace-service/internal/api/dto"
	"github.com/spec-kit/marketplace-service/internal/auth"
	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/service"
)

// ListingsHandler exposes listing CRUD endpoints.
type ListingsHandler struct {
	listings *service.ListingService
}

// NewListingsHandler constructs the handler.
func NewListingsHandler(listings *service.ListingService) *ListingsHandler {
	return &ListingsHandler{listings: listings}
}

// Browse handles GET /listings.
func (h *ListingsHandler) Browse(c *fiber.Ctx) error {
	listings, err := h.listings.BrowseListings(c.Context(), c.Query("category"), c.Query("provider_id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewListingResponses(listings)})
}

// Get handles GET /listings/:id.
func (h *ListingsHandler) Get(c *fiber.Ctx) error {
	listing, err := h.listings.GetListing(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewListingResponse(listing)})
}

// Create handles POST /listings (provider only).
func (h *ListingsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Kind != domain.PrincipalKindProvider {
		return fiber.NewError(http.StatusForbidden, "provider required")
	}

	var req dto.ListingCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	listing, err := h.listings.CreateListing(c.Context(), principal.Provider.ID, req.Title, req.Description, req.Category, req.PriceCents)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewListingResponse(listing)})
}

// Update handles PUT /listings/:id (owning provider only).
func (h *ListingsHandler) Update(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Kind != domain.PrincipalKindProvider {
		return fiber.NewError(http.StatusForbidden, "provider required")
	}

	var req dto.ListingUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	listing, err := h.listings.UpdateListing(c.Context(), principal.Provider.ID, c.Params("id"), func(l *domain.Listing) {
		if req.Title != nil {
			l.Title = *req.Title
		}
		if req.Description != nil {
			l.Description = *req.Description
		}
		if req.Category != nil {
			l.Category = *req.Category
		}
		if req.PriceCents != nil {
			l.PriceCents = *req.PriceCents
		}
		if req.Active != nil {
			l.Active = *req.Active
		}
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewListingResponse(listing)})
}

// Delete handles DELETE /listings/:id (admin only, gated at the route).
func (h *ListingsHandler) Delete(c *fiber.Ctx) error {
	if err := h.listings.DeleteListing(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
