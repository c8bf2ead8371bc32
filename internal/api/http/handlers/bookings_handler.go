package handlers

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/marketplace-service/internal/api/dto"
	"github.com/spec-kit/marketplace-service/internal/auth"
	"github.com/spec-kit/marketplace-service/internal/domain"
	"github.com/spec-kit/marketplace-service/internal/service"
)

// BookingsHandler exposes booking and review endpoints.
type BookingsHandler struct {
	bookings *service.BookingService
}

// NewBookingsHandler constructs the handler.
func NewBookingsHandler(bookings *service.BookingService) *BookingsHandler {
	return &BookingsHandler{bookings: bookings}
}

// Create handles POST /bookings (customer only).
func (h *BookingsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Kind != domain.PrincipalKindCustomer {
		return fiber.NewError(http.StatusForbidden, "customer required")
	}

	var req dto.BookingCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if req.ListingID == "" {
		return fiber.NewError(http.StatusBadRequest, "listing_id required")
	}

	booking, err := h.bookings.CreateBooking(c.Context(), principal.Customer.ID, req.ListingID, req.ScheduledAt, req.Notes)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewBookingResponse(booking)})
}

// List handles GET /bookings, returning the caller's own bookings.
func (h *BookingsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	bookings, err := h.bookings.BookingsFor(c.Context(), principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBookingResponses(bookings)})
}

// Confirm handles POST /bookings/:id/confirm (owning provider).
func (h *BookingsHandler) Confirm(c *fiber.Ctx) error {
	return h.providerTransition(c, h.bookings.ConfirmBooking)
}

// Decline handles POST /bookings/:id/decline (owning provider).
func (h *BookingsHandler) Decline(c *fiber.Ctx) error {
	return h.providerTransition(c, h.bookings.DeclineBooking)
}

// Complete handles POST /bookings/:id/complete (owning provider).
func (h *BookingsHandler) Complete(c *fiber.Ctx) error {
	return h.providerTransition(c, h.bookings.CompleteBooking)
}

// CreateReview handles POST /listings/:id/reviews (customer only).
func (h *BookingsHandler) CreateReview(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Kind != domain.PrincipalKindCustomer {
		return fiber.NewError(http.StatusForbidden, "customer required")
	}

	var req dto.ReviewCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	review, err := h.bookings.SubmitReview(c.Context(), principal.Customer.ID, c.Params("id"), req.Rating, req.Comment)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewReviewResponse(review)})
}

// ListReviews handles GET /listings/:id/reviews.
func (h *BookingsHandler) ListReviews(c *fiber.Ctx) error {
	reviews, err := h.bookings.ReviewsForListing(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewReviewResponses(reviews)})
}

func (h *BookingsHandler) providerTransition(c *fiber.Ctx, fn func(ctx context.Context, providerID, bookingID string) (*domain.Booking, error)) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Kind != domain.PrincipalKindProvider {
		return fiber.NewError(http.StatusForbidden, "provider required")
	}

	booking, err := fn(c.Context(), principal.Provider.ID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewBookingResponse(booking)})
}
