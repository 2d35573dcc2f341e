package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/Fibuc/litrevu/internal/httputil"
	"github.com/Fibuc/litrevu/internal/model"
	"github.com/Fibuc/litrevu/internal/service"
	"github.com/Fibuc/litrevu/internal/transport/http/middleware"
)

type ReviewHandler struct {
	reviewService *service.ReviewService
}

func NewReviewHandler(reviewService *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

// Create handles POST /tickets/{id}/reviews
// A review on a missing ticket is a 404, not a validation failure.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	ticketID, ok := parseIDParam(w, r, "Invalid ticket ID")
	if !ok {
		return
	}

	var req model.CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	review, err := h.reviewService.Create(r.Context(), ticketID, userID, req)
	if err != nil {
		if errors.Is(err, model.ErrTicketNotFound) {
			httputil.WriteNotFound(w, "Ticket not found")
			return
		}
		if writeReviewValidationError(w, err) {
			return
		}
		log.Printf("[ERROR] CreateReview handler: ticket=%d user=%d err=%v", ticketID, userID, err)
		httputil.WriteInternalError(w, "Failed to create review")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, review)
}

// Get handles GET /reviews/{id}
func (h *ReviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	reviewID, ok := parseIDParam(w, r, "Invalid review ID")
	if !ok {
		return
	}

	review, err := h.reviewService.GetByID(r.Context(), reviewID)
	if err != nil {
		if errors.Is(err, model.ErrReviewNotFound) {
			httputil.WriteNotFound(w, "Review not found")
			return
		}
		log.Printf("[ERROR] GetReview handler: review=%d err=%v", reviewID, err)
		httputil.WriteInternalError(w, "Failed to get review")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, review)
}

// Update handles PUT /reviews/{id}
// Author-only; anyone else gets 403.
func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	reviewID, ok := parseIDParam(w, r, "Invalid review ID")
	if !ok {
		return
	}

	var req model.UpdateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	review, err := h.reviewService.Update(r.Context(), reviewID, userID, req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrReviewNotFound):
			httputil.WriteNotFound(w, "Review not found")
		case errors.Is(err, model.ErrNotReviewOwner):
			httputil.WriteForbidden(w, "Only the review author can update it")
		default:
			if writeReviewValidationError(w, err) {
				return
			}
			log.Printf("[ERROR] UpdateReview handler: review=%d user=%d err=%v", reviewID, userID, err)
			httputil.WriteInternalError(w, "Failed to update review")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, review)
}

// Delete handles DELETE /reviews/{id}
// Author-only.
func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	reviewID, ok := parseIDParam(w, r, "Invalid review ID")
	if !ok {
		return
	}

	if err := h.reviewService.Delete(r.Context(), reviewID, userID); err != nil {
		switch {
		case errors.Is(err, model.ErrReviewNotFound):
			httputil.WriteNotFound(w, "Review not found")
		case errors.Is(err, model.ErrNotReviewOwner):
			httputil.WriteForbidden(w, "Only the review author can delete it")
		default:
			log.Printf("[ERROR] DeleteReview handler: review=%d user=%d err=%v", reviewID, userID, err)
			httputil.WriteInternalError(w, "Failed to delete review")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Review deleted",
	})
}

// writeReviewValidationError maps review field errors onto 400s carrying the
// originating field. Reports whether the error was handled.
func writeReviewValidationError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, model.ErrRatingRequired):
		httputil.WriteValidationFailed(w, "rating", "Rating is required")
	case errors.Is(err, model.ErrRatingOutOfRange):
		httputil.WriteValidationFailed(w, "rating", "Rating must be between 0 and 5")
	case errors.Is(err, model.ErrHeadlineRequired):
		httputil.WriteValidationFailed(w, "headline", "Headline is required")
	case errors.Is(err, model.ErrHeadlineTooLong):
		httputil.WriteValidationFailed(w, "headline", "Headline must be at most 128 characters")
	case errors.Is(err, model.ErrBodyTooLong):
		httputil.WriteValidationFailed(w, "body", "Body must be at most 8192 characters")
	default:
		return false
	}
	return true
}
