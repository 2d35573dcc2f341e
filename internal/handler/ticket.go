package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Fibuc/litrevu/internal/httputil"
	"github.com/Fibuc/litrevu/internal/model"
	"github.com/Fibuc/litrevu/internal/service"
	"github.com/Fibuc/litrevu/internal/transport/http/middleware"
)

type TicketHandler struct {
	ticketService *service.TicketService
	reviewService *service.ReviewService
}

func NewTicketHandler(ticketService *service.TicketService, reviewService *service.ReviewService) *TicketHandler {
	return &TicketHandler{
		ticketService: ticketService,
		reviewService: reviewService,
	}
}

// Create handles POST /tickets
func (h *TicketHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.CreateTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	ticket, err := h.ticketService.Create(r.Context(), userID, req)
	if err != nil {
		if writeTicketValidationError(w, err) {
			return
		}
		log.Printf("[ERROR] CreateTicket handler: user=%d err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to create ticket")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, ticket)
}

// CreateWithReview handles POST /tickets/with-review
// Creates a ticket and its first review atomically.
func (h *TicketHandler) CreateWithReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req model.CreateTicketWithReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	result, err := h.ticketService.CreateWithReview(r.Context(), userID, req)
	if err != nil {
		if writeTicketValidationError(w, err) || writeReviewValidationError(w, err) {
			return
		}
		log.Printf("[ERROR] CreateTicketWithReview handler: user=%d err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to create ticket with review")
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, result)
}

// Get handles GET /tickets/{id}
func (h *TicketHandler) Get(w http.ResponseWriter, r *http.Request) {
	ticketID, ok := parseIDParam(w, r, "Invalid ticket ID")
	if !ok {
		return
	}

	ticket, err := h.ticketService.GetByID(r.Context(), ticketID)
	if err != nil {
		if errors.Is(err, model.ErrTicketNotFound) {
			httputil.WriteNotFound(w, "Ticket not found")
			return
		}
		log.Printf("[ERROR] GetTicket handler: ticket=%d err=%v", ticketID, err)
		httputil.WriteInternalError(w, "Failed to get ticket")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, ticket)
}

// Update handles PUT /tickets/{id}
// Owner-only; anyone else gets 403.
func (h *TicketHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	ticketID, ok := parseIDParam(w, r, "Invalid ticket ID")
	if !ok {
		return
	}

	var req model.UpdateTicketRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequest(w, "Invalid request body")
		return
	}

	ticket, err := h.ticketService.Update(r.Context(), ticketID, userID, req)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrTicketNotFound):
			httputil.WriteNotFound(w, "Ticket not found")
		case errors.Is(err, model.ErrNotTicketOwner):
			httputil.WriteForbidden(w, "Only the ticket owner can update it")
		default:
			if writeTicketValidationError(w, err) {
				return
			}
			log.Printf("[ERROR] UpdateTicket handler: ticket=%d user=%d err=%v", ticketID, userID, err)
			httputil.WriteInternalError(w, "Failed to update ticket")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, ticket)
}

// Delete handles DELETE /tickets/{id}
// Owner-only; the ticket's reviews go with it.
func (h *TicketHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "Authentication required")
		return
	}

	ticketID, ok := parseIDParam(w, r, "Invalid ticket ID")
	if !ok {
		return
	}

	if err := h.ticketService.Delete(r.Context(), ticketID, userID); err != nil {
		switch {
		case errors.Is(err, model.ErrTicketNotFound):
			httputil.WriteNotFound(w, "Ticket not found")
		case errors.Is(err, model.ErrNotTicketOwner):
			httputil.WriteForbidden(w, "Only the ticket owner can delete it")
		default:
			log.Printf("[ERROR] DeleteTicket handler: ticket=%d user=%d err=%v", ticketID, userID, err)
			httputil.WriteInternalError(w, "Failed to delete ticket")
		}
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Ticket deleted",
	})
}

// ListReviews handles GET /tickets/{id}/reviews
func (h *TicketHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	ticketID, ok := parseIDParam(w, r, "Invalid ticket ID")
	if !ok {
		return
	}

	reviews, err := h.reviewService.ListByTicket(r.Context(), ticketID)
	if err != nil {
		if errors.Is(err, model.ErrTicketNotFound) {
			httputil.WriteNotFound(w, "Ticket not found")
			return
		}
		log.Printf("[ERROR] ListTicketReviews handler: ticket=%d err=%v", ticketID, err)
		httputil.WriteInternalError(w, "Failed to list reviews")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"reviews": reviews,
	})
}

// ListByUser handles GET /users/{id}/tickets
func (h *TicketHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseIDParam(w, r, "Invalid user ID")
	if !ok {
		return
	}

	tickets, err := h.ticketService.ListByOwner(r.Context(), userID)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			httputil.WriteNotFound(w, "User not found")
			return
		}
		log.Printf("[ERROR] ListUserTickets handler: user=%d err=%v", userID, err)
		httputil.WriteInternalError(w, "Failed to list tickets")
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"tickets": tickets,
	})
}

// parseIDParam reads the {id} path param as int64, writing a 400 on failure.
func parseIDParam(w http.ResponseWriter, r *http.Request, badRequestMsg string) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		httputil.WriteBadRequest(w, badRequestMsg)
		return 0, false
	}
	return id, true
}

// writeTicketValidationError maps ticket field errors onto 400s carrying the
// originating field. Reports whether the error was handled.
func writeTicketValidationError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, model.ErrTitleRequired):
		httputil.WriteValidationFailed(w, "title", "Title is required")
	case errors.Is(err, model.ErrTitleTooLong):
		httputil.WriteValidationFailed(w, "title", "Title must be at most 128 characters")
	case errors.Is(err, model.ErrDescriptionTooLong):
		httputil.WriteValidationFailed(w, "description", "Description must be at most 2048 characters")
	default:
		return false
	}
	return true
}
