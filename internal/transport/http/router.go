package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Fibuc/litrevu/internal/handler"
	"github.com/Fibuc/litrevu/internal/httputil"
	authmw "github.com/Fibuc/litrevu/internal/transport/http/middleware"
)

// RouterConfig holds the dependencies needed to create routes
type RouterConfig struct {
	AuthHandler   *handler.AuthHandler
	UserHandler   *handler.UserHandler
	FollowHandler *handler.FollowHandler
	FeedHandler   *handler.FeedHandler
	TicketHandler *handler.TicketHandler
	ReviewHandler *handler.ReviewHandler
	MediaHandler  *handler.MediaHandler
	JWTSecret     string
}

// NewRouter creates and configures a new Chi router with all route groups
func NewRouter(cfg RouterConfig) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	// Health check endpoint (useful for deployment/monitoring)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, 200, map[string]string{"status": "ok"})
	})

	// Public routes - no authentication required
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", cfg.AuthHandler.Register)
		r.Post("/login", cfg.AuthHandler.Login)
	})

	// Public user/ticket reads with optional authentication: the responses
	// carry viewer-dependent flags when a token is present.
	r.Route("/users", func(r chi.Router) {
		r.With(authmw.OptionalAuthMiddleware(cfg.JWTSecret)).Get("/{id}/followers", cfg.FollowHandler.GetFollowers)
		r.With(authmw.OptionalAuthMiddleware(cfg.JWTSecret)).Get("/{id}/following", cfg.FollowHandler.GetFollowing)
		r.With(authmw.OptionalAuthMiddleware(cfg.JWTSecret)).Get("/{id}/tickets", cfg.TicketHandler.ListByUser)
	})

	r.Get("/tickets/{id}", cfg.TicketHandler.Get)
	r.Get("/tickets/{id}/reviews", cfg.TicketHandler.ListReviews)
	r.Get("/reviews/{id}", cfg.ReviewHandler.Get)

	// Protected routes - require authentication
	r.Group(func(r chi.Router) {
		r.Use(authmw.AuthMiddleware(cfg.JWTSecret))

		// Current user endpoints
		r.Get("/me", cfg.AuthHandler.Me)
		r.Get("/users/search", cfg.UserHandler.Search)

		// Follow graph
		r.Post("/users/{id}/follow", cfg.FollowHandler.Follow)
		r.Delete("/users/{id}/follow", cfg.FollowHandler.Unfollow)

		// Timelines
		r.Get("/feed", cfg.FeedHandler.GetFeed)
		r.Get("/posts", cfg.FeedHandler.GetMyPosts)

		// Tickets
		r.Post("/tickets", cfg.TicketHandler.Create)
		r.Post("/tickets/with-review", cfg.TicketHandler.CreateWithReview)
		r.Put("/tickets/{id}", cfg.TicketHandler.Update)
		r.Delete("/tickets/{id}", cfg.TicketHandler.Delete)

		// Reviews
		r.Post("/tickets/{id}/reviews", cfg.ReviewHandler.Create)
		r.Put("/reviews/{id}", cfg.ReviewHandler.Update)
		r.Delete("/reviews/{id}", cfg.ReviewHandler.Delete)

		// Media uploads
		r.Post("/media/tickets", cfg.MediaHandler.UploadTicketImage)
	})

	return r
}
