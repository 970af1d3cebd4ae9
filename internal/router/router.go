// Package router sets up all HTTP routes and middleware chains for the
// RealtyCMS API. Routes are organized into auth, admin and public groups
// with their own middleware stacks.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"realtycms/internal/handlers"
	"realtycms/internal/middleware"
)

// Config carries the dependencies of the middleware chains.
type Config struct {
	Sessions      middleware.SessionLoader
	SecureCookies bool
	// CommentLimiter throttles public comment submissions. Nil disables it.
	CommentLimiter *middleware.RateLimiter
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(cfg Config, admin *handlers.Admin, auth *handlers.Auth, public *handlers.Public) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(cfg.Sessions))

	r.NotFound(notFoundHandler)
	r.MethodNotAllowed(methodNotAllowedHandler)

	// Health check, no auth and no CSRF.
	r.Get("/health", public.Health)

	r.Route("/api", func(r chi.Router) {
		// Public comment form, rate limited per client IP.
		r.Group(func(r chi.Router) {
			if cfg.CommentLimiter != nil {
				r.Use(cfg.CommentLimiter.Middleware)
			}
			r.Post("/posts/{slug}/comments", public.SubmitComment)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.NewCSRF(cfg.SecureCookies))

			r.Route("/auth", func(r chi.Router) {
				r.Post("/login", auth.Login)
				r.Post("/logout", auth.Logout)

				// Requires a session but not a completed second factor.
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAuth)
					r.Get("/me", auth.Me)
					r.Get("/2fa/setup", auth.TwoFASetup)
					r.Post("/2fa/verify", auth.TwoFAVerify)
				})
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireAuth)
				r.Use(middleware.Require2FA)

				r.Get("/dashboard", admin.Dashboard)

				r.Route("/agents", func(r chi.Router) {
					r.Get("/", admin.AgentsList)
					r.Post("/", admin.AgentCreate)
					r.Get("/{id}", admin.AgentShow)
					r.Put("/{id}", admin.AgentUpdate)
					r.Delete("/{id}", admin.AgentDelete)
					r.Post("/{id}/photo", admin.AgentPhotoUpload)
				})

				r.Route("/amenities", func(r chi.Router) {
					r.Get("/", admin.AmenitiesList)
					r.Post("/", admin.AmenityCreate)
					r.Get("/{id}", admin.AmenityShow)
					r.Put("/{id}", admin.AmenityUpdate)
					r.Delete("/{id}", admin.AmenityDelete)
				})

				r.Route("/locations", func(r chi.Router) {
					r.Get("/", admin.LocationsList)
					r.Post("/", admin.LocationCreate)
					r.Get("/{id}", admin.LocationShow)
					r.Put("/{id}", admin.LocationUpdate)
					r.Delete("/{id}", admin.LocationDelete)
				})

				r.Route("/property-types", func(r chi.Router) {
					r.Get("/", admin.PropertyTypesList)
					r.Post("/", admin.PropertyTypeCreate)
					r.Get("/{id}", admin.PropertyTypeShow)
					r.Put("/{id}", admin.PropertyTypeUpdate)
					r.Delete("/{id}", admin.PropertyTypeDelete)
				})

				r.Route("/properties", func(r chi.Router) {
					r.Get("/", admin.PropertiesList)
					r.Post("/", admin.PropertyCreate)
					r.Get("/{id}", admin.PropertyShow)
					r.Put("/{id}", admin.PropertyUpdate)
					r.Delete("/{id}", admin.PropertyDelete)
				})

				r.Route("/posts", func(r chi.Router) {
					r.Get("/", admin.PostsList)
					r.Post("/", admin.PostCreate)
					r.Get("/{id}", admin.PostShow)
					r.Put("/{id}", admin.PostUpdate)
					r.Delete("/{id}", admin.PostDelete)
					r.Post("/{id}/featured-image", admin.PostFeaturedImageUpload)
				})

				r.Route("/tags", func(r chi.Router) {
					r.Get("/", admin.TagsList)
					r.Post("/", admin.TagCreate)
					r.Get("/{id}", admin.TagShow)
					r.Put("/{id}", admin.TagUpdate)
					r.Delete("/{id}", admin.TagDelete)
				})

				r.Route("/categories", func(r chi.Router) {
					r.Get("/", admin.CategoriesList)
					r.Post("/", admin.CategoryCreate)
					r.Get("/{id}", admin.CategoryShow)
					r.Put("/{id}", admin.CategoryUpdate)
					r.Delete("/{id}", admin.CategoryDelete)
				})

				r.Route("/media", func(r chi.Router) {
					r.Get("/", admin.MediaList)
					r.Post("/", admin.MediaUpload)
					r.Get("/{id}", admin.MediaShow)
					r.Put("/{id}", admin.MediaUpdate)
					r.Delete("/{id}", admin.MediaDelete)
				})

				r.Route("/comments", func(r chi.Router) {
					r.Get("/", admin.CommentsList)
					r.Post("/", admin.CommentCreate)
					r.Post("/bulk", admin.CommentsBulk)
					r.Get("/{id}", admin.CommentShow)
					r.Put("/{id}", admin.CommentUpdate)
					r.Delete("/{id}", admin.CommentDelete)
					r.Post("/{id}/approve", admin.CommentApprove)
					r.Post("/{id}/reject", admin.CommentReject)
					r.Post("/{id}/spam", admin.CommentSpam)
					r.Post("/{id}/toggle-featured", admin.CommentToggleFeatured)
					r.Post("/{id}/like", admin.CommentLike)
				})

				r.Route("/teams", func(r chi.Router) {
					r.Get("/", admin.TeamsList)
					r.Post("/", admin.TeamCreate)
					r.Get("/{id}", admin.TeamShow)
					r.Put("/{id}", admin.TeamUpdate)
					r.Delete("/{id}", admin.TeamDelete)
					r.Post("/{id}/members", admin.TeamAddMember)
					r.Delete("/{id}/members/{userID}", admin.TeamRemoveMember)
					r.Post("/{id}/switch", admin.TeamSwitch)
				})

				r.Route("/seo", func(r chi.Router) {
					r.Get("/", admin.SeoIndex)
					r.Put("/", admin.SeoUpdateMany)
					r.Get("/{key}", admin.SeoShow)
					r.Put("/{key}", admin.SeoUpdate)
					r.Delete("/{key}", admin.SeoDelete)
				})

				// User management, admin only.
				r.Route("/users", func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.Get("/", admin.UsersList)
					r.Post("/", admin.UserCreate)
					r.Get("/{id}", admin.UserShow)
					r.Put("/{id}", admin.UserUpdate)
					r.Delete("/{id}", admin.UserDelete)
					r.Post("/{id}/reset-2fa", admin.UserResetTwoFA)
				})
			})
		})
	})

	return r
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"error":"Not found."}`))
}

func methodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusMethodNotAllowed)
	w.Write([]byte(`{"error":"Method not allowed."}`))
}
