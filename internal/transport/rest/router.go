package rest

import (
	"log/slog"

	"github.com/frahmantamala/vehicle-permit/internal/auth"
	"github.com/frahmantamala/vehicle-permit/internal/notification"
	"github.com/frahmantamala/vehicle-permit/internal/permitrequest"
	"github.com/frahmantamala/vehicle-permit/internal/transport/middleware"
	"github.com/frahmantamala/vehicle-permit/internal/transport/swagger"
	"github.com/frahmantamala/vehicle-permit/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// Handlers groups the HTTP handlers mounted under /api/v1. A nil handler
// leaves its routes unregistered.
type Handlers struct {
	Auth          *auth.Handler
	User          *user.Handler
	PermitRequest *permitrequest.Handler
	Notification  *notification.Handler
}

type RouterOptions struct {
	AllowedOrigins string
	OpenAPIPath    string
}

func RegisterAllRoutes(router *chi.Mux, db Pinger, handlers Handlers, rbac *auth.RBACAuthorization, opts RouterOptions, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	if opts.OpenAPIPath != "" {
		router.Get(swagger.DocumentPath, swagger.DocumentHandler(opts.OpenAPIPath))
		router.Handle("/swagger/*", swagger.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if handlers.Auth == nil {
			return
		}

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", handlers.Auth.Login)
			sr.Post("/refresh", handlers.Auth.RefreshToken)
			sr.Post("/logout", handlers.Auth.Logout)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(handlers.Auth.AuthMiddleware)

			if handlers.User != nil {
				pr.Get("/users/me", handlers.User.GetCurrentUser)
			}

			if handlers.PermitRequest != nil {
				registerPermitRequestRoutes(pr, handlers.PermitRequest, rbac)
			}

			if handlers.Notification != nil {
				registerNotificationRoutes(pr, handlers.Notification)
			}
		})
	})
}

func registerPermitRequestRoutes(r chi.Router, h *permitrequest.Handler, rbac *auth.RBACAuthorization) {
	r.Route("/permit-requests", func(pr chi.Router) {
		pr.Post("/", h.CreatePermitRequest) // POST /permit-requests

		pr.Group(func(vr chi.Router) {
			vr.Use(rbac.RequireViewPermitRequests())
			vr.Get("/", h.ListPermitRequests)    // GET /permit-requests
			vr.Get("/{id}", h.GetPermitRequest) // GET /permit-requests/:id
		})

		pr.Group(func(rr chi.Router) {
			rr.Use(rbac.RequireReviewPermitRequests())
			rr.Patch("/{id}/status", h.ReviewPermitRequest) // PATCH /permit-requests/:id/status
		})

		pr.Group(func(ar chi.Router) {
			ar.Use(rbac.RequireAdmin())
			ar.Delete("/{id}", h.DeletePermitRequest) // DELETE /permit-requests/:id
		})
	})
}

func registerNotificationRoutes(r chi.Router, h *notification.Handler) {
	r.Route("/notifications", func(nr chi.Router) {
		nr.Get("/", h.ListNotifications)
		nr.Get("/unread-count", h.UnreadCount)
		nr.Post("/read-all", h.MarkAllRead)
		nr.Get("/{id}", h.GetNotification)
		nr.Patch("/{id}/read", h.MarkRead)
	})
}
