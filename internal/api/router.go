package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/foodshare/engine/internal/api/handlers"
	mw "github.com/foodshare/engine/internal/api/middleware"
	"github.com/foodshare/engine/internal/models"
)

type Dependencies struct {
	Authenticator   mw.Authenticator
	AuthLimiter     mw.Limiter
	TrustedProxies  *mw.ProxyTrust
	CORSOrigins     []string
	AuthHandler     *handlers.AuthHandler
	DonorHandler    *handlers.DonorHandler
	ReceiverHandler *handlers.ReceiverHandler
	HealthHandler   *handlers.HealthHandler
}

func NewRouter(dep Dependencies) http.Handler {
	r := chi.NewRouter()

	// Built-in middleware
	r.Use(mw.RequestID)
	r.Use(mw.Recovery)
	r.Use(mw.Logging)
	r.Use(mw.CORS(dep.CORSOrigins))
	r.Use(chimid.Compress(5))

	// Health endpoints
	r.Get("/healthz", dep.HealthHandler.Liveness)
	r.Get("/readyz", dep.HealthHandler.Readiness)

	// Swagger documentation
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/doc.json"),
	))

	r.Route("/api/v1", func(api chi.Router) {
		api.Route("/auth", func(ar chi.Router) {
			ar.Group(func(public chi.Router) {
				if dep.AuthLimiter != nil {
					public.Use(mw.RateLimit(dep.AuthLimiter, dep.TrustedProxies))
				}
				public.Post("/donor/signup", dep.AuthHandler.DonorSignup)
				public.Post("/donor/login", dep.AuthHandler.DonorLogin)
				public.Post("/receiver/signup", dep.AuthHandler.ReceiverSignup)
				public.Post("/receiver/login", dep.AuthHandler.ReceiverLogin)
			})
			ar.With(mw.Auth(dep.Authenticator)).Post("/logout", dep.AuthHandler.Logout)
		})

		// Protected routes
		api.Group(func(protected chi.Router) {
			protected.Use(mw.Auth(dep.Authenticator))

			protected.Route("/donor", func(dr chi.Router) {
				dr.Use(mw.RequireRole(models.RoleDonor))
				dr.Get("/dashboard", dep.DonorHandler.Dashboard)
				dr.Post("/donations", dep.DonorHandler.Create)
				dr.Put("/donations/{id}", dep.DonorHandler.Update)
				dr.Delete("/donations/{id}", dep.DonorHandler.Delete)
			})

			protected.Route("/receiver", func(rr chi.Router) {
				rr.Use(mw.RequireRole(models.RoleReceiver))
				rr.Get("/donations", dep.ReceiverHandler.ListDonations)
				rr.Post("/donations/{id}/request", dep.ReceiverHandler.RequestFood)
			})
		})
	})

	return r
}
