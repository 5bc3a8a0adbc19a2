// Tablescout - Restaurant Recommendation CMS
// Copyright 2026 Tablescout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tablescout/tablescout

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tablescout/tablescout/internal/auth"
	"github.com/tablescout/tablescout/internal/config"
	"github.com/tablescout/tablescout/internal/middleware"
)

// Router wires handlers, middleware, and routes together.
type Router struct {
	handler  *Handler
	mw       *ChiMiddleware
	sessions *auth.SessionManager
}

// NewRouter builds the router from its dependencies.
func NewRouter(store DataStore, sessions *auth.SessionManager, cfg *config.Config) *Router {
	mw := NewChiMiddleware(&ChiMiddlewareConfig{
		CORSAllowedOrigins: cfg.Security.CORSOrigins,
		RateLimitRequests:  cfg.Security.RateLimitReqs,
		RateLimitWindow:    cfg.Security.RateLimitWindow,
		RateLimitDisabled:  cfg.Security.RateLimitDisabled,
	})

	return &Router{
		handler:  NewHandler(store, sessions, cfg.Security.CookieSecure),
		mw:       mw,
		sessions: sessions,
	}
}

// Setup configures all HTTP routes using the Chi router.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.mw.CORS())

	// Prometheus scrape endpoint.
	r.Handle("/metrics", promhttp.Handler())

	// Health endpoints get permissive rate limiting so monitoring tools can
	// poll freely.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.mw.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/", router.handler.Health)
	})

	// Authentication. Login carries the strictest limiter; the session
	// manager's per-address throttle is the durable guard behind it.
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.With(router.mw.RateLimitLogin()).Post("/login", router.handler.Login)
		r.Post("/logout", router.handler.Logout)
	})

	// Public listing.
	r.Route("/api/v1/eats", func(r chi.Router) {
		r.Use(router.mw.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.Get("/", router.handler.Eats)
	})

	// Admin surface: everything below requires a verified session.
	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(router.mw.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.Use(auth.RequireSession(router.sessions))

		r.Get("/cms", router.handler.CMS)

		r.Route("/countries", func(r chi.Router) {
			r.Get("/", router.handler.Countries)
			r.With(router.mw.RateLimitWrite()).Post("/", router.handler.CreateCountry)
			r.With(router.mw.RateLimitWrite()).Put("/{id}", router.handler.UpdateCountry)
			r.With(router.mw.RateLimitWrite()).Delete("/{id}", router.handler.DeleteCountry)
		})

		r.Route("/cities", func(r chi.Router) {
			r.Get("/", router.handler.Cities)
			r.With(router.mw.RateLimitWrite()).Post("/", router.handler.CreateCity)
			r.With(router.mw.RateLimitWrite()).Put("/{id}", router.handler.UpdateCity)
			r.With(router.mw.RateLimitWrite()).Delete("/{id}", router.handler.DeleteCity)
			r.With(router.mw.RateLimitWrite()).Post("/{id}/default", router.handler.SetDefaultCity)
		})

		r.Route("/types", func(r chi.Router) {
			r.Get("/", router.handler.Types)
			r.With(router.mw.RateLimitWrite()).Post("/", router.handler.CreateType)
			r.With(router.mw.RateLimitWrite()).Put("/{id}", router.handler.UpdateType)
			r.With(router.mw.RateLimitWrite()).Delete("/{id}", router.handler.DeleteType)
		})

		r.Route("/restaurants", func(r chi.Router) {
			r.Get("/", router.handler.Restaurants)
			r.Get("/{id}", router.handler.Restaurant)
			r.With(router.mw.RateLimitWrite()).Post("/", router.handler.CreateRestaurant)
			r.With(router.mw.RateLimitWrite()).Put("/{id}", router.handler.UpdateRestaurant)
			r.With(router.mw.RateLimitWrite()).Delete("/{id}", router.handler.SoftDeleteRestaurant)
			r.With(router.mw.RateLimitWrite()).Post("/{id}/restore", router.handler.RestoreRestaurant)
			r.With(router.mw.RateLimitWrite()).Delete("/{id}/hard", router.handler.HardDeleteRestaurant)
		})
	})

	return r
}
