// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"gorm.io/gorm"

	"github.com/hivemind-ai/intelligence/internal/config"
	"github.com/hivemind-ai/intelligence/internal/engine"
)

// HTTPServer serves the read-only intelligence API
type HTTPServer struct {
	engine *engine.Engine
	db     *gorm.DB
	config *config.Config
}

// NewHTTPServer creates the HTTP API server
func NewHTTPServer(cfg *config.Config, eng *engine.Engine, db *gorm.DB) *HTTPServer {
	return &HTTPServer{
		engine: eng,
		db:     db,
		config: cfg,
	}
}

// Router builds the chi router with all API routes
func (h *HTTPServer) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", h.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/search", h.handleSearch)
		r.Get("/path", h.handlePath)
		r.Get("/clusters", h.handleClusters)
		r.Get("/trending", h.handleTrending)

		r.Route("/entries/{entryID}", func(r chi.Router) {
			r.Get("/insights", h.handleInsights)
			r.Get("/related", h.handleRelated)
		})

		r.Route("/agents/{agentID}", func(r chi.Router) {
			r.Get("/reputation", h.handleReputation)
			r.Get("/impact", h.handleImpact)
			r.Get("/influence", h.handleInfluence)
			r.Get("/recommendations", h.handleRecommendations)
		})
	})

	return r
}

// ListenAndServe starts the HTTP server on the configured address
func (h *HTTPServer) ListenAndServe() error {
	addr := fmt.Sprintf("%s:%d", h.config.Server.Host, h.config.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}
