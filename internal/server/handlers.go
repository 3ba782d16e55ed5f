// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hivemind-ai/intelligence/internal/database"
	"github.com/hivemind-ai/intelligence/internal/engine"
)

// writeJSON encodes a response payload
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps engine errors onto HTTP statuses
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, engine.ErrNotFound) {
		status = http.StatusNotFound
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// queryInt parses an integer query parameter, returning def when absent
// or malformed
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

// queryFloat parses a float query parameter
func queryFloat(r *http.Request, name string, def float64) float64 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return v
}

// handleHealth reports process and database liveness
func (h *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := database.Ping(h.db); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "degraded",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleSearch ranks entries against ?q=
func (h *HTTPServer) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query parameter 'q' is required"})
		return
	}

	resp, err := h.engine.Search(r.Context(), query,
		queryInt(r, "limit", 10),
		queryFloat(r, "min_quality", 0))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleInsights returns the quality report for one entry
func (h *HTTPServer) handleInsights(w http.ResponseWriter, r *http.Request) {
	insights, err := h.engine.EntryInsights(r.Context(), chi.URLParam(r, "entryID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, insights)
}

// handleRelated returns the graph neighbors of one entry
func (h *HTTPServer) handleRelated(w http.ResponseWriter, r *http.Request) {
	related, err := h.engine.Related(r.Context(), chi.URLParam(r, "entryID"), queryInt(r, "limit", 10))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, related)
}

// handlePath finds the connection chain between ?from= and ?to=
func (h *HTTPServer) handlePath(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query parameters 'from' and 'to' are required"})
		return
	}

	path, err := h.engine.FindPath(r.Context(), from, to, queryInt(r, "max_depth", 0))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, path)
}

// handleClusters partitions the graph at ?threshold=
func (h *HTTPServer) handleClusters(w http.ResponseWriter, r *http.Request) {
	clusters, err := h.engine.Clusters(r.Context(), queryFloat(r, "threshold", 0.3))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, clusters)
}

// handleTrending lists recently adopted entries
func (h *HTTPServer) handleTrending(w http.ResponseWriter, r *http.Request) {
	trending, err := h.engine.Trending(r.Context(),
		queryInt(r, "window_days", 7),
		queryInt(r, "limit", 10))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, trending)
}

// handleReputation scores one agent
func (h *HTTPServer) handleReputation(w http.ResponseWriter, r *http.Request) {
	includeBreakdown := r.URL.Query().Get("breakdown") == "true"

	score, err := h.engine.Reputation(r.Context(), chi.URLParam(r, "agentID"), includeBreakdown)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, score)
}

// handleImpact measures one agent's impact
func (h *HTTPServer) handleImpact(w http.ResponseWriter, r *http.Request) {
	score, err := h.engine.Impact(r.Context(), chi.URLParam(r, "agentID"), queryInt(r, "window_days", 0))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, score)
}

// handleInfluence maps one agent's influence network
func (h *HTTPServer) handleInfluence(w http.ResponseWriter, r *http.Request) {
	network, err := h.engine.Influence(r.Context(), chi.URLParam(r, "agentID"),
		queryInt(r, "max_depth", 0),
		queryInt(r, "limit", 50))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, network)
}

// handleRecommendations suggests entries for one agent
func (h *HTTPServer) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	recs, err := h.engine.Recommend(r.Context(), chi.URLParam(r, "agentID"), queryInt(r, "limit", 10))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recs)
}
