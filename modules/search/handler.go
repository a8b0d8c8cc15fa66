package search

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleSearchArtist - GET /api/search/artist?q=&limit=
func (h *Handler) HandleSearchArtist(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	query, limit, ok := parseQuery(w, r)
	if !ok {
		return
	}

	results, err := h.service.SearchArtists(r.Context(), query, limit)
	if err != nil {
		log.Printf("❌ [Search] Artist search failed: %v", err)
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]string{"error": "Artist search failed"})
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{"results": results})
}

// HandleSearchSong - GET /api/search/song?q=&limit=
func (h *Handler) HandleSearchSong(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	query, limit, ok := parseQuery(w, r)
	if !ok {
		return
	}

	results, err := h.service.SearchSongs(r.Context(), query, limit)
	if err != nil {
		log.Printf("❌ [Search] Song search failed: %v", err)
		w.WriteHeader(http.StatusBadGateway)
		json.NewEncoder(w).Encode(map[string]string{"error": "Song search failed"})
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{"results": results})
}

// parseQuery validates q and caps limit to 1..10 (default 5). Writes the 400
// itself and returns ok=false on a missing query.
func parseQuery(w http.ResponseWriter, r *http.Request) (string, int, bool) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "q parameter is required"})
		return "", 0, false
	}

	limit := 5
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil {
			limit = parsed
		}
	}
	if limit < 1 {
		limit = 1
	}
	if limit > 10 {
		limit = 10
	}

	return query, limit, true
}
