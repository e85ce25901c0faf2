package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/clipvault/clipvault/internal/domain"
)

// SearchProvider runs keyword searches against the video provider.
type SearchProvider interface {
	Search(ctx context.Context, query string, maxResults int) ([]domain.SearchResult, error)
}

// SearchHandler handles search HTTP requests.
type SearchHandler struct {
	provider SearchProvider
	logger   *slog.Logger
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(provider SearchProvider, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{
		provider: provider,
		logger:   logger,
	}
}

// SearchResponse is the JSON response for a search.
type SearchResponse struct {
	Items []domain.SearchResult `json:"items"`
}

// Search handles GET /api/search?q=&maxResults=
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, "Query parameter is required")
		return
	}

	maxResults := 0
	if m := r.URL.Query().Get("maxResults"); m != "" {
		if parsed, err := strconv.Atoi(m); err == nil {
			maxResults = parsed
		}
	}

	items, err := h.provider.Search(r.Context(), q, maxResults)
	if err != nil {
		var pe *domain.ProviderError
		switch {
		case errors.Is(err, domain.ErrMissingQuery):
			writeError(w, http.StatusBadRequest, "Query parameter is required")
		case errors.Is(err, domain.ErrAPIKeyMissing):
			writeError(w, http.StatusBadRequest, "YouTube API key not configured")
		case errors.As(err, &pe):
			// Surface the upstream message verbatim.
			writeError(w, http.StatusBadGateway, pe.Message)
		default:
			h.logger.Error("search failed", "error", err)
			writeError(w, http.StatusInternalServerError, "search failed")
		}
		return
	}

	if items == nil {
		items = []domain.SearchResult{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{Items: items})
}
