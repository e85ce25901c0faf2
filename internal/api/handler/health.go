package handler

import (
	"context"
	"net/http"
	"time"
)

// ToolChecker probes the external downloader binary.
type ToolChecker interface {
	Version(ctx context.Context) (string, error)
}

// HealthHandler handles health and tool-presence endpoints.
type HealthHandler struct {
	tool ToolChecker
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(tool ToolChecker) *HealthHandler {
	return &HealthHandler{tool: tool}
}

// HealthResponse is the JSON response for health checks.
type HealthResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Health handles GET /api/health - liveness probe.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Message:   "Server is running",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// ToolResponse is the JSON response for the downloader presence check.
type ToolResponse struct {
	Installed bool   `json:"installed"`
	Version   string `json:"version,omitempty"`
	Error     string `json:"error,omitempty"`
}

// CheckTool handles GET /api/check-ytdlp
func (h *HealthHandler) CheckTool(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	version, err := h.tool.Version(ctx)
	if err != nil {
		writeJSON(w, http.StatusOK, ToolResponse{
			Installed: false,
			Error:     "yt-dlp not found. Please install it first.",
		})
		return
	}

	writeJSON(w, http.StatusOK, ToolResponse{
		Installed: true,
		Version:   version,
	})
}
