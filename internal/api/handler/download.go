package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/clipvault/clipvault/internal/domain"
	"github.com/clipvault/clipvault/internal/service"
)

// DownloadRequester starts downloads and reports their status.
type DownloadRequester interface {
	Request(ctx context.Context, sourceID, title string) (*service.RequestResult, error)
	Status(id domain.JobID) (domain.Snapshot, error)
	Jobs() []domain.Snapshot
}

// DownloadHandler handles download-related HTTP requests.
type DownloadHandler struct {
	svc    DownloadRequester
	logger *slog.Logger
}

// NewDownloadHandler creates a new download handler.
func NewDownloadHandler(svc DownloadRequester, logger *slog.Logger) *DownloadHandler {
	return &DownloadHandler{
		svc:    svc,
		logger: logger,
	}
}

// DownloadRequest is the JSON request body for a download.
type DownloadRequest struct {
	SourceID string `json:"sourceId"`
	Title    string `json:"title"`
}

// DownloadResponse is the JSON response after a download request.
type DownloadResponse struct {
	Success  bool   `json:"success"`
	JobID    string `json:"jobId,omitempty"`
	FilePath string `json:"filePath,omitempty"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Request handles POST /api/download
func (h *DownloadHandler) Request(w http.ResponseWriter, r *http.Request) {
	var req DownloadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, DownloadResponse{
			Success: false,
			Error:   "invalid request body",
		})
		return
	}

	result, err := h.svc.Request(r.Context(), req.SourceID, req.Title)
	if err != nil {
		if errors.Is(err, domain.ErrMissingSourceID) {
			writeJSON(w, http.StatusBadRequest, DownloadResponse{
				Success: false,
				Error:   "Video ID is required",
			})
			return
		}
		h.logger.Error("download request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, DownloadResponse{
			Success: false,
			Error:   "failed to start download",
		})
		return
	}

	if result.AlreadyDownloaded {
		writeJSON(w, http.StatusOK, DownloadResponse{
			Success:  true,
			FilePath: result.FilePath,
			Message:  "Video already downloaded",
		})
		return
	}

	writeJSON(w, http.StatusOK, DownloadResponse{
		Success: true,
		JobID:   result.JobID.String(),
		Message: "Download started",
	})
}

// Status handles GET /api/download-status/{jobID}
func (h *DownloadHandler) Status(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	if jobID == "" {
		writeError(w, http.StatusBadRequest, "missing job ID")
		return
	}

	snap, err := h.svc.Status(domain.JobID(jobID))
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			writeError(w, http.StatusNotFound, "Download not found")
			return
		}
		h.logger.Error("status lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get status")
		return
	}

	writeJSON(w, http.StatusOK, snap)
}

// List handles GET /api/downloads
func (h *DownloadHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Jobs())
}
