package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/clipvault/clipvault/internal/domain"
)

// MediaLibrary lists and deletes downloaded files.
type MediaLibrary interface {
	List() ([]domain.MediaFile, error)
	Delete(filename string) error
}

// LibraryHandler handles downloaded-file HTTP requests.
type LibraryHandler struct {
	library MediaLibrary
	logger  *slog.Logger
}

// NewLibraryHandler creates a new library handler.
func NewLibraryHandler(library MediaLibrary, logger *slog.Logger) *LibraryHandler {
	return &LibraryHandler{
		library: library,
		logger:  logger,
	}
}

// List handles GET /api/downloaded-videos
func (h *LibraryHandler) List(w http.ResponseWriter, r *http.Request) {
	files, err := h.library.List()
	if err != nil {
		h.logger.Error("library listing failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list videos")
		return
	}

	if files == nil {
		files = []domain.MediaFile{}
	}
	writeJSON(w, http.StatusOK, files)
}

// DeleteResponse is the JSON response after deleting a file.
type DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Delete handles DELETE /api/video/{filename}
func (h *LibraryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	if decoded, err := url.PathUnescape(filename); err == nil {
		filename = decoded
	}

	if err := h.library.Delete(filename); err != nil {
		switch {
		case errors.Is(err, domain.ErrFileNotFound):
			writeError(w, http.StatusNotFound, "Video not found")
		case errors.Is(err, domain.ErrInvalidFilename):
			writeError(w, http.StatusBadRequest, "invalid filename")
		default:
			h.logger.Error("delete failed", "filename", filename, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to delete video")
		}
		return
	}

	writeJSON(w, http.StatusOK, DeleteResponse{
		Success: true,
		Message: "Video deleted",
	})
}
