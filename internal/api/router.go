package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/clipvault/clipvault/internal/api/handler"
	mw "github.com/clipvault/clipvault/internal/api/middleware"
)

// NewRouter creates the HTTP router with all routes configured. videoDir
// is served read-only under /videos/ for playback.
func NewRouter(
	searchHandler *handler.SearchHandler,
	downloadHandler *handler.DownloadHandler,
	libraryHandler *handler.LibraryHandler,
	healthHandler *handler.HealthHandler,
	videoDir string,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CleanPath)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.Logger)
	r.Use(mw.Recovery)
	r.Use(middleware.Timeout(time.Minute))

	// CORS for the browser player
	r.Use(mw.CORS)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Health)
		r.Get("/check-ytdlp", healthHandler.CheckTool)

		r.Get("/search", searchHandler.Search)

		r.Post("/download", downloadHandler.Request)
		r.Get("/download-status/{jobID}", downloadHandler.Status)
		r.Get("/downloads", downloadHandler.List)

		r.Get("/downloaded-videos", libraryHandler.List)
		r.Delete("/video/{filename}", libraryHandler.Delete)
	})

	// Static serving of the download directory
	fileServer := http.StripPrefix("/videos/", http.FileServer(http.Dir(videoDir)))
	r.Get("/videos/*", fileServer.ServeHTTP)

	return r
}
