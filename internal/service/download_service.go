// Package service orchestrates download requests: cache pre-check, job
// creation, and supervisor hand-off.
package service

import (
	"context"
	"log/slog"

	"github.com/clipvault/clipvault/internal/domain"
	"github.com/clipvault/clipvault/internal/library"
	"github.com/clipvault/clipvault/internal/registry"
)

// Starter launches the external downloader for a registered job.
type Starter interface {
	Start(job domain.Snapshot)
}

// RequestResult is the outcome of a download request: either the file was
// already present (FilePath set) or a job was started (JobID set).
type RequestResult struct {
	AlreadyDownloaded bool
	FilePath          string
	JobID             domain.JobID
}

// DownloadService owns the download lifecycle. Handlers call Request and
// Status; all job mutation after creation happens in the supervisor.
type DownloadService struct {
	registry   *registry.Registry
	library    *library.Library
	supervisor Starter
	logger     *slog.Logger
}

// NewDownloadService creates a download service.
func NewDownloadService(reg *registry.Registry, lib *library.Library, sup Starter, logger *slog.Logger) *DownloadService {
	return &DownloadService{
		registry:   reg,
		library:    lib,
		supervisor: sup,
		logger:     logger,
	}
}

// Request starts a download of sourceID, unless a matching file already
// exists in the library, in which case it short-circuits to that file
// without creating a job.
func (s *DownloadService) Request(ctx context.Context, sourceID, title string) (*RequestResult, error) {
	if sourceID == "" {
		return nil, domain.ErrMissingSourceID
	}

	if path, ok := s.library.FindBySourceID(sourceID); ok {
		s.logger.Info("download already present", "source_id", sourceID, "path", path)
		return &RequestResult{AlreadyDownloaded: true, FilePath: path}, nil
	}

	job := s.registry.Create(sourceID, title)
	s.supervisor.Start(job)

	return &RequestResult{JobID: job.JobID}, nil
}

// Status returns the snapshot of a job, or ErrJobNotFound.
func (s *DownloadService) Status(id domain.JobID) (domain.Snapshot, error) {
	return s.registry.Get(id)
}

// Jobs lists all tracked jobs, newest first.
func (s *DownloadService) Jobs() []domain.Snapshot {
	return s.registry.List()
}
