// Package downloader supervises yt-dlp processes. One supervisor serves
// all jobs; each Start spawns an independent process whose stdout is
// scraped for progress percentages and whose exit decides the terminal
// job state.
package downloader

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/clipvault/clipvault/internal/config"
	"github.com/clipvault/clipvault/internal/domain"
	"github.com/clipvault/clipvault/internal/library"
	"github.com/clipvault/clipvault/internal/registry"
)

const watchURLPrefix = "https://www.youtube.com/watch?v="

// Supervisor spawns yt-dlp for download jobs and drives their state
// transitions through the registry. It is the sole writer of job records
// after creation.
type Supervisor struct {
	binary    string
	format    string
	registry  *registry.Registry
	library   *library.Library
	logger    *slog.Logger
	newRunner runnerFactory

	wg sync.WaitGroup
}

// NewSupervisor creates a supervisor using the configured yt-dlp binary.
func NewSupervisor(cfg config.DownloaderConfig, reg *registry.Registry, lib *library.Library, logger *slog.Logger) *Supervisor {
	return &Supervisor{
		binary:    cfg.Binary,
		format:    cfg.Format,
		registry:  reg,
		library:   lib,
		logger:    logger,
		newRunner: newExecRunner,
	}
}

// Version probes the downloader binary and returns its version string.
// A failure means the tool is not installed or not on PATH.
func (s *Supervisor) Version(ctx context.Context) (string, error) {
	out, err := lookVersion(ctx, s.binary)
	if err != nil {
		return "", fmt.Errorf("%w: %s", domain.ErrToolMissing, s.binary)
	}
	return strings.TrimSpace(out), nil
}

// Start spawns a download for the job and returns once the process is
// running (or has failed to spawn). Progress and completion are reported
// asynchronously through the registry.
func (s *Supervisor) Start(job domain.Snapshot) {
	args := []string{
		watchURLPrefix + job.SourceID,
		"-f", s.format,
		"-o", filepath.Join(s.library.Dir(), job.SourceID+"_%(title)s.%(ext)s"),
		"--no-playlist",
		// One progress line per write instead of in-place \r rewrites,
		// so the stdout scanner sees each percentage.
		"--newline",
	}

	logger := s.logger.With("job_id", job.JobID, "source_id", job.SourceID)
	logger.Info("starting download")

	run := s.newRunner(s.binary, args...)
	if err := run.Start(); err != nil {
		logger.Error("failed to spawn downloader", "error", err)
		s.fail(job.JobID, "failed to start yt-dlp: "+err.Error())
		return
	}

	s.update(job.JobID, func(j *domain.Job) { j.MarkDownloading() })

	s.wg.Add(1)
	go s.supervise(job, run, logger)
}

// Wait blocks until all in-flight downloads have reached a terminal
// state. Used on shutdown and in tests.
func (s *Supervisor) Wait() {
	s.wg.Wait()
}

func (s *Supervisor) supervise(job domain.Snapshot, run runner, logger *slog.Logger) {
	defer s.wg.Done()

	stderrDone := make(chan struct{})
	go func() {
		defer close(stderrDone)
		scanner := bufio.NewScanner(run.Stderr())
		for scanner.Scan() {
			logger.Debug("yt-dlp stderr", "line", scanner.Text())
		}
	}()

	scanner := bufio.NewScanner(run.Stdout())
	scanner.Split(splitProgressLines)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		pct, ok := ParseProgress(line)
		if !ok {
			logger.Debug("unparsed yt-dlp output", "line", line)
			continue
		}
		s.update(job.JobID, func(j *domain.Job) { j.SetProgress(pct) })
	}
	// A scan error looks like EOF to the loop above; it must not pass
	// for a clean end of output, and the pipe must keep draining or the
	// process blocks on write and never exits.
	if err := scanner.Err(); err != nil {
		logger.Error("reading yt-dlp stdout failed", "error", err)
		io.Copy(io.Discard, run.Stdout())
	}

	<-stderrDone

	code, err := run.Wait()
	if err != nil {
		logger.Error("downloader wait failed", "error", err)
		s.fail(job.JobID, "yt-dlp failed: "+err.Error())
		return
	}

	if code != 0 {
		logger.Error("downloader exited with error", "code", code)
		s.fail(job.JobID, fmt.Sprintf("yt-dlp exited with code %d", code))
		return
	}

	// Exit 0 is not completion by itself; the output file must exist.
	path, ok := s.library.FindBySourceID(job.SourceID)
	if !ok {
		logger.Error("downloader reported success but no output file found")
		s.fail(job.JobID, "downloaded file not found")
		return
	}

	logger.Info("download completed", "path", path)
	s.update(job.JobID, func(j *domain.Job) { j.MarkCompleted(path) })
}

func (s *Supervisor) fail(id domain.JobID, msg string) {
	s.update(id, func(j *domain.Job) { j.MarkError(msg) })
}

func (s *Supervisor) update(id domain.JobID, fn func(*domain.Job)) {
	if err := s.registry.Update(id, fn); err != nil {
		s.logger.Error("failed to update job", "job_id", id, "error", err)
	}
}
