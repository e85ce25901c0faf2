package handler

import (
	"context"
	"io"
	"log/slog"

	"github.com/clipvault/clipvault/internal/domain"
	"github.com/clipvault/clipvault/internal/service"
)

// testLogger returns a silent logger for tests.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// mockSearchProvider is a test implementation of SearchProvider.
type mockSearchProvider struct {
	items []domain.SearchResult
	err   error

	gotQuery string
	gotMax   int
}

func (m *mockSearchProvider) Search(ctx context.Context, query string, maxResults int) ([]domain.SearchResult, error) {
	m.gotQuery = query
	m.gotMax = maxResults
	if m.err != nil {
		return nil, m.err
	}
	return m.items, nil
}

// mockDownloadService is a test implementation of DownloadRequester.
type mockDownloadService struct {
	result     *service.RequestResult
	requestErr error

	snapshots map[domain.JobID]domain.Snapshot

	gotSourceID string
	gotTitle    string
}

func newMockDownloadService() *mockDownloadService {
	return &mockDownloadService{
		snapshots: make(map[domain.JobID]domain.Snapshot),
	}
}

func (m *mockDownloadService) Request(ctx context.Context, sourceID, title string) (*service.RequestResult, error) {
	m.gotSourceID = sourceID
	m.gotTitle = title
	if sourceID == "" {
		return nil, domain.ErrMissingSourceID
	}
	if m.requestErr != nil {
		return nil, m.requestErr
	}
	return m.result, nil
}

func (m *mockDownloadService) Status(id domain.JobID) (domain.Snapshot, error) {
	snap, ok := m.snapshots[id]
	if !ok {
		return domain.Snapshot{}, domain.ErrJobNotFound
	}
	return snap, nil
}

func (m *mockDownloadService) Jobs() []domain.Snapshot {
	out := make([]domain.Snapshot, 0, len(m.snapshots))
	for _, s := range m.snapshots {
		out = append(out, s)
	}
	return out
}

// mockLibrary is a test implementation of MediaLibrary.
type mockLibrary struct {
	files     []domain.MediaFile
	listErr   error
	deleteErr error

	deleted []string
}

func (m *mockLibrary) List() ([]domain.MediaFile, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.files, nil
}

func (m *mockLibrary) Delete(filename string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, filename)
	return nil
}

// mockTool is a test implementation of ToolChecker.
type mockTool struct {
	version string
	err     error
}

func (m *mockTool) Version(ctx context.Context) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.version, nil
}
