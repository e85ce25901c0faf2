// Package library manages the directory of downloaded media files. The
// directory doubles as the download cache: a file whose name contains a
// video ID counts as that video, with no integrity verification.
package library

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/clipvault/clipvault/internal/domain"
)

// ServePrefix is the URL prefix under which files are served.
const ServePrefix = "/videos/"

var mediaExtensions = map[string]bool{
	".mp4":  true,
	".webm": true,
	".mkv":  true,
}

// Library reads and deletes files in the download directory.
type Library struct {
	dir string
}

// New creates a library over dir.
func New(dir string) *Library {
	return &Library{dir: dir}
}

// Dir returns the download directory path.
func (l *Library) Dir() string {
	return l.dir
}

// IsMediaFile reports whether name has a recognized media extension.
func IsMediaFile(name string) bool {
	return mediaExtensions[strings.ToLower(filepath.Ext(name))]
}

// FindBySourceID returns the serving path of the first media file whose
// name contains sourceID, if any.
func (l *Library) FindBySourceID(sourceID string) (string, bool) {
	if sourceID == "" {
		return "", false
	}

	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return "", false
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.Contains(name, sourceID) && IsMediaFile(name) {
			return ServePrefix + name, true
		}
	}

	return "", false
}

// List returns all media files in the directory sorted by name.
func (l *Library) List() ([]domain.MediaFile, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, err
	}

	files := make([]domain.MediaFile, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !IsMediaFile(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, domain.MediaFile{
			Name: e.Name(),
			Path: ServePrefix + e.Name(),
			Size: info.Size(),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// Delete removes one file by name. Names containing path separators are
// rejected so callers cannot escape the download directory.
func (l *Library) Delete(filename string) error {
	if filename == "" || filename != filepath.Base(filename) || strings.Contains(filename, "..") {
		return domain.ErrInvalidFilename
	}

	err := os.Remove(filepath.Join(l.dir, filename))
	if errors.Is(err, fs.ErrNotExist) {
		return domain.ErrFileNotFound
	}
	return err
}
