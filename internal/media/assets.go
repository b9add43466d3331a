package media

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// AssetKind classifies a temporary file owned by a request.
type AssetKind int

const (
	AssetVideo AssetKind = iota
	AssetAudio
	AssetScratch
)

func (k AssetKind) String() string {
	switch k {
	case AssetVideo:
		return "video"
	case AssetAudio:
		return "audio"
	default:
		return "scratch"
	}
}

// Asset is a request-scoped file on local storage.
type Asset struct {
	Kind AssetKind
	Path string
}

// Assets tracks every temporary file a single request creates so that they
// can all be removed once the response is ready. It is owned by one request
// and is not safe for concurrent use.
type Assets struct {
	dir    string
	assets []Asset
}

// NewAssets returns a tracker rooted at dir, or the system temp dir when dir
// is empty.
func NewAssets(dir string) *Assets {
	if strings.TrimSpace(dir) == "" {
		dir = os.TempDir()
	}
	return &Assets{dir: dir}
}

// EnsureDir creates the asset directory if it does not exist yet. It runs
// once at startup; Assets itself never creates directories.
func EnsureDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create temp directory %s: %w", dir, err)
	}
	return nil
}

// Dir is the directory new assets are created in.
func (a *Assets) Dir() string {
	return a.dir
}

// UniqueName returns prefix_<uuid>, unique across concurrent requests
// sharing the same directory.
func UniqueName(prefix string) string {
	return prefix + "_" + uuid.NewString()
}

// New reserves a unique path in the asset directory and tracks it. The file
// itself is not created.
func (a *Assets) New(kind AssetKind, prefix, ext string) string {
	path := filepath.Join(a.dir, UniqueName(prefix)+ext)
	a.Track(kind, path)
	return path
}

// Track registers an externally created path for cleanup. Tracking the same
// path twice is a no-op.
func (a *Assets) Track(kind AssetKind, path string) {
	for _, existing := range a.assets {
		if existing.Path == path {
			return
		}
	}
	a.assets = append(a.assets, Asset{Kind: kind, Path: path})
}

// List returns a copy of the tracked assets.
func (a *Assets) List() []Asset {
	return append([]Asset(nil), a.assets...)
}

// Count returns how many tracked assets have the given kind.
func (a *Assets) Count(kind AssetKind) int {
	n := 0
	for _, asset := range a.assets {
		if asset.Kind == kind {
			n++
		}
	}
	return n
}

// Cleanup removes every tracked file. Files that are already gone are not an
// error. It returns the removal failures so the caller can log them; the
// tracker is emptied either way.
func (a *Assets) Cleanup() []error {
	var errs []error
	for _, asset := range a.assets {
		if err := os.Remove(asset.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, fmt.Errorf("remove %s asset %s: %w", asset.Kind, asset.Path, err))
		}
	}
	a.assets = nil
	return errs
}
