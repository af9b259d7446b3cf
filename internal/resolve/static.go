package resolve

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"recipekit/internal/config"
)

// StaticSource fetches published site content by folder-relative path. Fetch
// returns (nil, nil) when the content does not exist at the source; errors are
// reserved for transport failures.
type StaticSource interface {
	Name() string
	Fetch(ctx context.Context, folderID, relPath string) ([]byte, error)
}

const defaultFetchTimeout = 15 * time.Second

// maxStaticFetchBytes bounds a single static fetch well above the per-asset
// size ceiling so an oversized response fails fast instead of buffering.
const maxStaticFetchBytes = 64 << 20

// NewStaticSource builds the source matching the configured static base: an
// http(s) base URL or a local directory. An empty base yields nil, which the
// resolver treats as "no static tier".
func NewStaticSource(cfg *config.Config) StaticSource {
	base := strings.TrimSpace(cfg.Paths.StaticBase)
	if base == "" {
		return nil
	}
	if cfg.StaticBaseIsHTTP() {
		return &HTTPSource{
			baseURL: strings.TrimRight(base, "/"),
			client:  &http.Client{Timeout: defaultFetchTimeout},
		}
	}
	return &DirSource{baseDir: base}
}

// DirSource serves static content from a local directory tree laid out as
// <base>/<folderId>/<relPath>.
type DirSource struct {
	baseDir string
}

// NewDirSource creates a directory-backed static source rooted at baseDir.
func NewDirSource(baseDir string) *DirSource {
	return &DirSource{baseDir: baseDir}
}

func (s *DirSource) Name() string { return "static-dir" }

func (s *DirSource) Fetch(_ context.Context, folderID, relPath string) ([]byte, error) {
	full := filepath.Join(s.baseDir, folderID, filepath.FromSlash(relPath))
	data, err := os.ReadFile(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read static file %q: %w", full, err)
	}
	return data, nil
}

// HTTPSource serves static content from a published site over http(s).
type HTTPSource struct {
	baseURL string
	client  *http.Client
}

// NewHTTPSource creates an HTTP-backed static source with the given base URL.
func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return &HTTPSource{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (s *HTTPSource) Name() string { return "static-http" }

func (s *HTTPSource) Fetch(ctx context.Context, folderID, relPath string) ([]byte, error) {
	target := s.baseURL + "/" + url.PathEscape(folderID) + "/" + escapePath(relPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build static request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch static content: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("fetch static content: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxStaticFetchBytes))
	if err != nil {
		return nil, fmt.Errorf("read static response: %w", err)
	}
	return data, nil
}

func escapePath(relPath string) string {
	segments := strings.Split(path.Clean(relPath), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return strings.Join(segments, "/")
}
