// Package feed fetches the history feed and the question pages it refers to.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"practicelog/internal/models"
)

// ErrNotFound is returned when a source has no document under a name.
var ErrNotFound = errors.New("document not found")

// maxDocumentBytes caps a single fetched document.
const maxDocumentBytes = 16 << 20

// Source fetches named documents: the history file and question pages.
type Source interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
	Location() string
}

// NewSource returns an HTTPSource for http(s) locations and a DirSource for
// anything else.
func NewSource(location string, timeout time.Duration) (Source, error) {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return NewHTTPSource(location, timeout)
	}
	return NewDirSource(location), nil
}

// DirSource reads documents from a local directory.
type DirSource struct {
	dir string
}

func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

func (s *DirSource) Location() string { return s.dir }

// Path resolves name inside the directory. Names cannot climb out of it.
func (s *DirSource) Path(name string) string {
	rel := strings.TrimPrefix(path.Clean("/"+name), "/")
	return filepath.Join(s.dir, filepath.FromSlash(rel))
}

func (s *DirSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.Path(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", name, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxDocumentBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}

// HTTPSource reads documents relative to a base URL. Each fetch is a single
// attempt.
type HTTPSource struct {
	base   *url.URL
	client *http.Client
}

func NewHTTPSource(baseURL string, timeout time.Duration) (*HTTPSource, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source URL: %w", err)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return &HTTPSource{
		base:   u,
		client: &http.Client{Timeout: timeout},
	}, nil
}

func (s *HTTPSource) Location() string { return s.base.String() }

// Resolve turns a reference into an absolute URL on the source's host.
func (s *HTTPSource) Resolve(name string) (*url.URL, error) {
	ref, err := url.Parse(name)
	if err != nil {
		return nil, fmt.Errorf("invalid reference %q: %w", name, err)
	}
	u := s.base.ResolveReference(ref)
	if u.Host != s.base.Host || u.Scheme != s.base.Scheme {
		return nil, fmt.Errorf("reference %q leaves %s", name, s.base.Host)
	}
	return u, nil
}

func (s *HTTPSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	u, err := s.Resolve(name)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", u, ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", u, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", u, err)
	}
	return data, nil
}

// DecodeHistory decodes a history feed. A missing records field is an empty
// history, not an error.
func DecodeHistory(data []byte) (*models.History, error) {
	var h models.History
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("failed to decode history: %w", err)
	}
	if h.Records == nil {
		h.Records = []models.SessionRecord{}
	}
	return &h, nil
}

// LoadHistory fetches and decodes the history document name from src.
func LoadHistory(ctx context.Context, src Source, name string) (*models.History, error) {
	data, err := src.Fetch(ctx, name)
	if err != nil {
		return nil, err
	}
	return DecodeHistory(data)
}
