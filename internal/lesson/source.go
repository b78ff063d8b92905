// Package lesson fetches lesson Markdown and renders it into the enhanced lesson body.
package lesson

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/itnihongo/kaiwa/internal/config"
	"github.com/itnihongo/kaiwa/internal/media"
)

//go:generate mockgen -source=source.go -destination=../mocks/lesson/mock_source.go -package=mock_lesson

// ErrNotFound is returned when the requested text does not exist.
var ErrNotFound = errors.New("not found")

// Source fetches lesson text and sidecar files by content path.
type Source interface {
	FetchText(ctx context.Context, contentPath string) (string, error)
}

// FileSource reads lesson text below a root directory. Anything else under the
// root, such as the config file, is reported as ErrNotFound.
type FileSource struct {
	rootDir string
}

func NewFileSource(rootDir string) *FileSource {
	return &FileSource{rootDir: rootDir}
}

func (s *FileSource) FetchText(_ context.Context, contentPath string) (string, error) {
	cleaned := path.Clean(strings.TrimPrefix(contentPath, "/"))
	if !fs.ValidPath(cleaned) {
		return "", fmt.Errorf("invalid path %q", contentPath)
	}
	if !isContentText(cleaned) {
		return "", fmt.Errorf("%s: %w", contentPath, ErrNotFound)
	}
	data, err := os.ReadFile(filepath.Join(s.rootDir, filepath.FromSlash(cleaned)))
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%s: %w", contentPath, ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("os.ReadFile(%s) > %w", contentPath, err)
	}
	return string(data), nil
}

// HTTPSource fetches content from a static site.
type HTTPSource struct {
	client *resty.Client
}

func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	client := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Cache-Control", "no-cache")
	return &HTTPSource{client: client}
}

func (s *HTTPSource) FetchText(ctx context.Context, contentPath string) (string, error) {
	res, err := s.client.R().
		SetContext(ctx).
		Get("/" + strings.TrimPrefix(contentPath, "/"))
	if err != nil {
		return "", fmt.Errorf("client.Get(%s) > %w", contentPath, err)
	}
	if res.StatusCode() == http.StatusNotFound {
		return "", fmt.Errorf("%s: %w", contentPath, ErrNotFound)
	}
	if !res.IsSuccess() {
		return "", fmt.Errorf("%d", res.StatusCode())
	}
	return string(res.Body()), nil
}

// OpenContent returns the lesson source and video probe for the content settings:
// HTTP when a base URL is configured, the root directory otherwise.
func OpenContent(cfg config.ContentConfig) (Source, media.ResourceProbe) {
	if cfg.BaseURL != "" {
		return NewHTTPSource(cfg.BaseURL, cfg.RequestTimeout()), media.NewHTTPProbe(cfg.BaseURL, cfg.RequestTimeout())
	}
	return NewFileSource(cfg.RootDirectory), media.NewFileProbe(cfg.RootDirectory)
}
