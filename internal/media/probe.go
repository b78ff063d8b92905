package media

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

//go:generate mockgen -source=probe.go -destination=../mocks/media/mock_probe.go -package=mock_media

// ResourceProbe answers whether a resource exists. Implementations never fail:
// any error is reported as "does not exist".
type ResourceProbe interface {
	Exists(ctx context.Context, resourcePath string) bool
}

// HTTPProbe checks resources with a HEAD request and falls back to a one byte ranged GET.
type HTTPProbe struct {
	client *resty.Client
}

// NewHTTPProbe creates a probe resolving relative paths against baseURL.
func NewHTTPProbe(baseURL string, timeout time.Duration) *HTTPProbe {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Cache-Control", "no-cache")
	if baseURL != "" {
		client.SetBaseURL(strings.TrimSuffix(baseURL, "/"))
	}
	return &HTTPProbe{client: client}
}

func (p *HTTPProbe) Exists(ctx context.Context, resourcePath string) bool {
	target := resourcePath
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		target = "/" + strings.TrimPrefix(target, "/")
	}

	res, err := p.client.R().
		SetContext(ctx).
		Head(target)
	if err == nil && res.IsSuccess() {
		return true
	}
	if err != nil {
		slog.Default().Debug("HEAD probe failed, retrying with ranged GET",
			slog.String("path", resourcePath),
			slog.Any("error", err),
		)
	}

	res, err = p.client.R().
		SetContext(ctx).
		SetHeader("Range", "bytes=0-0").
		SetDoNotParseResponse(true).
		Get(target)
	if err != nil {
		slog.Default().Debug("ranged GET probe failed",
			slog.String("path", resourcePath),
			slog.Any("error", err),
		)
		return false
	}
	if body := res.RawBody(); body != nil {
		_ = body.Close()
	}
	return res.IsSuccess()
}

// FileProbe checks resources on the local filesystem below a root directory.
type FileProbe struct {
	rootDir string
}

func NewFileProbe(rootDir string) *FileProbe {
	return &FileProbe{rootDir: rootDir}
}

func (p *FileProbe) Exists(_ context.Context, resourcePath string) bool {
	cleaned := path.Clean(strings.TrimPrefix(resourcePath, "/"))
	if !fs.ValidPath(cleaned) {
		return false
	}
	info, err := os.Stat(filepath.Join(p.rootDir, filepath.FromSlash(cleaned)))
	if err != nil {
		return false
	}
	return !info.IsDir()
}
