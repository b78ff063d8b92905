package media

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPProbe_Exists(t *testing.T) {
	var mu sync.Mutex
	var requests []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requests = append(requests, r.Method+" "+r.URL.Path+" "+r.Header.Get("Range"))
		mu.Unlock()

		switch r.URL.Path {
		case "/video/head.mp4":
			w.WriteHeader(http.StatusOK)
		case "/video/ranged.mp4":
			if r.Method == http.MethodHead {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			w.WriteHeader(http.StatusPartialContent)
			_, _ = w.Write([]byte{0})
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	tests := []struct {
		name         string
		path         string
		want         bool
		wantRequests []string
	}{
		{
			name:         "HEAD succeeds",
			path:         "video/head.mp4",
			want:         true,
			wantRequests: []string{"HEAD /video/head.mp4 "},
		},
		{
			name: "falls back to ranged GET",
			path: "/video/ranged.mp4",
			want: true,
			wantRequests: []string{
				"HEAD /video/ranged.mp4 ",
				"GET /video/ranged.mp4 bytes=0-0",
			},
		},
		{
			name: "missing",
			path: "videos/none.mp4",
			want: false,
			wantRequests: []string{
				"HEAD /videos/none.mp4 ",
				"GET /videos/none.mp4 bytes=0-0",
			},
		},
	}

	probe := NewHTTPProbe(server.URL+"/", time.Second)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mu.Lock()
			requests = nil
			mu.Unlock()

			assert.Equal(t, tt.want, probe.Exists(context.Background(), tt.path))

			mu.Lock()
			defer mu.Unlock()
			assert.Equal(t, tt.wantRequests, requests)
		})
	}
}

func TestHTTPProbe_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	probe := NewHTTPProbe(url, 200*time.Millisecond)
	assert.False(t, probe.Exists(context.Background(), "video/a.mp4"))
}

func TestFileProbe_Exists(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "video", "project1"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "video", "project1", "a.mp4"), []byte("x"), 0o644))

	probe := NewFileProbe(dir)
	ctx := context.Background()

	assert.True(t, probe.Exists(ctx, "video/project1/a.mp4"))
	assert.True(t, probe.Exists(ctx, "/video/project1/a.mp4"))
	assert.False(t, probe.Exists(ctx, "video/project1"))
	assert.False(t, probe.Exists(ctx, "video/b.mp4"))
	assert.False(t, probe.Exists(ctx, "../video/project1/a.mp4"))
}
