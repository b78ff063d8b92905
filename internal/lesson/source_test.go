package lesson

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itnihongo/kaiwa/internal/config"
	"github.com/itnihongo/kaiwa/internal/media"
	"github.com/itnihongo/kaiwa/internal/testutil"
)

func TestFileSource_FetchText(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFile(t, root, "data/project1/a.md", "# A")
	source := NewFileSource(root)
	ctx := context.Background()

	got, err := source.FetchText(ctx, "data/project1/a.md")
	require.NoError(t, err)
	assert.Equal(t, "# A", got)

	got, err = source.FetchText(ctx, "/data/project1/a.md")
	require.NoError(t, err)
	assert.Equal(t, "# A", got)

	_, err = source.FetchText(ctx, "data/missing.md")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = source.FetchText(ctx, "../outside.md")
	assert.Error(t, err)
}

func TestFileSource_FetchText_OnlyLessonText(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFile(t, root, "kaiwa.yml", "token: ghp_SECRET")
	testutil.WriteFile(t, root, "data/views.yml", "token: ghp_SECRET")
	testutil.WriteFile(t, root, ".git/config.md", "ghp_SECRET")
	testutil.WriteFile(t, root, "notes.json", "{}")
	testutil.WriteFile(t, root, "data/outline.json", "[]")
	testutil.WriteFile(t, root, "data/outline.txt", "| a |")
	testutil.WriteFile(t, root, "lessons/a.timings.yml", "times: [0]")
	source := NewFileSource(root)

	tests := []struct {
		path    string
		wantErr bool
	}{
		{path: "kaiwa.yml", wantErr: true},
		{path: "data/views.yml", wantErr: true},
		{path: ".git/config.md", wantErr: true},
		{path: "notes.json", wantErr: true},
		{path: "data/outline.json"},
		{path: "data/outline.txt"},
		{path: "lessons/a.timings.yml"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := source.FetchText(context.Background(), tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrNotFound)
				assert.Empty(t, got)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestHTTPSource_FetchText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/data/a.md":
			assert.Equal(t, "no-cache", r.Header.Get("Cache-Control"))
			_, _ = w.Write([]byte("# A"))
		case "/data/broken.md":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	source := NewHTTPSource(server.URL+"/", time.Second)
	ctx := context.Background()

	got, err := source.FetchText(ctx, "data/a.md")
	require.NoError(t, err)
	assert.Equal(t, "# A", got)

	_, err = source.FetchText(ctx, "data/missing.md")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = source.FetchText(ctx, "data/broken.md")
	assert.EqualError(t, err, "500")
}

func TestOpenContent(t *testing.T) {
	source, probe := OpenContent(config.ContentConfig{RootDirectory: "site", RequestTimeoutSeconds: 1})
	assert.IsType(t, &FileSource{}, source)
	assert.IsType(t, &media.FileProbe{}, probe)

	source, probe = OpenContent(config.ContentConfig{BaseURL: "https://lessons.example.com", RequestTimeoutSeconds: 1})
	assert.IsType(t, &HTTPSource{}, source)
	assert.IsType(t, &media.HTTPProbe{}, probe)
}
