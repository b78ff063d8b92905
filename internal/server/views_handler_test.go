package server_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	mock_views "github.com/itnihongo/kaiwa/internal/mocks/views"
	"github.com/itnihongo/kaiwa/internal/server"
	"github.com/itnihongo/kaiwa/internal/views"
)

func TestViewsHandler(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		target      string
		body        string
		setup       func(store *mock_views.MockStore)
		wantStatus  int
		wantBody    string
		wantNoStore bool
	}{
		{
			name:        "preflight",
			method:      http.MethodOptions,
			target:      "/api/views",
			wantStatus:  http.StatusNoContent,
			wantNoStore: true,
		},
		{
			name:   "all counts",
			method: http.MethodGet,
			target: "/api/views?all=1",
			setup: func(store *mock_views.MockStore) {
				store.EXPECT().All(gomock.Any()).Return(map[string]int64{"a": 2, "b": 1}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"a":2,"b":1}`,
		},
		{
			name:   "one count",
			method: http.MethodGet,
			target: "/api/views?id=%20lesson-01%20",
			setup: func(store *mock_views.MockStore) {
				store.EXPECT().Get(gomock.Any(), "lesson-01").Return(int64(4), nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"id":"lesson-01","count":4}`,
		},
		{
			name:        "invalid id",
			method:      http.MethodGet,
			target:      "/api/views?id=a/b",
			wantStatus:  http.StatusBadRequest,
			wantBody:    `{"error":"Invalid id"}`,
			wantNoStore: true,
		},
		{
			name:   "increment",
			method: http.MethodPost,
			target: "/api/views",
			body:   `{"id":"lesson-01"}`,
			setup: func(store *mock_views.MockStore) {
				store.EXPECT().Increment(gomock.Any(), "lesson-01").Return(int64(5), nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   `{"id":"lesson-01","count":5}`,
		},
		{
			name:        "increment without body",
			method:      http.MethodPost,
			target:      "/api/views",
			wantStatus:  http.StatusBadRequest,
			wantBody:    `{"error":"Invalid id"}`,
			wantNoStore: true,
		},
		{
			name:   "store failure",
			method: http.MethodPost,
			target: "/api/views",
			body:   `{"id":"lesson-01"}`,
			setup: func(store *mock_views.MockStore) {
				store.EXPECT().Increment(gomock.Any(), "lesson-01").Return(int64(0), errors.New("GH_PUT 409"))
			},
			wantStatus:  http.StatusInternalServerError,
			wantBody:    `{"error":"GH_PUT 409"}`,
			wantNoStore: true,
		},
		{
			name:   "not configured",
			method: http.MethodGet,
			target: "/api/views?all=1",
			setup: func(store *mock_views.MockStore) {
				store.EXPECT().All(gomock.Any()).Return(nil, fmt.Errorf("open > %w", views.ErrNotConfigured))
			},
			wantStatus:  http.StatusInternalServerError,
			wantBody:    `{"error":"Server not configured"}`,
			wantNoStore: true,
		},
		{
			name:        "method not allowed",
			method:      http.MethodDelete,
			target:      "/api/views?id=a",
			wantStatus:  http.StatusMethodNotAllowed,
			wantBody:    `{"error":"Method not allowed"}`,
			wantNoStore: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := mock_views.NewMockStore(ctrl)
			if tt.setup != nil {
				tt.setup(store)
			}

			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			server.NewViewsHandler(store).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
			if tt.wantNoStore {
				assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
			} else {
				assert.Empty(t, rec.Header().Get("Cache-Control"))
			}
		})
	}
}

func TestViewsHandler_NoStore(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/views?all=1", nil)
	rec := httptest.NewRecorder()
	server.NewViewsHandler(nil).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Server not configured"}`, rec.Body.String())
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}
