// Package server serves rendered lesson pages and the lesson JSON APIs.
package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/itnihongo/kaiwa/internal/lesson"
	"github.com/itnihongo/kaiwa/internal/media"
	"github.com/itnihongo/kaiwa/internal/outline"
	"github.com/itnihongo/kaiwa/internal/views"
)

const ContentPrefix = "/content/"

// Options wires the server to its content and stores.
type Options struct {
	Renderer *lesson.Renderer
	Source   lesson.Source
	Probe    media.ResourceProbe
	// Views is nil when view counting is not configured.
	Views views.Store
	// ContentDir is served under ContentPrefix when set, limited to lesson assets.
	ContentDir          string
	LessonPageTemplate  string
	OutlinePageTemplate string
	AllowedOrigins      []string
}

type Server struct {
	opts Options
}

func New(opts Options) *Server {
	return &Server{opts: opts}
}

// Handler returns the routes wrapped in the CORS middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /project", s.handleProject)
	mux.HandleFunc("GET /lesson", s.handleLesson)
	mux.HandleFunc("GET /api/lesson", s.handleLessonAPI)
	mux.HandleFunc("GET /api/outline", s.handleOutlineAPI)
	mux.HandleFunc("GET /api/timeline", s.handleTimelineAPI)
	mux.Handle("/api/views", NewViewsHandler(s.opts.Views))
	if s.opts.ContentDir != "" {
		mux.Handle(ContentPrefix, contentHandler(s.opts.ContentDir))
	}
	return CORSMiddleware(mux, s.opts.AllowedOrigins)
}

// loadOutline reads the outline with availability and stored view counts.
func (s *Server) loadOutline(ctx context.Context) *outline.Outline {
	o := outline.Load(ctx, s.opts.Source)
	if s.opts.Probe != nil {
		o.CheckAvailability(ctx, s.opts.Probe)
	}
	if s.opts.Views != nil {
		counts, err := s.opts.Views.All(ctx)
		if err != nil {
			slog.Default().Warn("failed to load view counts", slog.Any("error", err))
		} else {
			o.ApplyViews(counts)
		}
	}
	return o
}

// lessonPath reads ?path= or ?project=&lesson=.
func lessonPath(r *http.Request) (string, bool) {
	q := r.URL.Query()
	return lesson.NormalizeLessonPath(q.Get("path"), q.Get("project"), q.Get("lesson"))
}
