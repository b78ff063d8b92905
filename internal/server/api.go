package server

import (
	"errors"
	"net/http"

	"github.com/itnihongo/kaiwa/internal/lesson"
	"github.com/itnihongo/kaiwa/internal/media"
)

type lessonResponse struct {
	Path        string      `json:"path"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	HTML        string      `json:"html"`
	Video       string      `json:"video,omitempty"`
	Mode        media.Mode  `json:"mode,omitempty"`
	Timeline    []media.Cue `json:"timeline,omitempty"`
}

type timelineResponse struct {
	Path  string      `json:"path"`
	Video string      `json:"video"`
	Cues  []media.Cue `json:"cues"`
	// Ordered is false when a timed row starts before an earlier one.
	Ordered bool `json:"ordered"`
}

func (s *Server) handleLessonAPI(w http.ResponseWriter, r *http.Request) {
	page, ok := s.renderForAPI(w, r)
	if !ok {
		return
	}
	res := lessonResponse{
		Path:        page.Path,
		Title:       page.Title,
		Description: page.Description,
		HTML:        page.Body,
	}
	if page.Binding != nil {
		res.Video = page.Binding.Video
		res.Mode = page.Binding.Mode()
		res.Timeline = page.Binding.Timeline()
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleTimelineAPI(w http.ResponseWriter, r *http.Request) {
	page, ok := s.renderForAPI(w, r)
	if !ok {
		return
	}
	res := timelineResponse{Path: page.Path, Cues: []media.Cue{}, Ordered: true}
	if page.Binding != nil {
		res.Video = page.Binding.Video
		res.Cues = page.Binding.Timeline()
		res.Ordered = page.Binding.ValidateTimeline() == nil
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleOutlineAPI(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.loadOutline(r.Context()))
}

// renderForAPI renders the requested lesson, writing the error response itself
// when the lesson is missing or could not be loaded.
func (s *Server) renderForAPI(w http.ResponseWriter, r *http.Request) (*lesson.Page, bool) {
	path, ok := lessonPath(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "Invalid path")
		return nil, false
	}
	page := s.opts.Renderer.Render(r.Context(), path)
	if page.Err != nil {
		if errors.Is(page.Err, lesson.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Lesson not found")
			return nil, false
		}
		writeError(w, http.StatusInternalServerError, page.Err.Error())
		return nil, false
	}
	return page, true
}
