package server

import (
	"bytes"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/itnihongo/kaiwa/internal/assets"
	"github.com/itnihongo/kaiwa/internal/lesson"
	"github.com/itnihongo/kaiwa/internal/media"
	"github.com/itnihongo/kaiwa/internal/views"
)

const (
	siteTitle          = "IT Nihongo Kaiwa"
	siteDescription    = "Bài học IT tiếng Nhật theo dự án."
	emptyOutlineText   = "Chưa có bài học."
	projectMissingText = "Không tìm thấy dự án."
	backToIndexLabel   = "Quay lại danh sách dự án"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	o := s.loadOutline(r.Context())
	s.writeOutlinePage(w, http.StatusOK, assets.OutlinePage{
		Title:       siteTitle,
		Description: siteDescription,
		Groups:      o.Groups,
		Empty:       emptyOutlineText,
	})
}

func (s *Server) handleProject(w http.ResponseWriter, r *http.Request) {
	missing := assets.OutlinePage{
		Title:     siteTitle + " ・ Project",
		BackURL:   "/",
		BackLabel: backToIndexLabel,
		Empty:     projectMissingText,
	}
	id := r.URL.Query().Get("id")
	if id == "" {
		s.writeOutlinePage(w, http.StatusNotFound, missing)
		return
	}
	project, ok := s.loadOutline(r.Context()).FindProject(id)
	if !ok {
		s.writeOutlinePage(w, http.StatusNotFound, missing)
		return
	}
	title := project.Title
	if title == "" {
		title = project.ID
	}
	s.writeOutlinePage(w, http.StatusOK, assets.OutlinePage{
		Title:       siteTitle + " ・ " + title,
		Description: project.Description,
		BackURL:     "/",
		BackLabel:   backToIndexLabel,
		Icon:        project.Icon,
		Groups:      project.Groups,
		Empty:       emptyOutlineText,
	})
}

func (s *Server) handleLesson(w http.ResponseWriter, r *http.Request) {
	path, ok := lessonPath(r)
	if !ok {
		s.writeLessonPage(w, http.StatusNotFound, assets.LessonPage{
			Title: siteTitle,
			Body:  template.HTML(lesson.NotFoundBlock()),
		})
		return
	}

	page := s.opts.Renderer.Render(r.Context(), path)
	status := http.StatusOK
	if page.Err != nil {
		status = http.StatusInternalServerError
		if errors.Is(page.Err, lesson.ErrNotFound) {
			status = http.StatusNotFound
		}
	}
	data := assets.LessonPage{
		Title:       page.Title,
		Description: page.Description,
		Path:        page.Path,
		Body:        template.HTML(page.Body),
	}
	if status == http.StatusOK && page.Binding != nil {
		data.TimelineURL = "/api/timeline?path=" + url.QueryEscape(page.Path)
	}
	if status == http.StatusOK && s.opts.Views != nil {
		if id, err := views.SanitizeID(media.BaseName(path)); err == nil {
			data.ViewsID = id
		}
	}
	s.writeLessonPage(w, status, data)
}

func (s *Server) writeLessonPage(w http.ResponseWriter, status int, data assets.LessonPage) {
	var buf bytes.Buffer
	if err := assets.WriteLessonPage(&buf, s.opts.LessonPageTemplate, data); err != nil {
		slog.Default().Error("failed to render lesson page", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	writeHTML(w, status, buf.Bytes())
}

func (s *Server) writeOutlinePage(w http.ResponseWriter, status int, data assets.OutlinePage) {
	var buf bytes.Buffer
	if err := assets.WriteOutlinePage(&buf, s.opts.OutlinePageTemplate, data); err != nil {
		slog.Default().Error("failed to render outline page", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	writeHTML(w, status, buf.Bytes())
}

func writeHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}
