package lesson

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/net/html"

	"github.com/itnihongo/kaiwa/internal/dialogue"
	"github.com/itnihongo/kaiwa/internal/enhance"
	"github.com/itnihongo/kaiwa/internal/htmldom"
	"github.com/itnihongo/kaiwa/internal/media"
)

const (
	siteTitle          = "IT Nihongo Kaiwa"
	summaryLimit       = 160
	ClassRawFallback   = "lesson-raw"
	ClassBackButton    = "back-button"
	backButtonLabel    = "Quay lại dự án"
	notFoundLessonText = "Không tìm thấy bài học."
)

// Page is a rendered lesson.
type Page struct {
	Path        string
	ProjectID   string
	Title       string
	Description string
	// Body is the lesson HTML, or the error block when the lesson could not be loaded.
	Body    string
	Binding *media.Binding
	// Err is the fetch error shown in Body, if any.
	Err error
}

// RenderOptions tune the media binding of rendered lessons.
type RenderOptions struct {
	Tolerances   media.Tolerances
	PublicPrefix string
	// SkipMedia renders without resolving a video.
	SkipMedia bool
	// NewPlayer creates the player bound to each lesson; a simulated one when nil.
	NewPlayer func() media.Player
}

// Renderer turns lesson Markdown into the enhanced lesson body.
type Renderer struct {
	source Source
	probe  media.ResourceProbe
	md     goldmark.Markdown
	opts   RenderOptions
}

func NewRenderer(source Source, probe media.ResourceProbe, opts RenderOptions) *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			gmhtml.WithHardWraps(),
			gmhtml.WithUnsafe(),
		),
	)
	return &Renderer{
		source: source,
		probe:  probe,
		md:     md,
		opts:   opts,
	}
}

// Render fetches and renders a lesson. It never fails: a missing lesson yields
// the localized error block and a broken Markdown pass yields the raw text.
func (r *Renderer) Render(ctx context.Context, lessonPath string) *Page {
	page := &Page{
		Path:      lessonPath,
		ProjectID: ProjectID(lessonPath),
		Title:     fmt.Sprintf("%s ・ %s", siteTitle, media.BaseName(lessonPath)),
	}

	if !IsLessonPath(lessonPath) {
		page.Err = fmt.Errorf("%s: %w", lessonPath, ErrNotFound)
		page.Body = NotFoundBlock()
		return page
	}

	text, err := r.source.FetchText(ctx, lessonPath)
	if err != nil {
		slog.Default().Warn("failed to load lesson",
			slog.String("path", lessonPath),
			slog.Any("error", err),
		)
		page.Err = err
		page.Body = ErrorBlock(err)
		return page
	}
	page.Title = fmt.Sprintf("%s ・ %s", siteTitle, ParseTitle(text, media.BaseName(lessonPath)))
	page.Description = Summarize(text, summaryLimit)

	root, err := r.markdown(text)
	if err != nil {
		slog.Default().Warn("markdown rendering failed, showing raw text",
			slog.String("path", lessonPath),
			slog.Any("error", err),
		)
		page.Body = RawFallback(text)
		return page
	}

	if IsProjectLesson(lessonPath) {
		htmldom.Prepend(root, backButton(page.ProjectID))
	}
	enhance.Lesson(root)
	if !r.opts.SkipMedia {
		page.Binding = r.attachMedia(ctx, root, lessonPath)
	}

	body, err := htmldom.InnerHTML(root)
	if err != nil {
		page.Body = RawFallback(text)
		return page
	}
	page.Body = body
	return page
}

func (r *Renderer) markdown(text string) (*html.Node, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(dialogue.PreprocessForMarkdown(text)), &buf); err != nil {
		return nil, fmt.Errorf("md.Convert() > %w", err)
	}
	root, err := htmldom.ParseFragment(buf.String())
	if err != nil {
		return nil, fmt.Errorf("htmldom.ParseFragment() > %w", err)
	}
	return root, nil
}

func (r *Renderer) attachMedia(ctx context.Context, root *html.Node, lessonPath string) *media.Binding {
	var player media.Player
	if r.opts.NewPlayer != nil {
		player = r.opts.NewPlayer()
	}
	return media.Attach(ctx, root, lessonPath, media.AttachOptions{
		Probe:        r.probe,
		Player:       player,
		Tolerances:   r.opts.Tolerances,
		Times:        r.timings(ctx, lessonPath),
		PublicPrefix: r.opts.PublicPrefix,
	})
}

// timings loads the optional sidecar; a missing or broken file means no timing.
func (r *Renderer) timings(ctx context.Context, lessonPath string) []media.Timestamp {
	sidecar := media.TimingsPath(lessonPath)
	if sidecar == "" {
		return nil
	}
	text, err := r.source.FetchText(ctx, sidecar)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			slog.Default().Warn("failed to load lesson timings",
				slog.String("path", sidecar),
				slog.Any("error", err),
			)
		}
		return nil
	}
	timings, err := media.ParseTimings([]byte(text))
	if err != nil {
		slog.Default().Warn("invalid lesson timings",
			slog.String("path", sidecar),
			slog.Any("error", err),
		)
		return nil
	}
	return timings.Times
}

// ErrorBlock is shown in place of a lesson that could not be loaded.
func ErrorBlock(err error) string {
	return `<blockquote><span class="label vn">Info</span> <span class="vn">Không thể tải: ` +
		html.EscapeString(err.Error()) + `</span></blockquote>`
}

// NotFoundBlock is shown when no lesson path could be derived from the request.
func NotFoundBlock() string {
	return `<p class="loading">` + notFoundLessonText + `</p>`
}

// RawFallback shows the lesson text without Markdown or dialogue styling.
func RawFallback(text string) string {
	return `<pre class="` + ClassRawFallback + `">` + html.EscapeString(text) + `</pre>`
}

func backButton(projectID string) *html.Node {
	wrapper := htmldom.NewElement("div", ClassBackButton)
	link := htmldom.NewElement("a", "back-link")
	htmldom.SetAttr(link, "href", "/project?id="+projectID)
	link.AppendChild(htmldom.NewText(backButtonLabel))
	wrapper.AppendChild(link)
	return wrapper
}
