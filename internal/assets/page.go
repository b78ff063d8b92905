package assets

import (
	"fmt"
	htmltemplate "html/template"
	"io"

	"github.com/itnihongo/kaiwa/internal/outline"
)

// LessonPage is the data of a rendered lesson page.
type LessonPage struct {
	Title       string
	Description string
	Path        string
	// Body is trusted markup produced by the lesson renderer.
	Body htmltemplate.HTML
	// ViewsID is the id posted to the views API on load; empty disables counting.
	ViewsID string
	// TimelineURL serves the cues of the page video; empty when there is none.
	TimelineURL string
}

// OutlinePage lists outline groups, for the index or one project.
type OutlinePage struct {
	Title       string
	Description string
	BackURL     string
	BackLabel   string
	Icon        string
	Groups      []outline.Group
	// Empty is shown when there is nothing to list.
	Empty string
}

func WriteLessonPage(output io.Writer, templatePath string, data LessonPage) error {
	tmpl, err := ParseLessonPageTemplate(templatePath)
	if err != nil {
		return fmt.Errorf("ParseLessonPageTemplate() > %w", err)
	}
	if err := tmpl.Execute(output, data); err != nil {
		return fmt.Errorf("tmpl.Execute() > %w", err)
	}
	return nil
}

func WriteOutlinePage(output io.Writer, templatePath string, data OutlinePage) error {
	tmpl, err := ParseOutlinePageTemplate(templatePath)
	if err != nil {
		return fmt.Errorf("ParseOutlinePageTemplate() > %w", err)
	}
	if err := tmpl.Execute(output, data); err != nil {
		return fmt.Errorf("tmpl.Execute() > %w", err)
	}
	return nil
}
