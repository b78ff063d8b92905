package assets

import (
	"fmt"
	"io"
)

// PrintLesson is the data of the print (PDF) rendition of a lesson.
type PrintLesson struct {
	Title string
	// HideSecondary drops the Vietnamese lines.
	HideSecondary bool
	Parts         []PrintPart
}

// PrintPart is either a run of plain Markdown lines or one dialogue block.
type PrintPart struct {
	Lines []string
	Rows  []PrintRow
}

type PrintRow struct {
	Speaker   string
	Primary   string
	Secondary string
}

func WritePrintLesson(output io.Writer, templatePath string, templateData PrintLesson) error {
	tmpl, err := ParseLessonPrintTemplate(templatePath)
	if err != nil {
		return fmt.Errorf("ParseLessonPrintTemplate() > %w", err)
	}
	if err := tmpl.Execute(output, templateData); err != nil {
		return fmt.Errorf("tmpl.Execute() > %w", err)
	}
	return nil
}
