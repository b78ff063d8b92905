// Package pdf exports lessons to print-friendly Markdown and PDF.
package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/mandolyte/mdtopdf"

	"github.com/itnihongo/kaiwa/internal/assets"
	"github.com/itnihongo/kaiwa/internal/dialogue"
	"github.com/itnihongo/kaiwa/internal/lesson"
	"github.com/itnihongo/kaiwa/internal/media"
)

// boldPattern matches **bold** text in markdown
var boldPattern = regexp.MustCompile(`\*\*([^*]+)\*\*`)

// BuildPrintLesson flattens the dialogue blocks of a lesson into print rows.
// Plain lines are kept verbatim.
func BuildPrintLesson(text, fallbackTitle string, hideSecondary bool) assets.PrintLesson {
	data := assets.PrintLesson{
		Title:         lesson.ParseTitle(text, fallbackTitle),
		HideSecondary: hideSecondary,
	}
	var current *assets.PrintPart
	flush := func() {
		if current != nil {
			data.Parts = append(data.Parts, *current)
			current = nil
		}
	}
	inBlock := false
	for _, event := range dialogue.Parse(text) {
		switch event.Kind {
		case dialogue.EventBlockOpen:
			flush()
			current = &assets.PrintPart{}
			inBlock = true
		case dialogue.EventRow:
			current.Rows = append(current.Rows, assets.PrintRow{
				Speaker:   event.Row.Speaker,
				Primary:   event.Row.Primary,
				Secondary: event.Row.Secondary,
			})
		case dialogue.EventBlockClose:
			flush()
			inBlock = false
		case dialogue.EventPlain:
			// blank lines inside a block only separate rows
			if inBlock {
				continue
			}
			if current == nil {
				current = &assets.PrintPart{}
			}
			current.Lines = append(current.Lines, event.Text)
		}
	}
	flush()
	return data
}

// ExportOptions controls a lesson export.
type ExportOptions struct {
	OutputDirectory string
	TemplatePath    string
	HideSecondary   bool
	// SkipPDF writes only the Markdown file.
	SkipPDF bool
}

// Export writes the print Markdown of a lesson into the output directory and
// converts it to PDF. It returns the path of the last file written.
func Export(text, lessonPath string, opts ExportOptions) (string, error) {
	base := media.BaseName(lessonPath)
	if base == "" {
		return "", fmt.Errorf("invalid lesson path %q", lessonPath)
	}
	if err := os.MkdirAll(opts.OutputDirectory, 0755); err != nil {
		return "", fmt.Errorf("os.MkdirAll(%s) > %w", opts.OutputDirectory, err)
	}

	markdownPath := filepath.Join(opts.OutputDirectory, base+".md")
	output, err := os.Create(markdownPath)
	if err != nil {
		return "", fmt.Errorf("os.Create(%s) > %w", markdownPath, err)
	}
	defer func() {
		_ = output.Close()
	}()

	data := BuildPrintLesson(text, base, opts.HideSecondary)
	if err := assets.WritePrintLesson(output, opts.TemplatePath, data); err != nil {
		return "", fmt.Errorf("assets.WritePrintLesson(%s) > %w", markdownPath, err)
	}
	if err := output.Close(); err != nil {
		return "", fmt.Errorf("output.Close() > %w", err)
	}
	if opts.SkipPDF {
		return markdownPath, nil
	}

	pdfPath, err := ConvertMarkdownToPDF(markdownPath)
	if err != nil {
		return "", fmt.Errorf("ConvertMarkdownToPDF(%s) > %w", markdownPath, err)
	}
	return pdfPath, nil
}

// ConvertMarkdownToPDF converts a markdown file to PDF using mdtopdf package
// The PDF file will be created in the same directory as the markdown file
func ConvertMarkdownToPDF(markdownPath string) (string, error) {
	if !strings.HasSuffix(markdownPath, ".md") {
		return "", fmt.Errorf("input file must have .md extension: %s", markdownPath)
	}

	content, err := os.ReadFile(markdownPath)
	if err != nil {
		return "", fmt.Errorf("os.ReadFile(%s) > %w", markdownPath, err)
	}
	content = stripBoldInBlockquotes(content)

	pdfPath := strings.TrimSuffix(markdownPath, ".md") + ".pdf"

	renderer := mdtopdf.NewPdfRenderer("P", "A4", pdfPath, "", nil, mdtopdf.LIGHT)
	if err := renderer.Process(content); err != nil {
		return "", fmt.Errorf("renderer.Process() > %w", err)
	}

	absPath, err := filepath.Abs(pdfPath)
	if err != nil {
		return pdfPath, nil
	}
	return absPath, nil
}

// stripBoldInBlockquotes removes **bold** markers in blockquote lines;
// mdtopdf renders blockquotes in italic and drops inline bold there.
func stripBoldInBlockquotes(content []byte) []byte {
	lines := strings.Split(string(content), "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, "> ") {
			lines[i] = boldPattern.ReplaceAllString(line, "$1")
		}
	}
	return []byte(strings.Join(lines, "\n"))
}
