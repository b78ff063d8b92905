// Package assets holds the embedded page and print templates, each overridable
// by a template file on disk.
package assets

import (
	_ "embed"
	"fmt"
	htmltemplate "html/template"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

const (
	lessonPrintTemplateName = "lesson-print.md.go.tmpl"
	lessonPageTemplateName  = "lesson-page.html.tmpl"
	outlinePageTemplateName = "outline-page.html.tmpl"
)

//go:embed templates/lesson-print.md.go.tmpl
var fallbackLessonPrintTemplate string

//go:embed templates/lesson-page.html.tmpl
var fallbackLessonPageTemplate string

//go:embed templates/outline-page.html.tmpl
var fallbackOutlinePageTemplate string

func ParseLessonPrintTemplate(templatePath string) (*template.Template, error) {
	return parseTemplateWithFallback(templatePath, lessonPrintTemplateName, fallbackLessonPrintTemplate)
}

func ParseLessonPageTemplate(templatePath string) (*htmltemplate.Template, error) {
	return parseHTMLTemplateWithFallback(templatePath, lessonPageTemplateName, fallbackLessonPageTemplate)
}

func ParseOutlinePageTemplate(templatePath string) (*htmltemplate.Template, error) {
	return parseHTMLTemplateWithFallback(templatePath, outlinePageTemplateName, fallbackOutlinePageTemplate)
}

var funcMap = map[string]any{
	"join": strings.Join,
}

func parseTemplateWithFallback(templatePath, fallbackName, fallbackTemplate string) (*template.Template, error) {
	if templatePath != "" {
		if _, err := os.Stat(templatePath); err == nil {
			tmpl, err := template.New(filepath.Base(templatePath)).
				Funcs(funcMap).
				ParseFiles(templatePath)
			if err == nil {
				return tmpl, nil
			}
			slog.Default().Warn("failed to parse a templatePath",
				slog.String("templatePath", templatePath),
				slog.Any("error", err),
			)
		}
	}

	tmpl, err := template.New(fallbackName).
		Funcs(funcMap).
		Parse(fallbackTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded template: %w", err)
	}
	return tmpl, nil
}

func parseHTMLTemplateWithFallback(templatePath, fallbackName, fallbackTemplate string) (*htmltemplate.Template, error) {
	if templatePath != "" {
		if _, err := os.Stat(templatePath); err == nil {
			tmpl, err := htmltemplate.New(filepath.Base(templatePath)).
				Funcs(funcMap).
				ParseFiles(templatePath)
			if err == nil {
				return tmpl, nil
			}
			slog.Default().Warn("failed to parse a templatePath",
				slog.String("templatePath", templatePath),
				slog.Any("error", err),
			)
		}
	}

	tmpl, err := htmltemplate.New(fallbackName).
		Funcs(funcMap).
		Parse(fallbackTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded template: %w", err)
	}
	return tmpl, nil
}
