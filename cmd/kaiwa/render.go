package main

import (
	"fmt"
	"html/template"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/itnihongo/kaiwa/internal/assets"
	"github.com/itnihongo/kaiwa/internal/lesson"
	"github.com/itnihongo/kaiwa/internal/pdf"
)

// RenderFormat is the output of the render command.
type RenderFormat string

const (
	RenderFormatHTML     RenderFormat = "html"
	RenderFormatPage     RenderFormat = "page"
	RenderFormatMarkdown RenderFormat = "md"
)

// Set implements pflag.Value.
func (f *RenderFormat) Set(val string) error {
	switch RenderFormat(val) {
	case RenderFormatHTML, RenderFormatPage, RenderFormatMarkdown:
		*f = RenderFormat(val)
		return nil
	}
	return fmt.Errorf("invalid format: %s (want html, page or md)", val)
}

// String implements pflag.Value.
func (f *RenderFormat) String() string {
	return string(*f)
}

// Type implements pflag.Value.
func (f *RenderFormat) Type() string {
	return "RenderFormat"
}

var (
	_ pflag.Value = (*RenderFormat)(nil)
)

func newRenderCommand() *cobra.Command {
	format := RenderFormatHTML
	var output string
	var noMedia bool

	command := &cobra.Command{
		Use:   "render <lesson-path>",
		Short: "Render a lesson with its dialogue, vocabulary and video layout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			renderer, _ := newRenderer(cfg, lesson.RenderOptions{SkipMedia: noMedia})

			page := renderer.Render(cmd.Context(), args[0])
			if page.Err != nil {
				return fmt.Errorf("render %s > %w", args[0], page.Err)
			}

			var out io.Writer = cmd.OutOrStdout()
			if output != "" {
				file, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("os.Create(%s) > %w", output, err)
				}
				defer func() {
					_ = file.Close()
				}()
				out = file
			}

			switch format {
			case RenderFormatPage:
				return assets.WriteLessonPage(out, cfg.Templates.LessonPageTemplate, assets.LessonPage{
					Title:       page.Title,
					Description: page.Description,
					Path:        page.Path,
					Body:        template.HTML(page.Body),
				})
			case RenderFormatMarkdown:
				markdown, err := pdf.PortableMarkdown(page.Body)
				if err != nil {
					return fmt.Errorf("pdf.PortableMarkdown() > %w", err)
				}
				_, err = fmt.Fprintln(out, markdown)
				return err
			default:
				_, err = fmt.Fprintln(out, page.Body)
				return err
			}
		},
	}

	command.Flags().Var(&format, "format", "output format: html, page or md")
	command.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")
	command.Flags().BoolVar(&noMedia, "no-media", false, "skip the video layout")
	return command
}
