package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/itnihongo/kaiwa/internal/lesson"
	"github.com/itnihongo/kaiwa/internal/pdf"
)

func newExportCommand() *cobra.Command {
	var hideSecondary bool
	var markdownOnly bool
	var outputDirectory string

	command := &cobra.Command{
		Use:   "export <lesson-path>",
		Short: "Export a lesson as a print-friendly PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if outputDirectory == "" {
				outputDirectory = cfg.Outputs.PDFDirectory
			}
			source, _ := lesson.OpenContent(cfg.Content)
			text, err := fetchLesson(cmd.Context(), source, args[0])
			if err != nil {
				return err
			}

			path, err := pdf.Export(text, args[0], pdf.ExportOptions{
				OutputDirectory: outputDirectory,
				TemplatePath:    cfg.Templates.LessonPrintTemplate,
				HideSecondary:   hideSecondary,
				SkipPDF:         markdownOnly,
			})
			if err != nil {
				return fmt.Errorf("pdf.Export() > %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Lesson exported to: %s\n", path)
			return nil
		},
	}

	command.Flags().BoolVar(&hideSecondary, "hide-vn", false, "omit the Vietnamese lines")
	command.Flags().BoolVar(&markdownOnly, "markdown-only", false, "write the print Markdown without converting it")
	command.Flags().StringVar(&outputDirectory, "output-dir", "", "output directory (default outputs.pdf_directory)")
	return command
}
