package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/itnihongo/kaiwa/internal/dialogue"
	"github.com/itnihongo/kaiwa/internal/lesson"
)

var roleColors = map[dialogue.Role]*color.Color{
	dialogue.RoleKH:    color.New(color.FgBlue),
	dialogue.RoleBrSE:  color.New(color.FgGreen),
	dialogue.RolePM:    color.New(color.FgMagenta),
	dialogue.RoleQA:    color.New(color.FgYellow),
	dialogue.RoleDev:   color.New(color.FgCyan),
	dialogue.RoleOther: color.New(color.FgWhite),
}

const rightIndent = "        "

func newPreviewCommand() *cobra.Command {
	var hideSecondary bool

	command := &cobra.Command{
		Use:   "preview <lesson-path>",
		Short: "Print the dialogue of a lesson to the terminal, coloured by role",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			source, _ := lesson.OpenContent(cfg.Content)
			text, err := fetchLesson(cmd.Context(), source, args[0])
			if err != nil {
				return err
			}
			return writePreview(cmd.OutOrStdout(), dialogue.Parse(text), hideSecondary)
		},
	}
	command.Flags().BoolVar(&hideSecondary, "hide-vn", false, "hide the Vietnamese lines")
	return command
}

func writePreview(out io.Writer, events []dialogue.Event, hideSecondary bool) error {
	italic := color.New(color.Italic)
	for _, event := range events {
		var line string
		switch event.Kind {
		case dialogue.EventBlockOpen:
			line = "---"
		case dialogue.EventBlockClose:
			line = "---\n"
		case dialogue.EventRow:
			line = previewRow(event.Row, italic, hideSecondary)
			if line == "" {
				continue
			}
		default:
			continue
		}
		if _, err := fmt.Fprintln(out, line); err != nil {
			return fmt.Errorf("fmt.Fprintln() > %w", err)
		}
	}
	return nil
}

func previewRow(row dialogue.Row, italic *color.Color, hideSecondary bool) string {
	indent := ""
	if row.Side == dialogue.SideRight {
		indent = rightIndent
	}
	c, ok := roleColors[row.Role]
	if !ok {
		c = roleColors[dialogue.RoleOther]
	}

	var line string
	if row.Primary != "" {
		line = indent
		if row.Speaker != "" {
			line += c.Sprint(row.Speaker+":") + " "
		}
		line += row.Primary
	}
	if row.Secondary != "" && !hideSecondary {
		if line != "" {
			line += "\n"
		}
		line += indent + italic.Sprint(row.Secondary)
	}
	return line
}
