package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/itnihongo/kaiwa/internal/lesson"
	"github.com/itnihongo/kaiwa/internal/outline"
)

func newOutlineCommand() *cobra.Command {
	var asJSON bool
	var check bool

	command := &cobra.Command{
		Use:   "outline",
		Short: "List the lessons of data/outline.json or data/outline.txt",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			source, probe := lesson.OpenContent(cfg.Content)
			o := outline.Load(cmd.Context(), source)
			if check {
				o.CheckAvailability(cmd.Context(), probe)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(o)
			}
			return writeOutline(out, o, check)
		},
	}
	command.Flags().BoolVar(&asJSON, "json", false, "print the normalised outline as JSON")
	command.Flags().BoolVar(&check, "check", false, "mark lessons whose file is missing")
	return command
}

func writeOutline(out io.Writer, o *outline.Outline, checked bool) error {
	if len(o.Groups) == 0 {
		_, err := fmt.Fprintln(out, "No lessons found.")
		return err
	}
	for _, group := range o.Groups {
		if _, err := fmt.Fprintf(out, "%s\n", group.Name); err != nil {
			return err
		}
		for _, item := range group.Items {
			mark := ""
			if checked && !item.Available {
				mark = " (missing)"
			}
			if _, err := fmt.Fprintf(out, "  %s  %s  %s%s\n", item.ID, item.Topic, item.Path, mark); err != nil {
				return err
			}
		}
	}
	return nil
}
