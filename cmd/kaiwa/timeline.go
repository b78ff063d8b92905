package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/itnihongo/kaiwa/internal/lesson"
	"github.com/itnihongo/kaiwa/internal/media"
)

func newTimelineCommand() *cobra.Command {
	mode := media.ModeSingle
	click := -1
	var at []float64
	var duration float64

	command := &cobra.Command{
		Use:   "timeline <lesson-path>",
		Short: "Show the playback segments of a lesson and replay clicks against a simulated player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			player := media.NewSimulatedPlayer(duration)
			renderer, _ := newRenderer(cfg, lesson.RenderOptions{
				NewPlayer: func() media.Player { return player },
			})

			page := renderer.Render(cmd.Context(), args[0])
			if page.Err != nil {
				return fmt.Errorf("render %s > %w", args[0], page.Err)
			}
			if page.Binding == nil {
				return fmt.Errorf("%s > %w", args[0], media.ErrNoVideo)
			}
			binding := page.Binding
			binding.SetMode(mode)

			out := cmd.OutOrStdout()
			if err := writeTimeline(out, binding); err != nil {
				return err
			}
			if click < 0 {
				return nil
			}
			return replay(out, binding, player, click, at)
		},
	}

	command.Flags().Var(&mode, "mode", "playback mode: single or all")
	command.Flags().IntVar(&click, "click", -1, "row index to click before replaying")
	command.Flags().Float64SliceVar(&at, "at", nil, "playback times to report after the click")
	command.Flags().Float64Var(&duration, "duration", 0, "video duration in seconds (0 = unknown)")
	return command
}

func writeTimeline(out io.Writer, binding *media.Binding) error {
	fmt.Fprintf(out, "video: %s\n", binding.Video)
	if err := binding.ValidateTimeline(); err != nil {
		fmt.Fprintf(out, "warning: %v\n", err)
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ROW\tSTART\tEND\tTEXT")
	for _, cue := range binding.Timeline() {
		end := "-"
		if cue.Bounded {
			end = fmt.Sprintf("%.2f", cue.End)
		}
		fmt.Fprintf(w, "%d\t%.2f\t%s\t%s\n", cue.Index, cue.Start, end, cue.Text)
	}
	return w.Flush()
}

// replay clicks a row, then advances the simulated player to each time and
// reports the sync state after the time update.
func replay(out io.Writer, binding *media.Binding, player *media.SimulatedPlayer, click int, at []float64) error {
	if !binding.Click(click) {
		return fmt.Errorf("row %d has no timestamp", click)
	}
	writeState(out, "click", binding, player)
	for _, t := range at {
		if t > player.CurrentTime() {
			player.Advance(t - player.CurrentTime())
		}
		binding.TimeUpdate()
		writeState(out, fmt.Sprintf("at %.2f", t), binding, player)
	}
	return nil
}

func writeState(out io.Writer, label string, binding *media.Binding, player *media.SimulatedPlayer) {
	state := "paused"
	if player.Playing() {
		state = "playing"
	}
	fmt.Fprintf(out, "%-10s time=%.2f active=%d %s\n", label, player.CurrentTime(), binding.Active(), state)
}
