package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/itnihongo/kaiwa/internal/logging"
)

var (
	configFile string
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		if _, fprintfErr := fmt.Fprintf(os.Stderr, "failed to execute a command: %+v\n", err); fprintfErr != nil {
			panic(fmt.Errorf("failed to output an error: %w. Reason: %w", err, fprintfErr))
		}
		os.Exit(1)
	}
	os.Exit(0)
}

func newRootCommand() *cobra.Command {
	var debugMode bool
	var logFile string
	var logCloser io.Closer
	rootCommand := &cobra.Command{
		Use:           "kaiwa",
		Short:         "Render and inspect IT Nihongo Kaiwa lessons",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logCloser = logging.Setup(logging.Options{Debug: debugMode, File: logFile})
			slog.Debug("running command", "command", cmd.CommandPath(), "args", args)
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if logCloser == nil {
				return nil
			}
			return logCloser.Close()
		},
	}
	rootCommand.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	rootCommand.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug mode")
	rootCommand.PersistentFlags().StringVar(&logFile, "log-file", "", "also write logs to this rotated file")

	rootCommand.AddCommand(
		newRenderCommand(),
		newPreviewCommand(),
		newTimelineCommand(),
		newExportCommand(),
		newOutlineCommand(),
		newViewsCommand(),
		newMigrateCommand(),
	)
	return rootCommand
}
