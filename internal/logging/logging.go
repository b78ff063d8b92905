// Package logging installs the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls the default logger.
type Options struct {
	Debug bool
	// File, when set, also writes logs to a rotated file.
	File string
}

// Setup installs a text logger on stdout, teed into the rotated file when one
// is configured. The returned closer releases the file.
func Setup(opts Options) io.Closer {
	logLevel := slog.LevelInfo
	if opts.Debug {
		logLevel = slog.LevelDebug
	}

	var out io.Writer = os.Stdout
	var closer io.Closer = nopCloser{}
	if path := strings.TrimSpace(opts.File); path != "" {
		file := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		}
		out = io.MultiWriter(os.Stdout, file)
		closer = file
	}

	slog.SetDefault(
		slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		})),
	)
	return closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
