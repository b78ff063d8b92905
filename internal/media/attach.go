package media

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/net/html"
)

// AttachOptions configures how a lesson is bound to its video.
type AttachOptions struct {
	Probe      ResourceProbe
	Player     Player
	Viewport   Viewport
	Tolerances Tolerances
	// Times are applied to the dialogue rows before the binding reads them.
	Times []Timestamp
	// PublicPrefix is prepended to the resolved path in the video src.
	PublicPrefix string
}

// Attach finds the lesson video, builds the layout in root and returns the
// binding. It returns nil when there is no video or anything fails; the
// document is left untouched in that case.
func Attach(ctx context.Context, root *html.Node, lessonPath string, opts AttachOptions) *Binding {
	binding, err := attach(ctx, root, lessonPath, opts)
	if err != nil {
		logger := slog.Default().With(slog.String("lesson", lessonPath))
		if errors.Is(err, ErrNoVideo) {
			logger.Debug("lesson has no video")
		} else {
			logger.Warn("failed to attach lesson video", slog.Any("error", err))
		}
		return nil
	}
	return binding
}

func attach(ctx context.Context, root *html.Node, lessonPath string, opts AttachOptions) (*Binding, error) {
	if root == nil {
		return nil, fmt.Errorf("attach > nil document")
	}
	if opts.Probe == nil {
		return nil, fmt.Errorf("attach > no resource probe")
	}
	video, err := Resolve(ctx, opts.Probe, Candidates(lessonPath))
	if err != nil {
		return nil, fmt.Errorf("Resolve() > %w", err)
	}

	if len(opts.Times) > 0 {
		ApplyTimings(root, opts.Times)
	}

	player := opts.Player
	if player == nil {
		player = NewSimulatedPlayer(0)
	}

	layout := BuildLayout(root, NewFigure(opts.PublicPrefix+video))
	var binding *Binding
	if layout == nil {
		binding = NewBinding(nil, player, opts.Tolerances)
	} else {
		binding = NewBinding(layout.Transcript, player, opts.Tolerances)
	}
	binding.Video = video
	binding.Layout = layout
	binding.SetViewport(opts.Viewport)
	binding.SetMode(ModeSingle)

	if err := binding.ValidateTimeline(); err != nil {
		slog.Default().Warn("lesson timeline is out of order",
			slog.String("lesson", lessonPath),
			slog.Any("error", err),
		)
	}
	return binding, nil
}
