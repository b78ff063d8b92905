package media

import (
	"log/slog"
	"math"
	"strconv"

	"golang.org/x/net/html"

	"github.com/itnihongo/kaiwa/internal/dialogue"
	"github.com/itnihongo/kaiwa/internal/htmldom"
)

// Tolerances are the timing margins of the synchronizer, in seconds.
type Tolerances struct {
	// Lookback activates a row this long before its timestamp.
	Lookback float64
	// Guard ends a segment this long before the next row starts.
	Guard float64
	// MinSegment is the shortest segment after a row's start.
	MinSegment float64
}

// DefaultTolerances returns the margins used when none are configured. A zero
// Tolerances passed to NewBinding is replaced by these.
func DefaultTolerances() Tolerances {
	return Tolerances{Lookback: 0.25, Guard: 0.35, MinSegment: 0.1}
}

// TranscriptRow is one dialogue row inside the transcript column.
type TranscriptRow struct {
	Index int
	Node  *html.Node
	Time  float64
	Timed bool
}

// Binding ties one lesson transcript to its video. It is not safe for
// concurrent use; events are expected from a single loop.
type Binding struct {
	Video  string
	Layout *Layout

	rows     []TranscriptRow
	timed    []int
	player   Player
	viewport Viewport
	tol      Tolerances

	mode       Mode
	active     int
	segmentEnd float64
	hasSegment bool
}

// NewBinding collects the rows of transcript and starts in single mode.
// transcript may be nil for a lesson without dialogue.
func NewBinding(transcript *html.Node, player Player, tol Tolerances) *Binding {
	if tol == (Tolerances{}) {
		tol = DefaultTolerances()
	}
	b := &Binding{
		player: player,
		tol:    tol,
		mode:   ModeSingle,
		active: -1,
	}
	if transcript != nil {
		b.rows = collectRows(transcript)
	}
	for _, row := range b.rows {
		if row.Timed {
			b.timed = append(b.timed, row.Index)
		}
	}
	return b
}

func collectRows(transcript *html.Node) []TranscriptRow {
	nodes := htmldom.FindAll(transcript, htmldom.ByClass(dialogue.ClassRow))
	rows := make([]TranscriptRow, 0, len(nodes))
	for i, n := range nodes {
		row := TranscriptRow{Index: i, Node: n}
		if val, ok := htmldom.Attr(n, AttrTime); ok {
			if seconds, err := strconv.ParseFloat(val, 64); err == nil && !math.IsNaN(seconds) && !math.IsInf(seconds, 0) {
				row.Time = seconds
				row.Timed = true
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// SetViewport installs the scroll target used when a row becomes active.
func (b *Binding) SetViewport(v Viewport) {
	b.viewport = v
}

// Rows returns the transcript rows in document order.
func (b *Binding) Rows() []TranscriptRow {
	return b.rows
}

// HasTimedRows reports whether time updates have any effect.
func (b *Binding) HasTimedRows() bool {
	return len(b.timed) > 0
}

// Mode returns the current playback mode.
func (b *Binding) Mode() Mode {
	return b.mode
}

// Active returns the index of the active row, or -1.
func (b *Binding) Active() int {
	return b.active
}

// Segment returns the pending auto-pause time, if a segment is active.
func (b *Binding) Segment() (float64, bool) {
	return b.segmentEnd, b.hasSegment
}

// SetMode switches playback mode. Leaving single mode drops the pending segment;
// entering it only affects the next click.
func (b *Binding) SetMode(mode Mode) {
	b.mode = mode
	if mode == ModeAll {
		b.clearSegment()
	}
	if b.Layout != nil {
		syncToolbar(b.Layout.Toolbar, mode)
	}
}

// Click seeks to a timed row and starts playback. Rows without a time are ignored.
func (b *Binding) Click(index int) bool {
	if index < 0 || index >= len(b.rows) || !b.rows[index].Timed {
		return false
	}
	row := b.rows[index]

	b.player.Seek(row.Time)
	if err := b.player.Play(); err != nil {
		slog.Default().Warn("video play was rejected",
			slog.String("video", b.Video),
			slog.Any("error", err),
		)
	}
	b.setActive(index)

	b.clearSegment()
	if b.mode == ModeSingle {
		if end, bounded := b.SegmentEnd(index); bounded {
			b.segmentEnd = end
			b.hasSegment = true
		}
	}
	return true
}

// ClickNode handles a click on any node inside the transcript.
func (b *Binding) ClickNode(n *html.Node) bool {
	target := htmldom.Closest(n, htmldom.And(htmldom.ByClass(dialogue.ClassRow), htmldom.HasAttr(AttrTime)))
	if target == nil {
		return false
	}
	for _, row := range b.rows {
		if row.Node == target {
			return b.Click(row.Index)
		}
	}
	return false
}

// SegmentEnd computes where single mode stops after clicking a row: the next
// timed row's start minus the guard, but at least MinSegment after the row.
// The last row plays to the end of the video, or unbounded when the duration is unknown.
func (b *Binding) SegmentEnd(index int) (float64, bool) {
	if index < 0 || index >= len(b.rows) || !b.rows[index].Timed {
		return 0, false
	}
	start := b.rows[index].Time
	for _, next := range b.timed {
		if next <= index {
			continue
		}
		end := b.rows[next].Time - b.tol.Guard
		return math.Max(end, start+b.tol.MinSegment), true
	}
	if duration, ok := b.player.Duration(); ok && duration > 0 {
		return duration, true
	}
	return 0, false
}

// TimeUpdate reacts to the player clock: it enforces the segment boundary in
// single mode and otherwise highlights the row being spoken.
func (b *Binding) TimeUpdate() {
	if len(b.timed) == 0 {
		return
	}
	current := b.player.CurrentTime()

	if b.mode == ModeSingle && b.hasSegment {
		if current >= b.segmentEnd {
			b.player.Pause()
			b.player.Seek(b.segmentEnd)
			b.clearSegment()
		}
		return
	}

	for i := len(b.timed) - 1; i >= 0; i-- {
		idx := b.timed[i]
		if current >= b.rows[idx].Time-b.tol.Lookback {
			b.setActive(idx)
			return
		}
	}
}

func (b *Binding) setActive(index int) {
	if b.active == index {
		return
	}
	if b.active >= 0 {
		htmldom.RemoveClass(b.rows[b.active].Node, ClassActive)
	}
	b.active = index
	if index < 0 {
		return
	}
	htmldom.AddClass(b.rows[index].Node, ClassActive)
	if b.viewport != nil {
		b.viewport.EnsureVisible(b.rows[index])
	}
}

func (b *Binding) clearSegment() {
	b.segmentEnd = 0
	b.hasSegment = false
}
