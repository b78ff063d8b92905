package media

import (
	"errors"
	"fmt"
	"strings"

	"github.com/itnihongo/kaiwa/internal/dialogue"
	"github.com/itnihongo/kaiwa/internal/htmldom"
)

// ErrTimelineOrder is returned when timed rows are not in ascending order.
var ErrTimelineOrder = errors.New("dialogue timestamps are not ascending")

// Cue is the playback window of one timed row.
type Cue struct {
	Index   int     `json:"index"`
	Start   float64 `json:"start"`
	End     float64 `json:"end,omitempty"`
	Bounded bool    `json:"bounded"`
	Text    string  `json:"text"`
}

// Timeline returns the cues single mode would play, one per timed row.
func (b *Binding) Timeline() []Cue {
	cues := make([]Cue, 0, len(b.timed))
	for _, idx := range b.timed {
		row := b.rows[idx]
		end, bounded := b.SegmentEnd(idx)
		cues = append(cues, Cue{
			Index:   idx,
			Start:   row.Time,
			End:     end,
			Bounded: bounded,
			Text:    rowText(row),
		})
	}
	return cues
}

// ValidateTimeline reports the first timed row that starts before the previous one.
func (b *Binding) ValidateTimeline() error {
	for i := 1; i < len(b.timed); i++ {
		prev, cur := b.rows[b.timed[i-1]], b.rows[b.timed[i]]
		if cur.Time < prev.Time {
			return fmt.Errorf("row %d at %.3fs after row %d at %.3fs > %w",
				cur.Index, cur.Time, prev.Index, prev.Time, ErrTimelineOrder)
		}
	}
	return nil
}

func rowText(row TranscriptRow) string {
	if jp := htmldom.First(row.Node, htmldom.ByClass(dialogue.ClassJP)); jp != nil {
		return strings.TrimSpace(htmldom.TextContent(jp))
	}
	return strings.TrimSpace(htmldom.TextContent(row.Node))
}
