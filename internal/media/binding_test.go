package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/itnihongo/kaiwa/internal/htmldom"
)

const timedTranscript = `<div class="dialog">` +
	`<div class="dialog-row left" data-time="0"><div class="bubble"><div class="jp" lang="ja">おはよう</div></div></div>` +
	`<div class="dialog-row right" data-time="5"><div class="bubble"><div class="jp" lang="ja">こんにちは</div><div class="vn" lang="vi">Xin chào</div></div></div>` +
	`<div class="dialog-row left"><div class="bubble"><div class="jp" lang="ja">えっと</div></div></div>` +
	`<div class="dialog-row right" data-time="12"><div class="bubble"><div class="jp" lang="ja">さようなら</div></div></div>` +
	`</div>`

func newTestBinding(t *testing.T, markup string, duration float64) (*Binding, *SimulatedPlayer) {
	t.Helper()
	root, err := htmldom.ParseFragment(markup)
	require.NoError(t, err)
	player := NewSimulatedPlayer(duration)
	return NewBinding(root, player, DefaultTolerances()), player
}

func activeRows(b *Binding) []int {
	var got []int
	for _, row := range b.Rows() {
		if htmldom.HasClass(row.Node, ClassActive) {
			got = append(got, row.Index)
		}
	}
	return got
}

func TestNewBinding(t *testing.T) {
	b, _ := newTestBinding(t, timedTranscript, 0)

	rows := b.Rows()
	require.Len(t, rows, 4)
	assert.True(t, rows[0].Timed)
	assert.Equal(t, 5.0, rows[1].Time)
	assert.False(t, rows[2].Timed)
	assert.Equal(t, 12.0, rows[3].Time)
	assert.True(t, b.HasTimedRows())
	assert.Equal(t, ModeSingle, b.Mode())
	assert.Equal(t, -1, b.Active())
}

func TestNewBinding_InvalidTimes(t *testing.T) {
	b, _ := newTestBinding(t, `<div class="dialog-row" data-time="soon"></div><div class="dialog-row" data-time="NaN"></div><div class="dialog-row" data-time="+Inf"></div>`, 0)
	require.Len(t, b.Rows(), 3)
	assert.False(t, b.HasTimedRows())
}

func TestSegmentEnd(t *testing.T) {
	tests := []struct {
		name        string
		markup      string
		duration    float64
		index       int
		wantEnd     float64
		wantBounded bool
	}{
		{
			name:        "next timed row minus guard",
			markup:      timedTranscript,
			index:       1,
			wantEnd:     11.65,
			wantBounded: true,
		},
		{
			name:        "untimed rows in between are skipped",
			markup:      timedTranscript,
			index:       0,
			wantEnd:     4.65,
			wantBounded: true,
		},
		{
			name:        "last row with unknown duration is unbounded",
			markup:      timedTranscript,
			index:       3,
			wantBounded: false,
		},
		{
			name:        "last row with known duration ends at duration",
			markup:      timedTranscript,
			duration:    30,
			index:       3,
			wantEnd:     30,
			wantBounded: true,
		},
		{
			name:        "floored at minimum segment",
			markup:      `<div class="dialog-row" data-time="1"></div><div class="dialog-row" data-time="1.2"></div>`,
			index:       0,
			wantEnd:     1.1,
			wantBounded: true,
		},
		{
			name:        "untimed row",
			markup:      timedTranscript,
			index:       2,
			wantBounded: false,
		},
		{
			name:        "out of range",
			markup:      timedTranscript,
			index:       9,
			wantBounded: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _ := newTestBinding(t, tt.markup, tt.duration)
			end, bounded := b.SegmentEnd(tt.index)
			assert.Equal(t, tt.wantBounded, bounded)
			if tt.wantBounded {
				assert.InDelta(t, tt.wantEnd, end, 1e-9)
			}
		})
	}
}

func TestBinding_SingleModeAutoPause(t *testing.T) {
	b, player := newTestBinding(t, timedTranscript, 0)

	require.True(t, b.Click(1))
	assert.Equal(t, 5.0, player.CurrentTime())
	assert.True(t, player.Playing())
	assert.Equal(t, 1, b.Active())
	end, ok := b.Segment()
	require.True(t, ok)
	assert.InDelta(t, 11.65, end, 1e-9)

	player.Advance(6)
	b.TimeUpdate()
	assert.True(t, player.Playing())
	assert.Equal(t, 1, b.Active())

	player.Advance(1)
	b.TimeUpdate()
	assert.False(t, player.Playing())
	assert.InDelta(t, 11.65, player.CurrentTime(), 1e-9)
	_, ok = b.Segment()
	assert.False(t, ok)
	assert.Equal(t, 1, b.Active())
}

func TestBinding_SegmentSuspendsHighlight(t *testing.T) {
	b, player := newTestBinding(t, timedTranscript, 0)

	require.True(t, b.Click(1))
	player.Seek(0.5)
	b.TimeUpdate()
	assert.Equal(t, 1, b.Active())
	assert.True(t, player.Playing())

	player.Seek(11.7)
	b.TimeUpdate()
	assert.False(t, player.Playing())

	// with the segment cleared the scan resumes
	player.Seek(0.5)
	b.TimeUpdate()
	assert.Equal(t, 0, b.Active())
}

func TestBinding_LastRowUnbounded(t *testing.T) {
	b, player := newTestBinding(t, timedTranscript, 0)

	require.True(t, b.Click(3))
	_, ok := b.Segment()
	assert.False(t, ok)

	player.Advance(100)
	b.TimeUpdate()
	assert.True(t, player.Playing())
	assert.Equal(t, 3, b.Active())
}

func TestBinding_SwitchToAllClearsSegment(t *testing.T) {
	b, player := newTestBinding(t, timedTranscript, 0)

	require.True(t, b.Click(1))
	b.SetMode(ModeAll)
	_, ok := b.Segment()
	assert.False(t, ok)

	player.Advance(7)
	b.TimeUpdate()
	assert.True(t, player.Playing())
	assert.Equal(t, 3, b.Active())

	// single takes effect on the next click only
	b.SetMode(ModeSingle)
	_, ok = b.Segment()
	assert.False(t, ok)
	require.True(t, b.Click(0))
	_, ok = b.Segment()
	assert.True(t, ok)
}

func TestBinding_AllModeClickHasNoSegment(t *testing.T) {
	b, _ := newTestBinding(t, timedTranscript, 0)
	b.SetMode(ModeAll)

	require.True(t, b.Click(1))
	_, ok := b.Segment()
	assert.False(t, ok)
}

func TestBinding_Lookback(t *testing.T) {
	tests := []struct {
		current float64
		want    int
	}{
		{current: 0, want: 0},
		{current: 4.7, want: 0},
		{current: 4.75, want: 1},
		{current: 11.8, want: 3},
		{current: 40, want: 3},
	}
	for _, tt := range tests {
		b, player := newTestBinding(t, timedTranscript, 0)
		player.Seek(tt.current)
		b.TimeUpdate()
		assert.Equal(t, tt.want, b.Active(), "current=%v", tt.current)
	}
}

func TestBinding_SingleActiveRow(t *testing.T) {
	b, player := newTestBinding(t, timedTranscript, 0)

	b.Click(0)
	b.Click(3)
	assert.Equal(t, []int{3}, activeRows(b))

	b.SetMode(ModeAll)
	player.Seek(5)
	b.TimeUpdate()
	assert.Equal(t, []int{1}, activeRows(b))
}

func TestBinding_ClickIgnoresUntimedRows(t *testing.T) {
	b, player := newTestBinding(t, timedTranscript, 0)

	assert.False(t, b.Click(2))
	assert.False(t, b.Click(-1))
	assert.False(t, player.Playing())
	assert.Equal(t, -1, b.Active())
}

func TestBinding_ClickNode(t *testing.T) {
	b, player := newTestBinding(t, timedTranscript, 0)
	rows := b.Rows()

	jp := htmldom.First(rows[3].Node, htmldom.ByClass("jp"))
	require.NotNil(t, jp)
	assert.True(t, b.ClickNode(jp.FirstChild))
	assert.Equal(t, 3, b.Active())
	assert.Equal(t, 12.0, player.CurrentTime())

	untimed := htmldom.First(rows[2].Node, htmldom.ByClass("jp"))
	assert.False(t, b.ClickNode(untimed))
	assert.False(t, b.ClickNode(&html.Node{Type: html.TextNode, Data: "detached"}))
	assert.Equal(t, 3, b.Active())
}

func TestBinding_NoTimedRows(t *testing.T) {
	b, player := newTestBinding(t, `<div class="dialog"><div class="dialog-row left">A</div></div>`, 0)
	player.Seek(3)
	b.TimeUpdate()
	assert.Equal(t, -1, b.Active())

	empty := NewBinding(nil, player, DefaultTolerances())
	assert.Empty(t, empty.Rows())
	empty.TimeUpdate()
	assert.Equal(t, -1, empty.Active())
}

func TestBinding_CustomTolerances(t *testing.T) {
	root, err := htmldom.ParseFragment(timedTranscript)
	require.NoError(t, err)
	b := NewBinding(root, NewSimulatedPlayer(0), Tolerances{Lookback: 1, Guard: 1, MinSegment: 0.5})

	end, ok := b.SegmentEnd(1)
	require.True(t, ok)
	assert.InDelta(t, 11, end, 1e-9)
}

func TestBinding_ZeroTolerancesUseDefaults(t *testing.T) {
	root, err := htmldom.ParseFragment(timedTranscript)
	require.NoError(t, err)
	b := NewBinding(root, NewSimulatedPlayer(0), Tolerances{})

	end, ok := b.SegmentEnd(1)
	require.True(t, ok)
	assert.InDelta(t, 11.65, end, 1e-9)
}

func TestScrollViewport(t *testing.T) {
	v := &ScrollViewport{RowHeight: 10, Height: 30}

	v.EnsureVisible(TranscriptRow{Index: 1})
	assert.Equal(t, 0.0, v.Top)

	v.EnsureVisible(TranscriptRow{Index: 5})
	assert.Equal(t, 30.0, v.Top)

	v.EnsureVisible(TranscriptRow{Index: 2})
	assert.Equal(t, 20.0, v.Top)
}

func TestSimulatedPlayer(t *testing.T) {
	p := NewSimulatedPlayer(10)

	p.Advance(3)
	assert.Equal(t, 0.0, p.CurrentTime())

	require.NoError(t, p.Play())
	p.Advance(4)
	assert.Equal(t, 4.0, p.CurrentTime())

	p.Advance(20)
	assert.Equal(t, 10.0, p.CurrentTime())
	assert.False(t, p.Playing())

	p.Seek(-5)
	assert.Equal(t, 0.0, p.CurrentTime())
	d, ok := p.Duration()
	assert.True(t, ok)
	assert.Equal(t, 10.0, d)
}
