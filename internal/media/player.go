package media

//go:generate mockgen -source=player.go -destination=../mocks/media/mock_player.go -package=mock_media

// Player is the media element the binding drives. CurrentTime doubles as the
// clock read on every time update.
type Player interface {
	CurrentTime() float64
	Seek(seconds float64)
	Play() error
	Pause()
	// Duration reports the media length once it is known.
	Duration() (float64, bool)
}

// Viewport keeps the active row visible inside the transcript column.
type Viewport interface {
	EnsureVisible(row TranscriptRow)
}

// SimulatedPlayer is a Player without media, advanced manually.
type SimulatedPlayer struct {
	current  float64
	duration float64
	known    bool
	playing  bool
}

// NewSimulatedPlayer creates a paused player. A duration <= 0 means unknown.
func NewSimulatedPlayer(duration float64) *SimulatedPlayer {
	return &SimulatedPlayer{duration: duration, known: duration > 0}
}

func (p *SimulatedPlayer) CurrentTime() float64 {
	return p.current
}

func (p *SimulatedPlayer) Seek(seconds float64) {
	if seconds < 0 {
		seconds = 0
	}
	if p.known && seconds > p.duration {
		seconds = p.duration
	}
	p.current = seconds
}

func (p *SimulatedPlayer) Play() error {
	p.playing = true
	return nil
}

func (p *SimulatedPlayer) Pause() {
	p.playing = false
}

func (p *SimulatedPlayer) Duration() (float64, bool) {
	return p.duration, p.known
}

// Playing reports whether Play was called after the last Pause.
func (p *SimulatedPlayer) Playing() bool {
	return p.playing
}

// Advance moves the clock forward while playing.
func (p *SimulatedPlayer) Advance(seconds float64) {
	if !p.playing {
		return
	}
	p.Seek(p.current + seconds)
	if p.known && p.current >= p.duration {
		p.playing = false
	}
}

// ScrollViewport models the transcript column as a window over rows of a
// fixed height, scrolling only when the active row falls outside it.
type ScrollViewport struct {
	RowHeight float64
	Height    float64
	Top       float64
}

func (v *ScrollViewport) EnsureVisible(row TranscriptRow) {
	rowTop := float64(row.Index) * v.RowHeight
	rowBottom := rowTop + v.RowHeight
	switch {
	case rowTop < v.Top:
		v.Top = rowTop
	case rowBottom > v.Top+v.Height:
		v.Top = rowBottom - v.Height
	}
}
