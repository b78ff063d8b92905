package media

import "fmt"

// Mode selects how a row click plays the video.
type Mode string

const (
	// ModeSingle stops playback shortly before the next row starts.
	ModeSingle Mode = "single"
	// ModeAll plays on without a segment boundary.
	ModeAll Mode = "all"
)

var allModes = []Mode{ModeSingle, ModeAll}

// Label is the toolbar caption.
func (m Mode) Label() string {
	switch m {
	case ModeAll:
		return "Phát cả bài"
	default:
		return "Phát câu đã chọn"
	}
}

func (m *Mode) Set(val string) error {
	for _, mode := range allModes {
		if val == string(mode) {
			*m = mode
			return nil
		}
	}
	return fmt.Errorf("invalid mode: %s", val)
}

func (m Mode) String() string {
	return string(m)
}

func (m *Mode) Type() string {
	return "Mode"
}
