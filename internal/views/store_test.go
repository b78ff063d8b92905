package views

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeID(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "p1-lesson_01.v2", want: "p1-lesson_01.v2"},
		{in: "  lesson-01  ", want: "lesson-01"},
		{in: "", wantErr: true},
		{in: "lesson 01", wantErr: true},
		{in: "../etc/passwd", wantErr: true},
		{in: "bài-1", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := SanitizeID(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidID)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeCounts(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want map[string]int64
	}{
		{name: "numbers", in: `{"a": 3, "b": 10}`, want: map[string]int64{"a": 3, "b": 10}},
		{name: "numeric strings and junk", in: `{"a": "4", "b": null, "c": [1], "d": "x"}`, want: map[string]int64{"a": 4, "b": 0, "c": 0, "d": 0}},
		{name: "empty", in: "", want: map[string]int64{}},
		{name: "malformed", in: `{"a":`, want: map[string]int64{}},
		{name: "not an object", in: `[1, 2]`, want: map[string]int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, decodeCounts([]byte(tt.in)))
		})
	}
}
