package media

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"gopkg.in/yaml.v3"

	"github.com/itnihongo/kaiwa/internal/dialogue"
	"github.com/itnihongo/kaiwa/internal/htmldom"
)

// Timestamp is a row start time. It accepts plain seconds or [h:]mm:ss[.frac];
// a null entry leaves the row untimed.
type Timestamp struct {
	Seconds float64
	Set     bool
}

func (t *Timestamp) UnmarshalYAML(value *yaml.Node) error {
	if value.Tag == "!!null" {
		*t = Timestamp{}
		return nil
	}
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("timestamp at line %d must be a scalar", value.Line)
	}
	seconds, err := ParseTimestamp(value.Value)
	if err != nil {
		return fmt.Errorf("timestamp at line %d > %w", value.Line, err)
	}
	*t = Timestamp{Seconds: seconds, Set: true}
	return nil
}

// ParseTimestamp parses "12.5", "0:05" or "1:02:03.5" into seconds.
func ParseTimestamp(val string) (float64, error) {
	val = strings.TrimSpace(val)
	if val == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	parts := strings.Split(val, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid timestamp %q", val)
	}
	var total float64
	for i, part := range parts {
		n, err := strconv.ParseFloat(part, 64)
		if err != nil || n < 0 || math.IsInf(n, 0) || math.IsNaN(n) {
			return 0, fmt.Errorf("invalid timestamp %q", val)
		}
		last := i == len(parts)-1
		if !last && n != math.Trunc(n) {
			return 0, fmt.Errorf("invalid timestamp %q", val)
		}
		if i > 0 && n >= 60 {
			return 0, fmt.Errorf("invalid timestamp %q", val)
		}
		total = total*60 + n
	}
	return total, nil
}

// Timings is the sidecar file listing one start time per dialogue row.
type Timings struct {
	Times []Timestamp `yaml:"times"`
}

// ParseTimings decodes a timings sidecar.
func ParseTimings(data []byte) (Timings, error) {
	var t Timings
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Timings{}, fmt.Errorf("yaml.Unmarshal() > %w", err)
	}
	return t, nil
}

// TimingsPath returns the sidecar path for a lesson: "a/b.md" becomes "a/b.timings.yml".
func TimingsPath(lessonPath string) string {
	base := BaseName(lessonPath)
	if base == "" {
		return ""
	}
	dir := lessonPath[:strings.LastIndex(lessonPath, "/")+1]
	return dir + base + ".timings.yml"
}

// ApplyTimings writes data-time on the i-th dialogue row for each set entry.
// Rows already carrying data-time keep it. It returns the number of rows updated.
func ApplyTimings(root *html.Node, times []Timestamp) int {
	rows := htmldom.FindAll(root, htmldom.ByClass(dialogue.ClassRow))
	applied := 0
	for i, row := range rows {
		if i >= len(times) {
			break
		}
		if !times[i].Set {
			continue
		}
		if _, ok := htmldom.Attr(row, AttrTime); ok {
			continue
		}
		htmldom.SetAttr(row, AttrTime, strconv.FormatFloat(times[i].Seconds, 'f', -1, 64))
		applied++
	}
	return applied
}
