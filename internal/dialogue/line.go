package dialogue

import (
	"regexp"
	"strings"
)

var (
	namedPairPattern = regexp.MustCompile(`^\s*\*\*([^*]+?):\*\*\s*(.+)$`)
	secondaryPattern = regexp.MustCompile(`^\s*\*(.+)\*\s*$`)
	jpPattern        = regexp.MustCompile(`^\s*JP:\s*(.*)$`)
	vnPattern        = regexp.MustCompile(`^\s*VN:\s*(.*)$`)
	lineBreakPattern = regexp.MustCompile(`\r\n|\r|\n`)
)

// LineKind is the classification of one source line.
type LineKind int

const (
	LinePlainBlank LineKind = iota
	LinePlainText
	LineNamedPair
	LineJP
	LineVN
)

func (k LineKind) String() string {
	switch k {
	case LinePlainBlank:
		return "plain-blank"
	case LinePlainText:
		return "plain-nonblank"
	case LineNamedPair:
		return "named-pair"
	case LineJP:
		return "jp"
	case LineVN:
		return "vn"
	}
	return "unknown"
}

// IsDialogue reports whether the kind produces a dialogue row.
func (k LineKind) IsDialogue() bool {
	return k == LineNamedPair || k == LineJP || k == LineVN
}

// Line is a classified source line.
type Line struct {
	Kind    LineKind
	Raw     string
	Speaker string
	Text    string
}

// SplitLines splits text on any line-ending style.
func SplitLines(src string) []string {
	return lineBreakPattern.Split(src, -1)
}

// ClassifyLine tests the notations in priority order: named pair, JP, VN, plain.
func ClassifyLine(raw string) Line {
	if m := namedPairPattern.FindStringSubmatch(raw); m != nil {
		speaker := strings.TrimSpace(m[1])
		text := strings.TrimSpace(m[2])
		if speaker != "" && text != "" {
			return Line{Kind: LineNamedPair, Raw: raw, Speaker: speaker, Text: text}
		}
	}
	// A prefix with nothing after it stays plain text so no row is empty.
	if m := jpPattern.FindStringSubmatch(raw); m != nil && strings.TrimSpace(m[1]) != "" {
		return Line{Kind: LineJP, Raw: raw, Text: m[1]}
	}
	if m := vnPattern.FindStringSubmatch(raw); m != nil && strings.TrimSpace(m[1]) != "" {
		return Line{Kind: LineVN, Raw: raw, Text: m[1]}
	}
	if strings.TrimSpace(raw) == "" {
		return Line{Kind: LinePlainBlank, Raw: raw}
	}
	return Line{Kind: LinePlainText, Raw: raw}
}

// secondaryText returns the inner text of a line wrapped entirely in italic delimiters.
// A line that is itself a speaker line never counts as a translation.
func secondaryText(raw string) (string, bool) {
	if namedPairPattern.MatchString(raw) {
		return "", false
	}
	m := secondaryPattern.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	text := strings.TrimSpace(m[1])
	if text == "" || strings.HasPrefix(text, "*") || strings.HasSuffix(text, "*") {
		return "", false
	}
	return text, true
}
