package dialogue

import (
	"strings"

	"golang.org/x/net/html"
)

// Class names shared with the media synchronizer.
const (
	ClassBlock  = "dialog"
	ClassRow    = "dialog-row"
	ClassLegend = "dialog-legend"
	ClassBubble = "bubble"
	ClassJP     = "jp"
	ClassVN     = "vn"
)

const (
	blockOpenMarkup  = `<div class="dialog">`
	blockCloseMarkup = `</div>`
	legendMarkup     = `<div class="dialog-legend"><span class="legend-item"><span class="chip chip-kh"></span>KH (Khách hàng)</span><span class="legend-item"><span class="chip chip-brse"></span>BrSE</span></div>`
)

// Preprocess converts speaker notation in a Markdown lesson into dialogue markup.
// Non-dialogue lines pass through unchanged; the function never fails.
func Preprocess(src string) string {
	return render(Parse(src), false)
}

// PreprocessForMarkdown is Preprocess with a blank line after every legend that
// is followed by more text. CommonMark ends a raw HTML block only at a blank
// line, so without it the next Markdown line would be emitted verbatim.
func PreprocessForMarkdown(src string) string {
	return render(Parse(src), true)
}

func render(events []Event, separate bool) string {
	out := make([]string, 0, len(events)+1)
	for i, e := range events {
		switch e.Kind {
		case EventBlockOpen:
			out = append(out, blockOpenMarkup)
		case EventRow:
			out = append(out, RowMarkup(e.Row))
		case EventBlockClose:
			out = append(out, blockCloseMarkup, legendMarkup)
			if separate && i+1 < len(events) && strings.TrimSpace(events[i+1].Text) != "" {
				out = append(out, "")
			}
		default:
			out = append(out, e.Text)
		}
	}
	return strings.Join(out, "\n")
}

// RowMarkup renders one bubble. All authored text is escaped.
func RowMarkup(row Row) string {
	var b strings.Builder
	b.WriteString(`<div class="dialog-row `)
	b.WriteString(string(row.Side))
	if row.Role != "" {
		b.WriteString(" role-")
		b.WriteString(string(row.Role))
	}
	b.WriteString(`"><div class="bubble">`)
	if row.Primary != "" {
		b.WriteString(`<div class="jp" lang="ja">`)
		b.WriteString(html.EscapeString(row.Primary))
		b.WriteString(`</div>`)
	}
	if row.Secondary != "" {
		b.WriteString(`<div class="vn" lang="vi">`)
		b.WriteString(html.EscapeString(row.Secondary))
		b.WriteString(`</div>`)
	}
	b.WriteString(`</div></div>`)
	return b.String()
}

// LegendMarkup returns the role-colour key appended after every block.
func LegendMarkup() string {
	return legendMarkup
}
