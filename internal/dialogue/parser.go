package dialogue

// EventKind is the type of a parse event.
type EventKind int

const (
	EventPlain EventKind = iota
	EventBlockOpen
	EventRow
	EventBlockClose
)

// Row is one dialogue bubble.
// Role is empty for JP/VN prefixed rows, which carry no speaker.
type Row struct {
	Speaker   string
	Role      Role
	Side      Side
	Primary   string
	Secondary string
}

// Event is one step of the preprocessor output, in source order.
type Event struct {
	Kind EventKind
	Row  Row
	// Text is the untouched source line of an EventPlain.
	Text string
}

type blockState int

const (
	outsideBlock blockState = iota
	insideBlock
)

// parser holds the state of a single pass over one lesson.
type parser struct {
	state    blockState
	leftNext bool
	events   []Event
}

func newParser() *parser {
	return &parser{state: outsideBlock, leftNext: true}
}

// Parse runs the dialogue state machine over src and returns the resulting events.
// Every EventBlockOpen is matched by exactly one EventBlockClose.
func Parse(src string) []Event {
	p := newParser()
	lines := SplitLines(src)
	for i := 0; i < len(lines); i++ {
		line := ClassifyLine(lines[i])
		if line.Kind == LineNamedPair && i+1 < len(lines) {
			if secondary, ok := secondaryText(lines[i+1]); ok {
				p.namedPair(line, secondary)
				i++
				continue
			}
		}
		p.step(line)
	}
	p.closeBlock()
	return p.events
}

func (p *parser) step(line Line) {
	switch line.Kind {
	case LineNamedPair:
		p.namedPair(line, "")
	case LineJP:
		p.openBlock()
		p.emit(Event{Kind: EventRow, Row: Row{Side: SideLeft, Primary: line.Text}})
		p.leftNext = false
	case LineVN:
		p.openBlock()
		p.emit(Event{Kind: EventRow, Row: Row{Side: SideRight, Secondary: line.Text}})
		p.leftNext = true
	case LinePlainText:
		p.closeBlock()
		p.emit(Event{Kind: EventPlain, Text: line.Raw})
	default:
		p.emit(Event{Kind: EventPlain, Text: line.Raw})
	}
}

func (p *parser) namedPair(line Line, secondary string) {
	role := ClassifyRole(line.Speaker)
	side := SideRight
	if p.leftNext {
		side = SideLeft
	}
	if fixed, ok := role.FixedSide(); ok {
		side = fixed
	}

	p.openBlock()
	p.emit(Event{Kind: EventRow, Row: Row{
		Speaker:   line.Speaker,
		Role:      role,
		Side:      side,
		Primary:   line.Text,
		Secondary: secondary,
	}})
	if role.Alternates() {
		p.leftNext = !p.leftNext
	}
}

func (p *parser) openBlock() {
	if p.state == insideBlock {
		return
	}
	p.emit(Event{Kind: EventBlockOpen})
	p.state = insideBlock
}

func (p *parser) closeBlock() {
	if p.state != insideBlock {
		return
	}
	p.emit(Event{Kind: EventBlockClose})
	p.state = outsideBlock
}

func (p *parser) emit(e Event) {
	p.events = append(p.events, e)
}

// Rows returns only the dialogue rows of the events.
func Rows(events []Event) []Row {
	var rows []Row
	for _, e := range events {
		if e.Kind == EventRow {
			rows = append(rows, e.Row)
		}
	}
	return rows
}
