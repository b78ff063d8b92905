package media

import (
	"golang.org/x/net/html"

	"github.com/itnihongo/kaiwa/internal/dialogue"
	"github.com/itnihongo/kaiwa/internal/htmldom"
)

// Class names of the generated layout.
const (
	ClassFigure        = "lesson-video"
	ClassPlayer        = "lesson-video-player"
	ClassLayout        = "lesson-media-layout"
	ClassMediaColumn   = "lesson-media"
	ClassTranscript    = "lesson-transcript"
	ClassLegendOutside = "lesson-legend"
	ClassToolbar       = "media-toolbar"
	ClassActive        = "active"
	AttrTime           = "data-time"
	AttrMode           = "data-mode"
)

// Layout is the two-column structure built around the first dialogue block.
type Layout struct {
	Wrapper    *html.Node
	Media      *html.Node
	Transcript *html.Node
	Legend     *html.Node
	Figure     *html.Node
	Toolbar    *html.Node
}

// NewFigure creates the <figure> holding the video element.
func NewFigure(src string) *html.Node {
	figure := htmldom.NewElement("figure", ClassFigure)
	video := htmldom.NewElement("video", ClassPlayer)
	htmldom.SetAttr(video, "controls", "")
	htmldom.SetAttr(video, "preload", "metadata")
	htmldom.SetAttr(video, "playsinline", "")
	htmldom.SetAttr(video, "src", src)
	figure.AppendChild(video)
	return figure
}

// BuildLayout moves the first dialogue run of root into a media + transcript layout.
// When root has no dialogue block the figure is placed at the top and nil is returned.
func BuildLayout(root *html.Node, figure *html.Node) *Layout {
	firstDialog := htmldom.First(root, htmldom.ByClass(dialogue.ClassBlock))
	if firstDialog == nil {
		htmldom.Prepend(root, figure)
		return nil
	}

	nodes := collectTranscriptNodes(firstDialog)

	layout := &Layout{
		Wrapper:    htmldom.NewElement("div", ClassLayout),
		Media:      htmldom.NewElement("div", ClassMediaColumn),
		Transcript: htmldom.NewElement("div", ClassTranscript),
		Figure:     figure,
		Toolbar:    newToolbar(),
	}
	layout.Wrapper.AppendChild(layout.Media)
	layout.Wrapper.AppendChild(layout.Transcript)
	htmldom.InsertBefore(layout.Wrapper, firstDialog)

	htmldom.Append(layout.Media, figure)
	htmldom.Append(layout.Media, layout.Toolbar)
	for _, n := range nodes {
		htmldom.Append(layout.Transcript, n)
	}
	layout.Legend = moveLegendOutside(layout.Wrapper, layout.Transcript)
	return layout
}

// collectTranscriptNodes gathers the dialogue block, its legend and any further
// blocks or legends separated only by whitespace. Whitespace nodes in between are dropped.
func collectTranscriptNodes(firstDialog *html.Node) []*html.Node {
	var nodes []*html.Node
	for current := firstDialog; current != nil; {
		next := current.NextSibling
		switch {
		case htmldom.HasClass(current, dialogue.ClassBlock), htmldom.HasClass(current, dialogue.ClassLegend):
			nodes = append(nodes, current)
		case htmldom.IsWhitespaceText(current):
			htmldom.Detach(current)
		default:
			return nodes
		}
		current = next
	}
	return nodes
}

func moveLegendOutside(wrapper, transcript *html.Node) *html.Node {
	legends := htmldom.FindAll(transcript, htmldom.ByClass(dialogue.ClassLegend))
	if len(legends) == 0 {
		return nil
	}
	container := htmldom.NewElement("div", ClassLegendOutside)
	htmldom.InsertAfter(container, wrapper)
	for _, legend := range legends {
		htmldom.Append(container, legend)
	}
	return container
}

func newToolbar() *html.Node {
	toolbar := htmldom.NewElement("div", ClassToolbar)
	htmldom.SetAttr(toolbar, "role", "toolbar")
	for _, mode := range allModes {
		button := htmldom.NewElement("button", "mode-btn")
		htmldom.SetAttr(button, "type", "button")
		htmldom.SetAttr(button, AttrMode, string(mode))
		htmldom.SetAttr(button, "aria-pressed", "false")
		button.AppendChild(htmldom.NewText(mode.Label()))
		toolbar.AppendChild(button)
	}
	return toolbar
}

func syncToolbar(toolbar *html.Node, mode Mode) {
	if toolbar == nil {
		return
	}
	for _, button := range htmldom.FindAll(toolbar, htmldom.HasAttr(AttrMode)) {
		val, _ := htmldom.Attr(button, AttrMode)
		on := val == string(mode)
		htmldom.ToggleClass(button, ClassActive, on)
		pressed := "false"
		if on {
			pressed = "true"
		}
		htmldom.SetAttr(button, "aria-pressed", pressed)
	}
}
