// Package enhance post-processes rendered lesson HTML: vocabulary and phrase
// sections get their list markup split into term / meaning spans.
package enhance

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/itnihongo/kaiwa/internal/dialogue"
	"github.com/itnihongo/kaiwa/internal/htmldom"
)

const (
	attrEnhanced = "data-enhanced"
	attrRefined  = "data-vrefined"
)

var (
	termSeparatorPattern = regexp.MustCompile(`\s[–—-]\s`)
	kanaEntryPattern     = regexp.MustCompile(`^(.+?)\s*[（(]([^）)]+)[）)]\s*\|\s*(.+)$`)
	pipeEntryPattern     = regexp.MustCompile(`^(.+?)\s*\|\s*(.+)$`)
	englishTermPattern   = regexp.MustCompile(`^[a-zA-Z\s\-.]+$`)
	tokenPattern         = regexp.MustCompile(`[\p{L}\p{M}\p{N}]+|[^\p{L}\p{M}\p{N}]+`)
	asciiWordPattern     = regexp.MustCompile(`^[a-zA-Z]+$`)
)

// Lesson runs Sections followed by RefineVocab. Running it twice is a no-op.
func Lesson(root *html.Node) {
	if root == nil {
		return
	}
	Sections(root)
	RefineVocab(root)
}

// Sections marks vocabulary and phrase headings and the list right after them.
func Sections(root *html.Node) {
	for _, heading := range htmldom.FindAll(root, htmldom.ByTag("h2", "h3")) {
		text := htmldom.TextContent(heading)
		normalized := strings.ToLower(dialogue.FoldDiacritics(text))

		if isVocabHeading(text, normalized) {
			htmldom.AddClass(heading, "sec-head", "vocab-head")
			if list := followingList(heading); list != nil {
				htmldom.AddClass(list, "vocab-list")
				for _, li := range htmldom.FindAll(list, htmldom.ByTag("li")) {
					splitVocabItem(li)
				}
			}
		}

		if isPhraseHeading(text, normalized) {
			htmldom.AddClass(heading, "sec-head", "phrase-head")
			if list := followingList(heading); list != nil {
				htmldom.AddClass(list, "phrase-list")
				for _, li := range htmldom.FindAll(list, htmldom.ByTag("li")) {
					if p := htmldom.First(li, htmldom.ByTag("p")); p != nil {
						htmldom.AddClass(p, "jp")
					}
					if em := htmldom.First(li, htmldom.ByTag("em")); em != nil {
						htmldom.AddClass(em, "vn")
					}
				}
			}
		}
	}
}

func isVocabHeading(text, normalized string) bool {
	return strings.Contains(text, "単語") ||
		strings.Contains(normalized, "tu vung") ||
		strings.Contains(normalized, "tu-vung") ||
		strings.Contains(normalized, "tu_vung")
}

func isPhraseHeading(text, normalized string) bool {
	return strings.Contains(text, "フレーズ") ||
		strings.Contains(normalized, "mau cau") ||
		strings.Contains(normalized, "mau-cau") ||
		strings.Contains(normalized, "mau_cau")
}

func followingList(heading *html.Node) *html.Node {
	next := htmldom.NextElementSibling(heading)
	if next != nil && (next.Data == "ul" || next.Data == "ol") {
		return next
	}
	return nil
}

func splitVocabItem(li *html.Node) {
	if _, done := htmldom.Attr(li, attrEnhanced); done {
		return
	}
	raw := strings.TrimSpace(htmldom.TextContent(li))
	parts := termSeparatorPattern.Split(raw, -1)
	if len(parts) < 2 {
		return
	}
	htmldom.RemoveChildren(li)
	li.AppendChild(span("v-term jp", "ja", parts[0]))
	li.AppendChild(span("v-mean", "vi", strings.Join(parts[1:], " - ")))
	htmldom.SetAttr(li, attrEnhanced, "1")
}

// RefineVocab rewrites vocab-list items written as "term（kana）| meaning" or
// "term | meaning"; anything else becomes a sub-heading item.
func RefineVocab(root *html.Node) {
	for _, list := range htmldom.FindAll(root, htmldom.ByClass("vocab-list")) {
		for _, li := range htmldom.FindAll(list, htmldom.ByTag("li")) {
			refineItem(li)
		}
	}
}

func refineItem(li *html.Node) {
	if v, _ := htmldom.Attr(li, attrRefined); v == "1" {
		return
	}
	raw := strings.TrimSpace(htmldom.TextContent(li))

	if m := kanaEntryPattern.FindStringSubmatch(raw); m != nil {
		term := span("v-term jp", "ja", strings.TrimSpace(m[1])+" ")
		term.AppendChild(span("hiragana", "", "（"+strings.TrimSpace(m[2])+"）"))
		htmldom.RemoveClass(li, "v-head")
		htmldom.RemoveChildren(li)
		li.AppendChild(term)
		li.AppendChild(meaningSpan(strings.TrimSpace(m[3])))
	} else if m := pipeEntryPattern.FindStringSubmatch(raw); m != nil {
		term := strings.TrimSpace(m[1])
		class, lang := "v-term jp-term", "ja"
		if englishTermPattern.MatchString(term) {
			class, lang = "v-term english-term", "en"
		}
		htmldom.RemoveClass(li, "v-head")
		htmldom.RemoveChildren(li)
		li.AppendChild(span(class, lang, term))
		li.AppendChild(meaningSpan(strings.TrimSpace(m[2])))
	} else if htmldom.First(li, htmldom.ByClass("v-term")) == nil {
		htmldom.AddClass(li, "v-head")
		htmldom.RemoveChildren(li)
		li.AppendChild(span("v-term jp", "ja", raw))
	}
	htmldom.SetAttr(li, attrRefined, "1")
}

// meaningSpan wraps runs of ASCII-only words (English glosses) in span.english.
func meaningSpan(meaning string) *html.Node {
	out := span("v-mean", "vi", "")

	tokens := tokenPattern.FindAllString(meaning, -1)
	var english []string
	var pending string
	flush := func() {
		if len(english) > 0 {
			out.AppendChild(span("english", "", strings.Join(english, "")))
			english = nil
		}
	}
	for _, tok := range tokens {
		switch {
		case asciiWordPattern.MatchString(tok):
			if len(english) > 0 && pending != "" {
				english = append(english, pending)
			}
			pending = ""
			english = append(english, tok)
		case strings.TrimSpace(tok) == "" && len(english) > 0:
			pending += tok
		default:
			flush()
			out.AppendChild(htmldom.NewText(pending + tok))
			pending = ""
		}
	}
	flush()
	if pending != "" {
		out.AppendChild(htmldom.NewText(pending))
	}
	return out
}

func span(class, lang, text string) *html.Node {
	n := htmldom.NewElement("span", class)
	if lang != "" {
		htmldom.SetAttr(n, "lang", lang)
	}
	if text != "" {
		n.AppendChild(htmldom.NewText(text))
	}
	return n
}
