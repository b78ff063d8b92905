// Package htmldom provides the small set of DOM operations the lesson pipeline
// performs on golang.org/x/net/html trees.
package htmldom

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Matcher selects nodes during a traversal.
type Matcher func(n *html.Node) bool

// NewElement creates a detached element with an optional class attribute.
func NewElement(tag string, class string) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	if class != "" {
		SetAttr(n, "class", class)
	}
	return n
}

// NewText creates a detached text node.
func NewText(text string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: text}
}

// ParseFragment parses markup as the children of a new <div> container and returns the container.
func ParseFragment(markup string) (*html.Node, error) {
	root := NewElement("div", "")
	if err := SetInnerHTML(root, markup); err != nil {
		return nil, err
	}
	return root, nil
}

// SetInnerHTML replaces the children of n with the parsed markup.
func SetInnerHTML(n *html.Node, markup string) error {
	context := n
	if n.Type != html.ElementNode {
		context = NewElement("div", "")
	}
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return fmt.Errorf("html.ParseFragment > %w", err)
	}
	RemoveChildren(n)
	for _, child := range nodes {
		n.AppendChild(child)
	}
	return nil
}

// SetText replaces the children of n with a single text node.
func SetText(n *html.Node, text string) {
	RemoveChildren(n)
	n.AppendChild(NewText(text))
}

// RemoveChildren detaches every child of n.
func RemoveChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
}

// InnerHTML serialises the children of n.
func InnerHTML(n *html.Node) (string, error) {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", fmt.Errorf("html.Render > %w", err)
		}
	}
	return buf.String(), nil
}

// OuterHTML serialises n itself.
func OuterHTML(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", fmt.Errorf("html.Render > %w", err)
	}
	return buf.String(), nil
}

// Attr returns the value of an attribute.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets or replaces an attribute.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr deletes an attribute if present.
func RemoveAttr(n *html.Node, key string) {
	attrs := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			continue
		}
		attrs = append(attrs, a)
	}
	n.Attr = attrs
}

// Classes returns the class list of n.
func Classes(n *html.Node) []string {
	val, _ := Attr(n, "class")
	return strings.Fields(val)
}

// HasClass reports whether n is an element carrying class.
func HasClass(n *html.Node, class string) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	for _, c := range Classes(n) {
		if c == class {
			return true
		}
	}
	return false
}

// AddClass appends classes that are not present yet.
func AddClass(n *html.Node, classes ...string) {
	list := Classes(n)
	for _, class := range classes {
		if !HasClass(n, class) {
			list = append(list, class)
			SetAttr(n, "class", strings.Join(list, " "))
		}
	}
}

// RemoveClass drops classes from n.
func RemoveClass(n *html.Node, classes ...string) {
	drop := make(map[string]bool, len(classes))
	for _, c := range classes {
		drop[c] = true
	}
	var kept []string
	for _, c := range Classes(n) {
		if !drop[c] {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		RemoveAttr(n, "class")
		return
	}
	SetAttr(n, "class", strings.Join(kept, " "))
}

// ToggleClass adds or removes class depending on on.
func ToggleClass(n *html.Node, class string, on bool) {
	if on {
		AddClass(n, class)
		return
	}
	RemoveClass(n, class)
}

// TextContent concatenates all descendant text.
func TextContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(TextContent(c))
	}
	return b.String()
}

// FindAll returns every descendant of root matching m, in document order.
func FindAll(root *html.Node, m Matcher) []*html.Node {
	var found []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if m(c) {
				found = append(found, c)
			}
			walk(c)
		}
	}
	walk(root)
	return found
}

// First returns the first descendant of root matching m.
func First(root *html.Node, m Matcher) *html.Node {
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if m(c) {
			return c
		}
		if found := First(c, m); found != nil {
			return found
		}
	}
	return nil
}

// Closest walks from n up through its ancestors and returns the first match.
func Closest(n *html.Node, m Matcher) *html.Node {
	for ; n != nil; n = n.Parent {
		if m(n) {
			return n
		}
	}
	return nil
}

// Contains reports whether n is root or one of its descendants.
func Contains(root, n *html.Node) bool {
	for ; n != nil; n = n.Parent {
		if n == root {
			return true
		}
	}
	return false
}

// NextElementSibling skips text and comment nodes.
func NextElementSibling(n *html.Node) *html.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}

// IsWhitespaceText reports whether n is a text node with only whitespace.
func IsWhitespaceText(n *html.Node) bool {
	return n != nil && n.Type == html.TextNode && strings.TrimSpace(n.Data) == ""
}

// Detach removes n from its parent, if any.
func Detach(n *html.Node) {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// InsertBefore moves n in front of ref.
func InsertBefore(n, ref *html.Node) {
	Detach(n)
	ref.Parent.InsertBefore(n, ref)
}

// InsertAfter moves n right after ref.
func InsertAfter(n, ref *html.Node) {
	Detach(n)
	ref.Parent.InsertBefore(n, ref.NextSibling)
}

// Prepend moves n to the first position of parent.
func Prepend(parent, n *html.Node) {
	Detach(n)
	parent.InsertBefore(n, parent.FirstChild)
}

// Append moves n to the end of parent.
func Append(parent, n *html.Node) {
	Detach(n)
	parent.AppendChild(n)
}

// ByClass matches elements carrying class.
func ByClass(class string) Matcher {
	return func(n *html.Node) bool {
		return HasClass(n, class)
	}
}

// ByTag matches elements with one of the tag names.
func ByTag(tags ...string) Matcher {
	return func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		for _, tag := range tags {
			if n.Data == tag {
				return true
			}
		}
		return false
	}
}

// And combines matchers.
func And(matchers ...Matcher) Matcher {
	return func(n *html.Node) bool {
		for _, m := range matchers {
			if !m(n) {
				return false
			}
		}
		return true
	}
}

// HasAttr matches elements carrying the attribute.
func HasAttr(key string) Matcher {
	return func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		_, ok := Attr(n, key)
		return ok
	}
}
