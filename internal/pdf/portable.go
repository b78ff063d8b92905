package pdf

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// PortableMarkdown converts a rendered lesson body back to plain Markdown,
// flattening dialogue bubbles and vocabulary spans into text.
func PortableMarkdown(renderedHTML string) (string, error) {
	markdownText, err := htmltomarkdown.ConvertString(renderedHTML)
	if err != nil {
		return "", fmt.Errorf("htmltomarkdown.ConvertString() > %w", err)
	}
	markdownText = strings.ReplaceAll(markdownText, "\r\n", "\n")
	return strings.TrimSpace(markdownText), nil
}
