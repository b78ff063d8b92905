package lesson

import (
	"fmt"
	"path"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	projectPattern = regexp.MustCompile(`/project(\d+)/`)
	titlePattern   = regexp.MustCompile(`(?m)^\s*#\s+(.+)$`)

	summaryRules = []struct {
		pattern *regexp.Regexp
		repl    string
	}{
		{regexp.MustCompile("(?s)```.*?```"), " "},
		{regexp.MustCompile("`[^`]+`"), " "},
		{regexp.MustCompile(`(?m)^>.*$`), " "},
		{regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`), " "},
		{regexp.MustCompile(`\[[^\]]*\]\([^)]*\)`), " "},
		{regexp.MustCompile(`[#*_>\-]+`), " "},
		{regexp.MustCompile(`\s+`), " "},
	}
)

// IsLessonPath reports whether p names a Markdown lesson outside hidden directories.
func IsLessonPath(p string) bool {
	return path.Ext(p) == ".md" && !hasHiddenSegment(p)
}

// isContentText reports whether a Source may return p: a lesson, its timings
// sidecar, or a JSON or text file under data/.
func isContentText(p string) bool {
	if hasHiddenSegment(p) {
		return false
	}
	switch {
	case path.Ext(p) == ".md", strings.HasSuffix(p, ".timings.yml"):
		return true
	case strings.HasPrefix(p, "data/"):
		ext := path.Ext(p)
		return ext == ".json" || ext == ".txt"
	}
	return false
}

func hasHiddenSegment(p string) bool {
	for _, segment := range strings.Split(strings.TrimPrefix(p, "/"), "/") {
		if strings.HasPrefix(segment, ".") {
			return true
		}
	}
	return false
}

// NormalizeLessonPath picks the lesson path from an explicit path, or builds it
// from a project and lesson id. Paths containing ".." are rejected.
func NormalizeLessonPath(lessonPath, projectID, lessonID string) (string, bool) {
	if lessonPath != "" && !strings.Contains(lessonPath, "..") {
		return lessonPath, true
	}
	if projectID != "" && lessonID != "" && !strings.Contains(projectID+lessonID, "..") {
		return fmt.Sprintf("data/project%s/%s.md", projectID, lessonID), true
	}
	return "", false
}

// ProjectID returns the project number encoded in a lesson path, "1" when absent.
func ProjectID(lessonPath string) string {
	if m := projectPattern.FindStringSubmatch(lessonPath); m != nil {
		return m[1]
	}
	return "1"
}

// IsProjectLesson reports whether the path lives under a project directory.
func IsProjectLesson(lessonPath string) bool {
	return strings.Contains(lessonPath, "/project")
}

// ParseTitle returns the first level-one heading, or fallback.
func ParseTitle(markdown, fallback string) string {
	title := fallback
	if m := titlePattern.FindStringSubmatch(markdown); m != nil {
		title = strings.TrimSpace(m[1])
	}
	return strings.TrimRight(title, " \t\r\n")
}

// Summarize strips Markdown syntax and cuts the text to limit runes.
func Summarize(markdown string, limit int) string {
	s := markdown
	for _, rule := range summaryRules {
		s = rule.pattern.ReplaceAllString(s, rule.repl)
	}
	s = strings.TrimSpace(s)
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-1]) + "…"
}
