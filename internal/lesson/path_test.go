package lesson

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLessonPath(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		projectID string
		lessonID  string
		want      string
		wantOK    bool
	}{
		{name: "explicit path", path: "data/project2/lesson-03.md", want: "data/project2/lesson-03.md", wantOK: true},
		{name: "project and lesson", projectID: "3", lessonID: "lesson-07", want: "data/project3/lesson-07.md", wantOK: true},
		{name: "traversal falls back to ids", path: "../secret.md", projectID: "1", lessonID: "a", want: "data/project1/a.md", wantOK: true},
		{name: "traversal only", path: "data/../../etc/passwd"},
		{name: "traversal in ids", projectID: "1", lessonID: "../x"},
		{name: "nothing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeLessonPath(tt.path, tt.projectID, tt.lessonID)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsLessonPath(t *testing.T) {
	tests := map[string]bool{
		"data/project1/lesson-01.md": true,
		"/lessons/intro.md":          true,
		"kaiwa.yml":                  false,
		"data/outline.json":          false,
		".git/notes.md":              false,
		"data/.drafts/lesson-02.md":  false,
		"data/project1/lesson-01":    false,
	}
	for p, want := range tests {
		assert.Equal(t, want, IsLessonPath(p), p)
	}
}

func TestProjectID(t *testing.T) {
	assert.Equal(t, "12", ProjectID("data/project12/lesson.md"))
	assert.Equal(t, "1", ProjectID("lessons/intro.md"))
	assert.True(t, IsProjectLesson("data/project2/a.md"))
	assert.False(t, IsProjectLesson("lessons/a.md"))
}

func TestParseTitle(t *testing.T) {
	assert.Equal(t, "Bài 1: Chào hỏi", ParseTitle("intro\n  # Bài 1: Chào hỏi  \n## sub", "x"))
	assert.Equal(t, "lesson-01", ParseTitle("## only second level", "lesson-01"))
	assert.Equal(t, "lesson-01", ParseTitle("#hashtag", "lesson-01"))
}

func TestSummarize(t *testing.T) {
	md := "# Tiêu đề\n\n> quote\n\nXem [link](http://x) và `code` ![img](a.png)\n\n```\nblock\n```\n- **mục**"
	assert.Equal(t, "Tiêu đề Xem và mục", Summarize(md, 160))

	long := strings.Repeat("あ", 200)
	got := Summarize(long, 10)
	assert.Equal(t, strings.Repeat("あ", 9)+"…", got)
}
