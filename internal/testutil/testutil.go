// Package testutil provides shared test helpers for config files and lesson content trees.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// SampleLesson is a project lesson with one dialogue block and a vocabulary section.
const SampleLesson = `# Bài 1: Chào hỏi

**BrSE:** おはようございます
*Chào buổi sáng*
**KH:** おはよう。進捗はどうですか？
*Chào. Tiến độ thế nào rồi?*

**PM:** 予定通りです
JP: よろしくお願いします
VN: Rất mong được giúp đỡ

## 単語
- 進捗 - tiến độ
- 予定 - kế hoạch
`

// SampleTimings times the five dialogue rows of SampleLesson.
const SampleTimings = "times: [0, \"0:03\", 6.5, \"00:09\", 12]\n"

// SetupTestConfig creates a content tree and a kaiwa.yml pointing at it.
// Returns the path to the generated config file.
func SetupTestConfig(t *testing.T, tmpDir string) string {
	t.Helper()

	dirs := []string{"site", "data", "outputs"}
	for _, d := range dirs {
		require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, d), 0755))
	}

	configContent := fmt.Sprintf(`content:
  root_directory: %s
views:
  backend: file
  fallback_file: %s
outputs:
  pdf_directory: %s
`,
		filepath.Join(tmpDir, "site"),
		filepath.Join(tmpDir, "data", "views.json"),
		filepath.Join(tmpDir, "outputs"),
	)

	configPath := filepath.Join(tmpDir, "kaiwa.yml")
	require.NoError(t, os.WriteFile(configPath, []byte(configContent), 0644))
	return configPath
}

// WriteFile writes content to root/relPath, creating parent directories.
func WriteFile(t *testing.T, root, relPath, content string) string {
	t.Helper()

	fullPath := filepath.Join(root, filepath.FromSlash(relPath))
	require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0755))
	require.NoError(t, os.WriteFile(fullPath, []byte(content), 0644))
	return fullPath
}

// WriteLessonTree writes SampleLesson at data/project1/lesson-01.md with its
// timings sidecar and a placeholder video under video/project1/.
func WriteLessonTree(t *testing.T, root string) string {
	t.Helper()

	lessonPath := "data/project1/lesson-01.md"
	WriteFile(t, root, lessonPath, SampleLesson)
	WriteFile(t, root, "data/project1/lesson-01.timings.yml", SampleTimings)
	WriteFile(t, root, "video/project1/lesson-01.mp4", "\x00\x00\x00\x18ftypmp42")
	return lessonPath
}
