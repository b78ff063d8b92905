package media

import (
	"context"
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"
)

// ErrNoVideo is returned when none of the candidate locations exists.
var ErrNoVideo = errors.New("no lesson video found")

var projectPattern = regexp.MustCompile(`/project(\d+)/`)

// BaseName returns the lesson file name without its extension.
func BaseName(lessonPath string) string {
	name := path.Base(lessonPath)
	if name == "." || name == "/" {
		return ""
	}
	return strings.TrimSuffix(name, path.Ext(name))
}

// Candidates lists the video locations for a lesson in priority order:
// project-scoped directory, video/, videos/, then next to the markdown file.
func Candidates(lessonPath string) []string {
	base := BaseName(lessonPath)
	if base == "" {
		return nil
	}

	projectDir := "video/"
	if m := projectPattern.FindStringSubmatch(lessonPath); m != nil {
		projectDir = fmt.Sprintf("video/project%s/", m[1])
	}
	sibling := strings.TrimSuffix(lessonPath, path.Ext(lessonPath)) + ".mp4"

	all := []string{
		projectDir + base + ".mp4",
		"video/" + base + ".mp4",
		"videos/" + base + ".mp4",
		sibling,
	}
	seen := make(map[string]bool, len(all))
	candidates := make([]string, 0, len(all))
	for _, c := range all {
		if seen[c] {
			continue
		}
		seen[c] = true
		candidates = append(candidates, c)
	}
	return candidates
}

// Resolve probes candidates one at a time and returns the first that exists.
// Later candidates are never probed once one is found.
func Resolve(ctx context.Context, probe ResourceProbe, candidates []string) (string, error) {
	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("resolve video > %w", err)
		}
		if probe.Exists(ctx, candidate) {
			return candidate, nil
		}
	}
	return "", ErrNoVideo
}
