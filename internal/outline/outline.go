// Package outline loads the lesson outline from data/outline.json or data/outline.txt.
package outline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/itnihongo/kaiwa/internal/lesson"
	"github.com/itnihongo/kaiwa/internal/media"
)

const (
	JSONPath         = "data/outline.json"
	TablePath        = "data/outline.txt"
	DefaultGroupName = "(Khác)"
)

var separatorRow = regexp.MustCompile(`^\|\s*-+\s*\|`)

// Item is one lesson entry of the outline.
type Item struct {
	ID        string `json:"id"`
	Topic     string `json:"topic"`
	Path      string `json:"path"`
	Content   string `json:"content"`
	Views     int64  `json:"views"`
	Available bool   `json:"available"`
}

type Group struct {
	Name  string `json:"group"`
	Class string `json:"class"`
	Items []Item `json:"items"`
}

type Project struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Icon        string  `json:"icon"`
	Groups      []Group `json:"groups"`
}

// Outline is the normalised outline: only groups with at least one valid item.
type Outline struct {
	Groups   []Group   `json:"outlineGroups"`
	Projects []Project `json:"projects"`
}

// Load reads the JSON outline, then the table outline when the JSON file is
// absent. Any failure yields an empty outline.
func Load(ctx context.Context, source lesson.Source) *Outline {
	outline, err := load(ctx, source)
	if err != nil {
		slog.Default().Error("failed to load outline", slog.Any("error", err))
		return &Outline{Groups: []Group{}, Projects: []Project{}}
	}
	return outline
}

func load(ctx context.Context, source lesson.Source) (*Outline, error) {
	text, err := source.FetchText(ctx, JSONPath)
	if err == nil {
		return ParseJSON([]byte(text))
	}
	slog.Default().Debug("json outline unavailable", slog.Any("error", err))

	text, err = source.FetchText(ctx, TablePath)
	if err != nil {
		if errors.Is(err, lesson.ErrNotFound) {
			return &Outline{Groups: []Group{}, Projects: []Project{}}, nil
		}
		return nil, fmt.Errorf("source.FetchText(%s) > %w", TablePath, err)
	}
	return ParseTable(text), nil
}

// ParseJSON accepts {"projects":[{"groups":[...]}]}, {"outline":[...]} or a bare
// array of groups.
func ParseJSON(data []byte) (*Outline, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("json.Unmarshal() > %w", err)
	}

	outline := &Outline{Projects: []Project{}}
	var rawGroups []any
	if obj, ok := doc.(map[string]any); ok {
		projects, _ := obj["projects"].([]any)
		for _, p := range projects {
			project, ok := p.(map[string]any)
			if !ok {
				continue
			}
			groups, _ := project["groups"].([]any)
			rawGroups = append(rawGroups, groups...)
			icon := stringField(project, "icon")
			if icon == "" {
				icon = "gi-default"
			}
			outline.Projects = append(outline.Projects, Project{
				ID:          stringField(project, "id"),
				Title:       stringField(project, "title"),
				Description: stringField(project, "description"),
				Icon:        icon,
				Groups:      normalizeGroups(groups),
			})
		}
		if len(projects) == 0 {
			rawGroups, _ = obj["outline"].([]any)
		}
	} else if arr, ok := doc.([]any); ok {
		rawGroups = arr
	}

	outline.Groups = normalizeGroups(rawGroups)
	return outline, nil
}

// ParseTable reads the pipe table `| id | group | topic | ... |`; each lesson
// lives at data/{id}.md.
func ParseTable(text string) *Outline {
	var order []string
	byGroup := make(map[string][]any)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if !strings.HasPrefix(line, "|") || separatorRow.MatchString(line) {
			continue
		}
		cells := strings.Split(line, "|")
		if len(cells) < 5 {
			continue
		}
		for i := range cells {
			cells[i] = strings.TrimSpace(cells[i])
		}
		id, group, topic := cells[1], cells[2], cells[3]
		if id == "" || topic == "" {
			continue
		}
		if _, seen := byGroup[group]; !seen {
			order = append(order, group)
		}
		byGroup[group] = append(byGroup[group], map[string]any{
			"id":    id,
			"title": topic,
			"path":  "data/" + id + ".md",
		})
	}

	rawGroups := make([]any, 0, len(order))
	for _, group := range order {
		rawGroups = append(rawGroups, map[string]any{"group": group, "items": byGroup[group]})
	}
	return &Outline{Groups: normalizeGroups(rawGroups), Projects: []Project{}}
}

func normalizeGroups(rawGroups []any) []Group {
	groups := []Group{}
	for _, g := range rawGroups {
		group, ok := g.(map[string]any)
		if !ok {
			continue
		}
		rawItems, ok := group["items"].([]any)
		if !ok {
			continue
		}
		var items []Item
		for _, raw := range rawItems {
			if item, ok := normalizeItem(raw); ok {
				items = append(items, item)
			}
		}
		if len(items) == 0 {
			continue
		}
		name := stringField(group, "group")
		if name == "" {
			name = DefaultGroupName
		}
		groups = append(groups, Group{Name: name, Class: GroupClass(name), Items: items})
	}
	return groups
}

func normalizeItem(raw any) (Item, bool) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return Item{}, false
	}
	id := strings.TrimSpace(stringField(obj, "id"))
	if id == "" {
		return Item{}, false
	}
	item := Item{
		ID:      id,
		Topic:   firstString(obj, "title", "topic"),
		Path:    stringField(obj, "path"),
		Content: firstString(obj, "content", "desc"),
	}
	if item.Topic == "" {
		item.Topic = id
	}
	if item.Path == "" {
		item.Path = "data/project1/" + id + ".md"
	}
	for _, key := range []string{"views", "view", "count"} {
		if v, ok := obj[key]; ok && v != nil {
			item.Views = toCount(v)
			break
		}
	}
	return item, true
}

func stringField(obj map[string]any, key string) string {
	switch v := obj[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	return ""
}

func firstString(obj map[string]any, keys ...string) string {
	for _, key := range keys {
		if s := stringField(obj, key); s != "" {
			return s
		}
	}
	return ""
}

func toCount(v any) int64 {
	var f float64
	switch val := v.(type) {
	case float64:
		f = val
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0
		}
		f = parsed
	case bool:
		if val {
			return 1
		}
		return 0
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int64(f)
}

// GroupClass maps a group name to its icon class.
func GroupClass(name string) string {
	key := strings.ToLower(name)
	switch {
	case strings.Contains(key, "pre"):
		return "gi-pre"
	case strings.Contains(key, "kick"):
		return "gi-kick"
	case strings.Contains(key, "basic"):
		return "gi-basic"
	case strings.Contains(key, "detail"):
		return "gi-detail"
	case strings.Contains(key, "code"), strings.Contains(key, "coding"):
		return "gi-code"
	case strings.Contains(key, "test"):
		return "gi-test"
	case strings.Contains(key, "uat"):
		return "gi-uat"
	case strings.Contains(key, "release"), strings.Contains(key, "ops"):
		return "gi-release"
	case strings.Contains(key, "proc"):
		return "gi-process"
	case strings.Contains(key, "interview"):
		return "gi-interview"
	}
	return "gi-default"
}

// FindProject returns the project with the given id.
func (o *Outline) FindProject(id string) (Project, bool) {
	for _, p := range o.Projects {
		if p.ID == id {
			return p, true
		}
	}
	return Project{}, false
}

// CheckAvailability marks the items whose lesson file exists.
func (o *Outline) CheckAvailability(ctx context.Context, probe media.ResourceProbe) {
	o.eachItem(func(item *Item) {
		item.Available = probe.Exists(ctx, item.Path)
	})
}

// ApplyViews overrides item view counts with the stored ones.
func (o *Outline) ApplyViews(counts map[string]int64) {
	o.eachItem(func(item *Item) {
		if n, ok := counts[item.ID]; ok {
			item.Views = n
		}
	})
}

func (o *Outline) eachItem(fn func(*Item)) {
	visit := func(groups []Group) {
		for gi := range groups {
			for ii := range groups[gi].Items {
				fn(&groups[gi].Items[ii])
			}
		}
	}
	visit(o.Groups)
	for pi := range o.Projects {
		visit(o.Projects[pi].Groups)
	}
}
