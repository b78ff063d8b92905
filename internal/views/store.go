// Package views counts lesson page views.
package views

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	// ErrInvalidID is returned for ids outside [A-Za-z0-9_.-]+.
	ErrInvalidID = errors.New("invalid id")
	// ErrNotConfigured is returned when the selected store lacks credentials.
	ErrNotConfigured = errors.New("server not configured")
)

var idPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

//go:generate mockgen -source=store.go -destination=../mocks/views/mock_store.go -package=mock_views

// Store keeps a view counter per lesson id.
type Store interface {
	Get(ctx context.Context, id string) (int64, error)
	All(ctx context.Context) (map[string]int64, error)
	Increment(ctx context.Context, id string) (int64, error)
}

// Setter is a Store whose counts can be overwritten.
type Setter interface {
	Store
	Set(ctx context.Context, id string, count int64) error
}

// SanitizeID trims id and checks it against the allowed characters.
func SanitizeID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if !idPattern.MatchString(id) {
		return "", ErrInvalidID
	}
	return id, nil
}

// decodeCounts reads a counts document leniently: malformed JSON is an empty
// map and values that are not numbers count as zero.
func decodeCounts(data []byte) map[string]int64 {
	counts := map[string]int64{}
	if len(strings.TrimSpace(string(data))) == 0 {
		return counts
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return counts
	}
	for id, v := range raw {
		counts[id] = toCount(v)
	}
	return counts
}

func toCount(v any) int64 {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0
		}
		return int64(n)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return toCount(f)
	default:
		return 0
	}
}

func encodeCounts(counts map[string]int64) ([]byte, error) {
	data, err := json.MarshalIndent(counts, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
