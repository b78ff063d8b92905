package dialogue

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Role is the speaker classification used for bubble colour and side.
type Role string

const (
	RoleBrSE  Role = "brse"
	RoleKH    Role = "kh"
	RolePM    Role = "pm"
	RoleQA    Role = "qa"
	RoleDev   Role = "dev"
	RoleOther Role = "other"
)

// Side is the column a bubble is rendered on.
type Side string

const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// FixedSide returns the side a role is pinned to, if any.
func (r Role) FixedSide() (Side, bool) {
	switch r {
	case RoleKH:
		return SideLeft, true
	case RoleBrSE:
		return SideRight, true
	}
	return "", false
}

// Alternates reports whether the role flips the side of the next unclassified speaker.
func (r Role) Alternates() bool {
	switch r {
	case RoleOther, RolePM, RoleQA, RoleDev:
		return true
	}
	return false
}

// ClassifyRole maps a speaker name to a Role.
// The checks run in a fixed order, so a name matching several keywords
// resolves to the first one reached.
func ClassifyRole(name string) Role {
	key := RoleKey(name)
	switch {
	case strings.Contains(key, "brse"):
		return RoleBrSE
	case key == "kh" || strings.Contains(key, "client") || strings.Contains(key, "khach"):
		return RoleKH
	case strings.Contains(key, "pm"):
		return RolePM
	case strings.Contains(key, "qa"):
		return RoleQA
	case strings.Contains(key, "dev") || strings.Contains(key, "engineer"):
		return RoleDev
	}
	return RoleOther
}

// RoleKey lower-cases a speaker name, folds Vietnamese diacritics and keeps only [a-z0-9].
func RoleKey(name string) string {
	folded := FoldDiacritics(strings.ToLower(name))
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FoldDiacritics strips combining marks, so "khách" becomes "khach".
// "đ" has no decomposition and is mapped to "d" explicitly.
func FoldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.NewReplacer("đ", "d", "Đ", "D").Replace(folded)
}
