package helpers

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/Gravitalia/nido/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var mentionRegex = regexp.MustCompile(`(?:^|[^\p{L}0-9_@.])@([\p{L}0-9_]{3,20})`)

// Fold lowercases s and strips accents, so "Canción" and
// "cancion" compare equal
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return cases.Fold().String(strings.TrimSpace(folded))
}

// Mentions returns the distinct usernames mentioned with @ in content,
// lowercased, in order of appearance
func Mentions(content string) []string {
	matches := mentionRegex.FindAllStringSubmatch(content, -1)

	seen := make(map[string]bool, len(matches))
	list := make([]string, 0, len(matches))
	for _, match := range matches {
		name := strings.ToLower(match[1])
		if !seen[name] {
			seen[name] = true
			list = append(list, name)
		}
	}

	return list
}

// RelationKind maps a route name to the relation it manages
func RelationKind(name string) (string, bool) {
	switch cases.Title(language.English, cases.Compact).String(strings.ToLower(strings.Trim(name, "/"))) {
	case "Like":
		return model.RelationLike, true
	case "Follow", "Subscribe", "Subscriber":
		return model.RelationFollow, true
	case "Block":
		return model.RelationBlock, true
	}
	return "", false
}

// RemoveDuplicates allows for the removal of duplicate ids,
// keeping the first occurrence
func RemoveDuplicates(list []string) []string {
	newList := make([]string, 0, len(list))
	seen := make(map[string]bool, len(list))

	for _, id := range list {
		if !seen[id] {
			seen[id] = true
			newList = append(newList, id)
		}
	}

	return newList
}

// Page clamps pagination values: limit falls back to def when not
// positive and is capped to max, offset is never negative
func Page(limit, offset, def, max int) (int, int) {
	if limit <= 0 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
