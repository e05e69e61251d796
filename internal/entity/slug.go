// Package entity derives stable slugs for players and teams from free-text
// name fields so rows can be correlated across record sets.
package entity

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/DRockoda/NCAA-Mens-basketball-Div-1-data/internal/model"
)

var (
	nonSlugChars = regexp.MustCompile(`[^a-z0-9\s-]`)
	whitespace   = regexp.MustCompile(`\s+`)
	hyphenRuns   = regexp.MustCompile(`-{2,}`)
)

// Slugify lowercases s, folds accents, spells out "&" as "and", strips
// everything but letters, digits, spaces and hyphens, and joins words
// with single hyphens. "A&M" and "A and M" both yield "a-and-m".
func Slugify(s string) string {
	s = foldAccents(strings.ToLower(s))
	s = strings.ReplaceAll(s, "&", " and ")
	s = nonSlugChars.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = whitespace.ReplaceAllString(s, "-")
	s = hyphenRuns.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// SlugOf resolves a record's display name and optional secondary id and
// returns the combined slug. Name candidates are tried in order, then any
// key containing "name". Returns "" when no name is found.
func SlugOf(rec model.Record, nameCandidates, idCandidates []string) string {
	name := nameOf(rec, nameCandidates, []string{"name"})
	if name == "" {
		return ""
	}
	return joinSlug(name, rec.First(idCandidates...))
}

// Matches reports whether rec resolves to slug. An empty slug never matches.
func Matches(rec model.Record, slug string, nameCandidates, idCandidates []string) bool {
	if slug == "" {
		return false
	}
	return SlugOf(rec, nameCandidates, idCandidates) == slug
}

func joinSlug(name, id string) string {
	base := Slugify(name)
	if base == "" {
		return ""
	}
	if id == "" {
		return base
	}
	if idPart := Slugify(id); idPart != "" {
		return base + "-" + idPart
	}
	return base
}

// nameOf returns the first non-empty preferred field, then the first
// non-empty field (in sorted key order) whose key contains a keyword.
func nameOf(rec model.Record, candidates, keywords []string) string {
	if v := rec.First(candidates...); v != "" {
		return v
	}
	for _, kw := range keywords {
		for _, k := range rec.Keys() {
			if strings.Contains(strings.ToLower(k), kw) {
				if v := rec.Text(k); v != "" {
					return v
				}
			}
		}
	}
	return ""
}
