package schema

import (
	"strings"
	"unicode"
)

// Normalize lowercases s and strips everything but letters and digits, so
// "Team_Name", "team name" and "TeamName" all compare equal.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// synonyms maps a normalized expected id to the normalized field names that
// stand in for it in real workbooks.
var synonyms = map[string][]string{
	"season":          {"year", "seasonyear", "yr"},
	"playername":      {"name", "player", "fullname"},
	"teamname":        {"team", "school"},
	"team":            {"teamname", "school", "currentteam"},
	"fromschool":      {"team", "fromteam", "previousteam", "oldteam", "school", "teamname"},
	"toschool":        {"newteam", "toteam", "nextteam", "newschool", "destination"},
	"transferrank":    {"rank", "transferranking", "portalrank", "trank"},
	"hsranking":       {"hsrank", "highschoolranking", "highschoolrank", "recruitrank"},
	"winpercentage":   {"winpct", "teamwin", "win"},
	"pointspergame":   {"pts", "ppg", "teampts"},
	"reboundspergame": {"reb", "rpg", "teamreb"},
	"assistspergame":  {"ast", "apg"},
	"gamesplayed":     {"gp", "teamgp", "games"},
	"minutespergame":  {"min", "mpg", "minutes"},
	"wins":            {"w", "teamwins"},
	"losses":          {"l", "teamlosses"},
	"position":        {"pos"},
	"conference":      {"conf"},
	"transfertype":    {"type"},
	"date":            {"transferdate", "announced"},
}

// Synonyms returns the normalized aliases for an expected id.
func Synonyms(expectedID string) []string {
	return synonyms[Normalize(expectedID)]
}

func isSynonym(expectedID, field string) bool {
	nf := Normalize(field)
	for _, alias := range Synonyms(expectedID) {
		if alias == nf {
			return true
		}
	}
	return false
}

// words splits a header on separators and lower-to-upper case boundaries.
func words(s string) []string {
	var out []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			out = append(out, string(cur))
			cur = cur[:0]
		}
	}
	runes := []rune(s)
	for i, r := range runes {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '%':
			flush()
		case unicode.IsUpper(r) && i > 0 && unicode.IsLower(runes[i-1]):
			flush()
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
	}
	flush()
	return out
}

var sequenceHeaders = []string{"s. no", "s no", "sr. no", "sr no", "s.no", "sr.no", "sl. no", "sl no"}

var identifierNames = map[string]bool{
	"id": true, "sno": true, "srno": true, "slno": true, "serialno": true,
	"serialnumber": true, "rowid": true, "rownum": true, "rownumber": true,
	"index": true, "unnamed0": true,
}

// IsIdentifier reports whether a header names an internal identifier or row
// sequence number that never belongs in the column list.
func IsIdentifier(field string) bool {
	lower := strings.ToLower(strings.TrimSpace(field))
	if lower == "#" {
		return true
	}
	for _, h := range sequenceHeaders {
		if strings.HasPrefix(lower, h) {
			return true
		}
	}
	if identifierNames[Normalize(field)] {
		return true
	}
	w := words(field)
	return len(w) > 0 && strings.EqualFold(w[len(w)-1], "id")
}

// role names the fixed transfer columns.
type role int

const (
	roleNone role = iota
	roleSeason
	roleTransferRank
	roleName
	roleTeam
	roleNewTeam
	roleHSRanking
)

// transferOrder is the enforced visible order for the transfers set.
var transferOrder = []role{roleSeason, roleTransferRank, roleName, roleTeam, roleNewTeam, roleHSRanking}

func isHSRank(n string) bool {
	return (strings.Contains(n, "hs") && strings.Contains(n, "rank")) || strings.Contains(n, "highschool")
}

func isTransferRank(n string) bool {
	return strings.Contains(n, "rank") && !isHSRank(n)
}

func inGroup(n string, group ...string) bool {
	for _, g := range group {
		if n == g {
			return true
		}
	}
	return false
}

// transferRole classifies a column by its normalized id and label.
func transferRole(id, label string) role {
	for _, n := range []string{Normalize(id), Normalize(label)} {
		switch {
		case n == "":
			continue
		case isHSRank(n):
			return roleHSRanking
		case isTransferRank(n):
			return roleTransferRank
		case inGroup(n, "season", "year"):
			return roleSeason
		case inGroup(n, "playername", "name", "player", "fullname"):
			return roleName
		case inGroup(n, "newteam", "toteam", "toschool", "nextteam", "newschool"):
			return roleNewTeam
		case inGroup(n, "team", "teamname", "fromteam", "fromschool", "school", "previousteam"):
			return roleTeam
		}
	}
	return roleNone
}
