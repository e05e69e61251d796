package dataset

import (
	"strconv"
	"strings"

	"github.com/DRockoda/NCAA-Mens-basketball-Div-1-data/internal/fetcher"
	"github.com/DRockoda/NCAA-Mens-basketball-Div-1-data/internal/model"
)

// Keywords lists, per record set, the lowercase substrings that assign a
// sheet to it.
type Keywords struct {
	Teams     []string `json:"teams"`
	Players   []string `json:"players"`
	Transfers []string `json:"transfers"`
}

// DefaultKeywords match sheets such as "Teams 2024" or "Transfer Portal".
var DefaultKeywords = Keywords{
	Teams:     []string{"team", "teams"},
	Players:   []string{"player", "players"},
	Transfers: []string{"transfer", "transfers"},
}

// exactNames are the fallback sheet names when no keyword matches.
var exactNames = map[model.Kind]string{
	model.KindTeams:     "Teams",
	model.KindPlayers:   "Players",
	model.KindTransfers: "Transfers",
}

// For returns the keywords of kind.
func (k Keywords) For(kind model.Kind) []string {
	switch kind {
	case model.KindTeams:
		return k.Teams
	case model.KindPlayers:
		return k.Players
	case model.KindTransfers:
		return k.Transfers
	}
	return nil
}

// OrDefault fills empty lists from DefaultKeywords and lowercases the rest.
func (k Keywords) OrDefault() Keywords {
	pick := func(custom, def []string) []string {
		out := make([]string, 0, len(custom))
		for _, s := range custom {
			if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
				out = append(out, s)
			}
		}
		if len(out) == 0 {
			return def
		}
		return out
	}
	return Keywords{
		Teams:     pick(k.Teams, DefaultKeywords.Teams),
		Players:   pick(k.Players, DefaultKeywords.Players),
		Transfers: pick(k.Transfers, DefaultKeywords.Transfers),
	}
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// MatchSheets returns the sheets that feed kind, in workbook order. A sheet
// matches when its lowercase name contains any keyword; transfer sheets must
// not also name players. With no keyword match, a sheet named exactly
// Teams, Players or Transfers (any case) is used.
func MatchSheets(names []string, kind model.Kind, kw Keywords) []string {
	kw = kw.OrDefault()
	keywords := kw.For(kind)

	var matched []string
	for _, name := range names {
		lower := strings.ToLower(name)
		if !containsAny(lower, keywords) {
			continue
		}
		if kind == model.KindTransfers && containsAny(lower, kw.Players) {
			continue
		}
		matched = append(matched, name)
	}
	if len(matched) > 0 {
		return matched
	}
	for _, name := range names {
		if strings.EqualFold(name, exactNames[kind]) {
			return []string{name}
		}
	}
	return nil
}

// Records converts a sheet into records keyed by its header row. Cells
// missing from short rows become "", blank rows are skipped, blank headers
// become __EMPTY, __EMPTY_1, ... and repeated headers gain a _1, _2 suffix.
func Records(sheet fetcher.Sheet) ([]string, []model.Record) {
	if len(sheet.Rows) == 0 {
		return []string{}, []model.Record{}
	}

	width := usedWidth(sheet.Header())
	for _, row := range sheet.Rows[1:] {
		width = max(width, usedWidth(row))
	}
	fields := headerKeys(sheet.Header(), width)

	records := make([]model.Record, 0, len(sheet.Rows)-1)
	for _, row := range sheet.Rows[1:] {
		if usedWidth(row) == 0 {
			continue
		}
		rec := make(model.Record, len(fields))
		for i, field := range fields {
			raw := ""
			if i < len(row) {
				raw = row[i]
			}
			rec[field] = model.ParseCell(raw)
		}
		records = append(records, rec)
	}
	return fields, records
}

// usedWidth is the index after the last non-blank cell.
func usedWidth(row []string) int {
	for i := len(row) - 1; i >= 0; i-- {
		if strings.TrimSpace(row[i]) != "" {
			return i + 1
		}
	}
	return 0
}

func headerKeys(header []string, width int) []string {
	keys := make([]string, width)
	used := make(map[string]bool, width)
	suffix := make(map[string]int)
	for i := range width {
		base := ""
		if i < len(header) {
			base = strings.TrimSpace(header[i])
		}
		if base == "" {
			base = "__EMPTY"
		}
		key := base
		for used[key] {
			suffix[base]++
			key = base + "_" + strconv.Itoa(suffix[base])
		}
		used[key] = true
		keys[i] = key
	}
	return keys
}
