package schema

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/DRockoda/NCAA-Mens-basketball-Div-1-data/internal/model"
)

const (
	// sampleSize bounds the rows inspected during type inference.
	sampleSize = 100
	// maxCategorical is the exclusive distinct-value ceiling for categorical columns.
	maxCategorical = 20
)

// rankOptions are the fixed choices offered for transfer and HS rankings.
var rankOptions = []string{"1", "2", "3", "4", "5"}

// visibleKeywords mark inferred columns shown by default.
var visibleKeywords = []string{"name", "team", "player", "season", "date"}

type matcher func(exp model.Column, field string) bool

// matchTiers run in order across all expected columns, so a strong match for
// one column is never stolen by a synonym match for another.
var matchTiers = []matcher{
	func(exp model.Column, field string) bool { return exp.ID == field },
	func(exp model.Column, field string) bool { return strings.EqualFold(exp.ID, field) },
	func(exp model.Column, field string) bool { return Normalize(exp.ID) == Normalize(field) },
	func(exp model.Column, field string) bool {
		n := Normalize(exp.Label)
		return n != "" && n == Normalize(field)
	},
	func(exp model.Column, field string) bool { return isSynonym(exp.ID, field) },
}

// Resolve produces the column list for a record set: matched expected
// columns in declared order (carrying the actual field id), then inferred
// columns for the remaining fields in source order. Identifier columns are
// dropped. The transfers set additionally collapses rank columns and pins
// its visible order. With no records the expected list is returned as is.
func Resolve(kind model.Kind, set model.RecordSet, expected []model.Column) []model.Column {
	if len(set.Records) == 0 {
		return cloneColumns(expected)
	}

	var fields []string
	for _, f := range set.FieldOrder() {
		if !IsIdentifier(f) {
			fields = append(fields, f)
		}
	}

	assigned := make([]string, len(expected))
	used := make(map[string]bool, len(fields))
	for _, match := range matchTiers {
		for i, exp := range expected {
			if assigned[i] != "" {
				continue
			}
			for _, f := range fields {
				if !used[f] && match(exp, f) {
					assigned[i] = f
					used[f] = true
					break
				}
			}
		}
	}

	cols := make([]model.Column, 0, len(fields))
	for i, exp := range expected {
		if assigned[i] == "" {
			continue
		}
		c := exp
		c.ID = assigned[i]
		c.Options = append([]string(nil), exp.Options...)
		cols = append(cols, c)
	}
	for _, f := range fields {
		if !used[f] {
			cols = append(cols, Infer(f, set.Records))
		}
	}

	if kind == model.KindTransfers {
		cols = arrangeTransfers(cols)
	}
	return cols
}

// Infer builds a column for a field with no expected counterpart.
func Infer(field string, records []model.Record) model.Column {
	typ := InferType(field, records)
	lower := strings.ToLower(field)
	visible := false
	for _, kw := range visibleKeywords {
		if strings.Contains(lower, kw) {
			visible = true
			break
		}
	}
	return model.Column{
		ID:             field,
		Label:          Humanize(field),
		Type:           typ,
		Filterable:     true,
		Searchable:     typ == model.ColumnString || typ == model.ColumnCategorical,
		DefaultVisible: visible,
	}
}

// InferType guesses a column type from the first non-empty sampled value,
// falling back to a cardinality check over the sample.
func InferType(field string, records []model.Record) model.ColumnType {
	sample := records
	if len(sample) > sampleSize {
		sample = sample[:sampleSize]
	}

	for _, rec := range sample {
		if !rec.Has(field) {
			continue
		}
		if _, ok := rec.Number(field); ok {
			return model.ColumnNumber
		}
		if _, ok := model.ParseDate(rec.String(field)); ok {
			return model.ColumnDate
		}
		break
	}

	distinct := make(map[string]struct{})
	for _, rec := range sample {
		distinct[rec.Text(field)] = struct{}{}
	}
	if len(distinct) < maxCategorical && float64(len(distinct)) < float64(len(records))/10 {
		return model.ColumnCategorical
	}
	return model.ColumnString
}

// Humanize turns a field id into a display label: "team_win%" becomes
// "Team Win%", "PointsPerGame" becomes "Points Per Game". Words already
// carrying capitals keep them.
func Humanize(id string) string {
	w := words(id)
	if len(w) == 0 {
		return strings.TrimSpace(id)
	}
	for i, word := range w {
		if word == strings.ToLower(word) {
			w[i] = cases.Title(language.English).String(word)
		}
	}
	return strings.Join(w, " ")
}

func arrangeTransfers(cols []model.Column) []model.Column {
	pinned := make(map[role]model.Column, len(transferOrder))
	var rest []model.Column
	rankSeen := false

	for _, c := range cols {
		r := transferRole(c.ID, c.Label)
		switch r {
		case roleTransferRank:
			if rankSeen {
				continue
			}
			rankSeen = true
			c.Filterable = true
			c.Type = model.ColumnCategorical
			c.Options = append([]string(nil), rankOptions...)
		case roleHSRanking:
			c.Filterable = true
			c.Type = model.ColumnCategorical
			c.Options = append([]string(nil), rankOptions...)
		}
		if _, taken := pinned[r]; r != roleNone && !taken {
			c.DefaultVisible = true
			pinned[r] = c
			continue
		}
		c.DefaultVisible = false
		rest = append(rest, c)
	}

	out := make([]model.Column, 0, len(cols))
	for _, r := range transferOrder {
		if c, ok := pinned[r]; ok {
			out = append(out, c)
		}
	}
	return append(out, rest...)
}
