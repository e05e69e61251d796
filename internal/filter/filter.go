// Package filter evaluates per-column predicates and free-text search terms
// against records.
package filter

import (
	"sort"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/DRockoda/NCAA-Mens-basketball-Div-1-data/internal/model"
)

// Type tags the variant a Filter holds.
type Type string

const (
	TypeString      Type = "string"
	TypeNumber      Type = "number"
	TypeDate        Type = "date"
	TypeCategorical Type = "categorical"
)

// Op is a numeric comparison operator.
type Op string

const (
	OpGT  Op = ">"
	OpGTE Op = ">="
	OpLT  Op = "<"
	OpLTE Op = "<="
)

// Filter is a predicate on one column. Only the fields of its Type are read:
// Value for string, Op/Operand or Min/Max for number, From/To (YYYY-MM-DD or
// any accepted date layout) for date, Values for categorical.
type Filter struct {
	Type    Type     `json:"type"`
	Value   string   `json:"value,omitempty"`
	Op      Op       `json:"op,omitempty"`
	Operand *float64 `json:"operand,omitempty"`
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	From    string   `json:"from,omitempty"`
	To      string   `json:"to,omitempty"`
	Values  []string `json:"values,omitempty"`
}

// Contains builds a case-insensitive substring filter.
func Contains(value string) Filter {
	return Filter{Type: TypeString, Value: value}
}

// Compare builds an operator-form number filter.
func Compare(op Op, value float64) Filter {
	return Filter{Type: TypeNumber, Op: op, Operand: &value}
}

// Range builds an inclusive number range. A nil bound is open.
func Range(lo, hi *float64) Filter {
	return Filter{Type: TypeNumber, Min: lo, Max: hi}
}

// Between builds an inclusive date range. An empty bound is open.
func Between(from, to string) Filter {
	return Filter{Type: TypeDate, From: from, To: to}
}

// OneOf builds a categorical filter. No values means no constraint.
func OneOf(values ...string) Filter {
	return Filter{Type: TypeCategorical, Values: values}
}

// Float returns a pointer to v, for Range bounds.
func Float(v float64) *float64 { return &v }

// Validate checks the filter is well formed.
func (f Filter) Validate() error {
	switch f.Type {
	case TypeString, TypeCategorical:
		return nil
	case TypeNumber:
		if f.Op != "" {
			switch f.Op {
			case OpGT, OpGTE, OpLT, OpLTE:
			default:
				return eris.Errorf("filter: unknown operator %q", f.Op)
			}
			if f.Operand == nil {
				return eris.Errorf("filter: operator %s needs a value", f.Op)
			}
		}
		return nil
	case TypeDate:
		for _, b := range []string{f.From, f.To} {
			if b == "" {
				continue
			}
			if _, ok := model.ParseDate(b); !ok {
				return eris.Errorf("filter: invalid date %q", b)
			}
		}
		return nil
	}
	return eris.Errorf("filter: unknown type %q", f.Type)
}

// Match reports whether the record's cell in column passes the filter.
// Cells that do not parse as the filter's type fail.
func (f Filter) Match(rec model.Record, column string) bool {
	switch f.Type {
	case TypeString:
		value := strings.ToLower(strings.TrimSpace(f.Value))
		if value == "" {
			return true
		}
		return strings.Contains(strings.ToLower(rec.String(column)), value)

	case TypeNumber:
		v, ok := rec.Number(column)
		if !ok {
			return false
		}
		if f.Op != "" && f.Operand != nil {
			switch f.Op {
			case OpGT:
				return v > *f.Operand
			case OpGTE:
				return v >= *f.Operand
			case OpLT:
				return v < *f.Operand
			case OpLTE:
				return v <= *f.Operand
			}
			return false
		}
		if f.Min != nil && v < *f.Min {
			return false
		}
		if f.Max != nil && v > *f.Max {
			return false
		}
		return true

	case TypeDate:
		d, ok := model.ParseDate(rec.String(column))
		if !ok {
			return false
		}
		if from, ok := model.ParseDate(f.From); ok && d.Before(from) {
			return false
		}
		if to, ok := model.ParseDate(f.To); ok && d.After(to) {
			return false
		}
		return true

	case TypeCategorical:
		if len(f.Values) == 0 {
			return true
		}
		cell := rec.Text(column)
		for _, v := range f.Values {
			if cell == strings.TrimSpace(v) {
				return true
			}
		}
		return false
	}
	return false
}

// Set holds the active filters keyed by column id, so a column carries at
// most one filter.
type Set map[string]Filter

// With returns a copy of s with f set for column, replacing any previous one.
func (s Set) With(column string, f Filter) Set {
	out := make(Set, len(s)+1)
	for k, v := range s {
		out[k] = v
	}
	out[column] = f
	return out
}

// Without returns a copy of s without a filter for column.
func (s Set) Without(column string) Set {
	out := make(Set, len(s))
	for k, v := range s {
		if k != column {
			out[k] = v
		}
	}
	return out
}

// Columns returns the filtered column ids in sorted order.
func (s Set) Columns() []string {
	cols := make([]string, 0, len(s))
	for k := range s {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

// Validate checks every filter in the set.
func (s Set) Validate() error {
	for _, col := range s.Columns() {
		if err := s[col].Validate(); err != nil {
			return eris.Wrapf(err, "filter: column %s", col)
		}
	}
	return nil
}

// Terms trims and lowercases search terms, dropping empty ones.
func Terms(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, t := range raw {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Apply returns the records passing every filter and every search term, in
// input order. Each term must appear in at least one searchable column.
// The result is always a new slice.
func Apply(records []model.Record, filters Set, terms []string, columns []model.Column) []model.Record {
	terms = Terms(terms)
	out := make([]model.Record, 0, len(records))
	if len(filters) == 0 && len(terms) == 0 {
		return append(out, records...)
	}

	order := filters.Columns()
	searchable := model.SearchableIDs(columns)
	for _, rec := range records {
		if matchAll(rec, filters, order) && matchTerms(rec, terms, searchable) {
			out = append(out, rec)
		}
	}
	return out
}

func matchAll(rec model.Record, filters Set, order []string) bool {
	for _, col := range order {
		if !filters[col].Match(rec, col) {
			return false
		}
	}
	return true
}

func matchTerms(rec model.Record, terms, searchable []string) bool {
	for _, term := range terms {
		found := false
		for _, col := range searchable {
			if strings.Contains(strings.ToLower(rec.String(col)), term) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
