package filter

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/DRockoda/NCAA-Mens-basketball-Div-1-data/internal/model"
)

// operators in match priority at a given position.
var operators = []string{">=", "<=", "~", ">", "<", "="}

// Parse reads a filter expression of the form
//
//	PTS>=12          number operator
//	PTS=10..20       inclusive range, either bound may be omitted
//	Date=2024-01-01..2024-03-31
//	Conference=ACC|SEC
//	Team~duke        substring
//
// against the resolved columns and returns the target column id and filter.
// The column's type decides how "=" is read.
func Parse(expr string, columns []model.Column) (string, Filter, error) {
	pos, op := -1, ""
	for i := 0; i < len(expr) && pos < 0; i++ {
		for _, candidate := range operators {
			if strings.HasPrefix(expr[i:], candidate) {
				pos, op = i, candidate
				break
			}
		}
	}
	if pos <= 0 {
		return "", Filter{}, eris.Errorf("filter: cannot parse %q (want COLUMN OP VALUE)", expr)
	}

	name := strings.TrimSpace(expr[:pos])
	value := strings.TrimSpace(expr[pos+len(op):])
	col, ok := lookupColumn(columns, name)
	if !ok {
		return "", Filter{}, eris.Errorf("filter: unknown column %q", name)
	}

	f, err := build(col, op, value)
	if err != nil {
		return "", Filter{}, eris.Wrapf(err, "filter: %s", expr)
	}
	return col.ID, f, nil
}

// ParseAll parses several expressions into a Set. A later expression on the
// same column replaces an earlier one.
func ParseAll(exprs []string, columns []model.Column) (Set, error) {
	set := make(Set, len(exprs))
	for _, e := range exprs {
		if strings.TrimSpace(e) == "" {
			continue
		}
		id, f, err := Parse(e, columns)
		if err != nil {
			return nil, err
		}
		set[id] = f
	}
	return set, nil
}

func build(col model.Column, op, value string) (Filter, error) {
	switch op {
	case "~":
		return Contains(value), nil
	case ">", ">=", "<", "<=":
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return Filter{}, eris.Errorf("%q is not a number", value)
		}
		return Compare(Op(op), n), nil
	}

	switch col.Type {
	case model.ColumnNumber:
		lo, hi, err := splitRange(value)
		if err != nil {
			return Filter{}, err
		}
		var f Filter
		if f.Min, err = optionalFloat(lo); err != nil {
			return Filter{}, err
		}
		if f.Max, err = optionalFloat(hi); err != nil {
			return Filter{}, err
		}
		f.Type = TypeNumber
		return f, nil
	case model.ColumnDate:
		from, to, err := splitRange(value)
		if err != nil {
			return Filter{}, err
		}
		f := Between(from, to)
		return f, f.Validate()
	case model.ColumnCategorical:
		return OneOf(splitValues(value)...), nil
	}
	if strings.Contains(value, "|") {
		return OneOf(splitValues(value)...), nil
	}
	return Contains(value), nil
}

// splitRange splits "a..b"; a bare value is both bounds.
func splitRange(value string) (string, string, error) {
	if value == "" {
		return "", "", eris.New("empty value")
	}
	lo, hi, found := strings.Cut(value, "..")
	if !found {
		return value, value, nil
	}
	return strings.TrimSpace(lo), strings.TrimSpace(hi), nil
}

func optionalFloat(s string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, eris.Errorf("%q is not a number", s)
	}
	return &n, nil
}

func splitValues(value string) []string {
	var out []string
	for _, v := range strings.Split(value, "|") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func lookupColumn(columns []model.Column, name string) (model.Column, bool) {
	if c, ok := model.FindColumn(columns, name); ok {
		return c, true
	}
	for _, c := range columns {
		if strings.EqualFold(c.ID, name) || strings.EqualFold(c.Label, name) {
			return c, true
		}
	}
	return model.Column{}, false
}
