package filter

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/DRockoda/NCAA-Mens-basketball-Div-1-data/internal/model"
)

// MaxValues caps the option list returned for one column.
const MaxValues = 200

// Values returns the distinct non-empty stringified values of a column.
// Season columns sort most recent first, numeric columns ascending by value,
// everything else alphabetically.
func Values(records []model.Record, col model.Column) []string {
	seen := make(map[string]bool)
	var vals []string
	for _, rec := range records {
		v := rec.Text(col.ID)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		vals = append(vals, v)
	}

	switch {
	case strings.Contains(strings.ToLower(col.ID), "season"):
		sort.SliceStable(vals, func(i, j int) bool {
			return model.SeasonNumber(vals[i]) > model.SeasonNumber(vals[j])
		})
	case col.Type == model.ColumnNumber:
		sort.SliceStable(vals, func(i, j int) bool {
			return numeric(vals[i]) < numeric(vals[j])
		})
	default:
		sort.Strings(vals)
	}

	if len(vals) > MaxValues {
		vals = vals[:MaxValues]
	}
	if vals == nil {
		return []string{}
	}
	return vals
}

func numeric(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return math.Inf(1)
	}
	return f
}
