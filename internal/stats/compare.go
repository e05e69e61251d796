package stats

import (
	"sort"

	"github.com/DRockoda/NCAA-Mens-basketball-Div-1-data/internal/model"
)

// SeriesPoint is one season's value of the charted stat.
type SeriesPoint struct {
	Season    string  `json:"season"`
	SeasonNum int     `json:"season_num"`
	Value     float64 `json:"value"`
}

// Compared holds one selected entity's derived values. A nil value means
// the entity has no usable data for that stat.
type Compared struct {
	Entity
	Rows   int                 `json:"rows"`
	Values map[string]*float64 `json:"values"`
	Series []SeriesPoint       `json:"series"`
}

// Value returns the entity's value for key, or NaN.
func (c Compared) Value(key string) float64 {
	if v := c.Values[key]; v != nil {
		return *v
	}
	return nan
}

// ChartPoint is one season across every compared entity, keyed by entity id.
type ChartPoint struct {
	Season string              `json:"season"`
	Values map[string]*float64 `json:"values"`
}

// SeriesAverage is the mean of one entity's charted series.
type SeriesAverage struct {
	Entity
	Value float64 `json:"value"`
}

// Card is one highlight: who leads a stat and who follows.
type Card struct {
	Title         string `json:"title"`
	Key           string `json:"key"`
	Leader        string `json:"leader,omitempty"`
	LeaderValue   string `json:"leader_value,omitempty"`
	RunnerUp      string `json:"runner_up,omitempty"`
	RunnerUpValue string `json:"runner_up_value,omitempty"`
	Tie           bool   `json:"tie,omitempty"`
}

// Cell is one entity's value in a table row.
type Cell struct {
	Entity
	Value   *float64 `json:"value"`
	Display string   `json:"display"`
	Best    bool     `json:"best"`
}

// TableRow compares one stat across the selection.
type TableRow struct {
	Stat  Stat     `json:"stat"`
	Cells []Cell   `json:"cells"`
	Best  *float64 `json:"best"`
}

// Comparison is the full side-by-side view of a selection.
type Comparison struct {
	Kind       model.Kind      `json:"kind"`
	Season     string          `json:"season"`
	Stat       Stat            `json:"stat"`
	Seasons    []string        `json:"seasons"`
	Entities   []Compared      `json:"entities"`
	Chart      []ChartPoint    `json:"chart"`
	Averages   []SeriesAverage `json:"averages"`
	Highlights []Card          `json:"highlights"`
	Table      []TableRow      `json:"table"`
}

// Compare derives per-entity values for the selection. With season
// AllSeasons each stat is the mean of the entity's finite values across
// all its rows; otherwise it is the value from the first row of that
// season. stat picks the charted series.
func Compare(sel Selection, records []model.Record, stat Stat, season string) Comparison {
	if season == "" {
		season = AllSeasons
	}
	if stat.Key == "" {
		stat = DefaultStat(sel.Kind)
	}

	r := resolverFor(sel.Kind)
	metrics := metricSet(sel.Kind)
	cmp := Comparison{
		Kind:       sel.Kind,
		Season:     season,
		Stat:       stat,
		Seasons:    AvailableSeasons(records),
		Entities:   make([]Compared, 0, len(sel.Entities)),
		Chart:      []ChartPoint{},
		Averages:   []SeriesAverage{},
		Highlights: []Card{},
		Table:      []TableRow{},
	}

	for _, e := range sel.Entities {
		rows := r.Filter(records, e.ID)
		var pick model.Record
		if season != AllSeasons {
			for _, row := range rows {
				if row.String("Season") == season {
					pick = row
					break
				}
			}
		}

		c := Compared{Entity: e, Rows: len(rows), Values: make(map[string]*float64, len(metrics))}
		for _, m := range metrics {
			if season == AllSeasons {
				c.Values[m.Key] = ptr(mean(rows, m))
			} else if pick != nil {
				c.Values[m.Key] = ptr(m.Value(pick))
			} else {
				c.Values[m.Key] = nil
			}
		}
		c.Series = Series(rows, stat)
		cmp.Entities = append(cmp.Entities, c)
	}

	if len(cmp.Entities) == 0 {
		return cmp
	}
	cmp.Chart = chart(cmp.Entities)
	cmp.Averages = averages(cmp.Entities)
	cmp.Highlights = cards(sel.Kind, cmp.Entities)
	cmp.Table = table(sel.Kind, cmp.Entities)
	return cmp
}

// Series returns stat per row, rounded to two decimals and ordered by
// season year. Rows without a finite value are skipped.
func Series(rows []model.Record, stat Stat) []SeriesPoint {
	out := make([]SeriesPoint, 0, len(rows))
	for _, row := range rows {
		v := stat.Value(row)
		if !finite(v) {
			continue
		}
		s := orDefault(row.String("Season"), "N/A")
		out = append(out, SeriesPoint{Season: s, SeasonNum: model.SeasonNumber(s), Value: Round(v, 2)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SeasonNum < out[j].SeasonNum })
	return out
}

// Leader returns the index of the entity with the greatest value for key and
// of the runner-up (-1 when absent). Entities without a value never lead;
// ok is false when none has one. tie reports that the leader's value is
// shared, in which case the earlier selection leads.
func Leader(entities []Compared, key string) (leader, runnerUp int, tie, ok bool) {
	idx := make([]int, 0, len(entities))
	for i, e := range entities {
		if e.Values[key] != nil {
			idx = append(idx, i)
		}
	}
	if len(idx) == 0 {
		return -1, -1, false, false
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return entities[idx[a]].Value(key) > entities[idx[b]].Value(key)
	})
	leader, runnerUp = idx[0], -1
	if len(idx) > 1 {
		runnerUp = idx[1]
		tie = entities[idx[0]].Value(key) == entities[idx[1]].Value(key)
	}
	return leader, runnerUp, tie, true
}

func mean(rows []model.Record, stat Stat) float64 {
	var sum float64
	var n int
	for _, row := range rows {
		if v := stat.Value(row); finite(v) {
			sum += v
			n++
		}
	}
	if n == 0 {
		return nan
	}
	return sum / float64(n)
}

func chart(entities []Compared) []ChartPoint {
	seen := make(map[string]bool)
	var seasons []SeriesPoint
	for _, e := range entities {
		for _, p := range e.Series {
			if !seen[p.Season] {
				seen[p.Season] = true
				seasons = append(seasons, p)
			}
		}
	}
	sort.SliceStable(seasons, func(i, j int) bool { return seasons[i].SeasonNum < seasons[j].SeasonNum })

	out := make([]ChartPoint, len(seasons))
	for i, s := range seasons {
		pt := ChartPoint{Season: s.Season, Values: make(map[string]*float64, len(entities))}
		for _, e := range entities {
			pt.Values[e.ID] = nil
			for _, p := range e.Series {
				if p.Season == s.Season {
					pt.Values[e.ID] = ptr(p.Value)
					break
				}
			}
		}
		out[i] = pt
	}
	return out
}

func averages(entities []Compared) []SeriesAverage {
	out := make([]SeriesAverage, len(entities))
	for i, e := range entities {
		var sum float64
		for _, p := range e.Series {
			sum += p.Value
		}
		avg := 0.0
		if len(e.Series) > 0 {
			avg = Round(sum/float64(len(e.Series)), 2)
		}
		out[i] = SeriesAverage{Entity: e.Entity, Value: avg}
	}
	return out
}

func cards(kind model.Kind, entities []Compared) []Card {
	highlights := Highlights(kind)
	out := make([]Card, 0, len(highlights))
	for _, h := range highlights {
		card := Card{Title: h.Title, Key: h.Key}
		leader, runnerUp, tie, ok := Leader(entities, h.Key)
		if ok {
			card.Leader = entities[leader].Name
			card.LeaderValue = FormatCompact(entities[leader].Value(h.Key))
			card.Tie = tie
			if runnerUp >= 0 {
				card.RunnerUp = entities[runnerUp].Name
				card.RunnerUpValue = FormatCompact(entities[runnerUp].Value(h.Key))
			}
		}
		out = append(out, card)
	}
	return out
}

func table(kind model.Kind, entities []Compared) []TableRow {
	stats := TableStats(kind)
	out := make([]TableRow, 0, len(stats))
	for _, s := range stats {
		row := TableRow{Stat: s, Cells: make([]Cell, len(entities))}
		best := nan
		for i, e := range entities {
			v := e.Value(s.Key)
			row.Cells[i] = Cell{Entity: e.Entity, Value: ptr(v), Display: FormatCompact(v)}
			if finite(v) && (!finite(best) || v > best) {
				best = v
			}
		}
		row.Best = ptr(best)
		for i := range row.Cells {
			row.Cells[i].Best = row.Cells[i].Value != nil && finite(best) && *row.Cells[i].Value == best
		}
		out = append(out, row)
	}
	return out
}
