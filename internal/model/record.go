package model

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// Kind identifies one of the three record sets.
type Kind string

const (
	KindTeams     Kind = "teams"
	KindPlayers   Kind = "players"
	KindTransfers Kind = "transfers"
)

// Kinds lists every record set in load order.
var Kinds = []Kind{KindTeams, KindPlayers, KindTransfers}

// ParseKind accepts a record set name, case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindTeams, "team":
		return KindTeams, nil
	case KindPlayers, "player":
		return KindPlayers, nil
	case KindTransfers, "transfer":
		return KindTransfers, nil
	}
	return "", eris.Errorf("model: unknown record set %q (want teams, players, or transfers)", s)
}

// Record is one spreadsheet row keyed by header. Values are string or
// float64; empty cells hold "". Records are never mutated after load.
type Record map[string]any

// ParseCell converts a raw cell into a record value. Numeric text becomes a
// float64, everything else stays as written.
func ParseCell(raw string) any {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	if f, ok := parseFinite(trimmed); ok {
		return f
	}
	return raw
}

// FormatValue stringifies a cell the way it is matched and displayed.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}

// String returns the stringified cell, or "" when the field is absent.
func (r Record) String(key string) string {
	return FormatValue(r[key])
}

// Text returns the trimmed stringified cell.
func (r Record) Text(key string) string {
	return strings.TrimSpace(r.String(key))
}

// Has reports whether the field is present and non-empty.
func (r Record) Has(key string) bool {
	return r.Text(key) != ""
}

// Number parses the cell as a finite number.
func (r Record) Number(key string) (float64, bool) {
	switch val := r[key].(type) {
	case float64:
		return val, !math.IsNaN(val) && !math.IsInf(val, 0)
	case float32:
		f := float64(val)
		return f, !math.IsNaN(f) && !math.IsInf(f, 0)
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case string:
		return parseFinite(strings.TrimSpace(val))
	}
	return 0, false
}

// Float returns the cell as a number, or NaN when it is missing or malformed.
func (r Record) Float(key string) float64 {
	if f, ok := r.Number(key); ok {
		return f
	}
	return math.NaN()
}

// OrZero returns the cell as a number, or 0 when it is missing or malformed.
func (r Record) OrZero(key string) float64 {
	if f, ok := r.Number(key); ok {
		return f
	}
	return 0
}

// First returns the first non-empty trimmed value among keys.
func (r Record) First(keys ...string) string {
	for _, k := range keys {
		if v := r.Text(k); v != "" {
			return v
		}
	}
	return ""
}

// Keys returns the record's field names in sorted order.
func (r Record) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func parseFinite(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// dateLayouts are the calendar formats accepted for date cells and filters.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"1/2/2006",
	"01/02/2006",
	"Jan-2006",
	"January 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

// ParseDate parses s as a calendar date, truncated to midnight UTC.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// RecordSet is one loaded record collection plus its header order.
type RecordSet struct {
	Kind    Kind     `json:"kind"`
	Fields  []string `json:"fields"`
	Records []Record `json:"records"`
}

// Len returns the number of records.
func (s RecordSet) Len() int { return len(s.Records) }

// FieldOrder returns the header order, falling back to the sorted union of
// record keys when no header was captured.
func (s RecordSet) FieldOrder() []string {
	if len(s.Fields) > 0 {
		return s.Fields
	}
	seen := make(map[string]bool)
	var fields []string
	for _, rec := range s.Records {
		for _, k := range rec.Keys() {
			if !seen[k] {
				seen[k] = true
				fields = append(fields, k)
			}
		}
	}
	sort.Strings(fields)
	return fields
}

// Datasets is the immutable snapshot published by one load.
type Datasets struct {
	Teams     RecordSet `json:"teams"`
	Players   RecordSet `json:"players"`
	Transfers RecordSet `json:"transfers"`
	Source    string    `json:"source,omitempty"`
	LoadedAt  time.Time `json:"loaded_at"`
}

// EmptyDatasets returns a snapshot with three empty, non-nil record sets.
func EmptyDatasets() *Datasets {
	return &Datasets{
		Teams:     RecordSet{Kind: KindTeams, Fields: []string{}, Records: []Record{}},
		Players:   RecordSet{Kind: KindPlayers, Fields: []string{}, Records: []Record{}},
		Transfers: RecordSet{Kind: KindTransfers, Fields: []string{}, Records: []Record{}},
	}
}

// Of returns the record set for kind.
func (d *Datasets) Of(kind Kind) RecordSet {
	switch kind {
	case KindTeams:
		return d.Teams
	case KindPlayers:
		return d.Players
	case KindTransfers:
		return d.Transfers
	}
	return RecordSet{Kind: kind, Fields: []string{}, Records: []Record{}}
}

// Total returns the record count across all three sets.
func (d *Datasets) Total() int {
	return d.Teams.Len() + d.Players.Len() + d.Transfers.Len()
}

var yearPattern = regexp.MustCompile(`\d{4}`)

// SeasonNumber extracts the sortable year from a season label: the first
// four-digit run ("2023-24" is 2023), else the whole value as a number,
// else 0.
func SeasonNumber(season string) int {
	season = strings.TrimSpace(season)
	if m := yearPattern.FindString(season); m != "" {
		n, _ := strconv.Atoi(m)
		return n
	}
	if f, ok := parseFinite(season); ok {
		return int(f)
	}
	return 0
}
