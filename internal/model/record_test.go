package model

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Kind
	}{
		{"teams", KindTeams},
		{"Team", KindTeams},
		{" PLAYERS ", KindPlayers},
		{"transfer", KindTransfers},
	}
	for _, tt := range tests {
		got, err := ParseKind(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseKind("coaches")
	assert.Error(t, err)
}

func TestParseCell(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", ParseCell("   "))
	assert.Equal(t, 12.5, ParseCell(" 12.5 "))
	assert.Equal(t, "Duke", ParseCell("Duke"))
	assert.Equal(t, "2023-24", ParseCell("2023-24"))
	assert.Equal(t, "NaN", ParseCell("NaN"))
}

func TestRecordAccessors(t *testing.T) {
	t.Parallel()

	rec := Record{
		"Name":   "  Cooper Flagg ",
		"PTS":    19.2,
		"GP":     "37",
		"FG%":    "n/a",
		"Empty":  "",
		"Season": 2025.0,
	}

	assert.Equal(t, "Cooper Flagg", rec.Text("Name"))
	assert.Equal(t, "2025", rec.String("Season"))
	assert.Equal(t, "", rec.String("Missing"))
	assert.True(t, rec.Has("Name"))
	assert.False(t, rec.Has("Empty"))

	pts, ok := rec.Number("PTS")
	require.True(t, ok)
	assert.InDelta(t, 19.2, pts, 1e-9)

	gp, ok := rec.Number("GP")
	require.True(t, ok)
	assert.Equal(t, 37.0, gp)

	_, ok = rec.Number("FG%")
	assert.False(t, ok)
	_, ok = rec.Number("Empty")
	assert.False(t, ok)

	assert.True(t, math.IsNaN(rec.Float("FG%")))
	assert.Equal(t, 0.0, rec.OrZero("FG%"))
	assert.Equal(t, "Cooper Flagg", rec.First("Player", "Name"))
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	d, ok := ParseDate("2024-03-15")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), d)

	d, ok = ParseDate("3/15/2024")
	require.True(t, ok)
	assert.Equal(t, time.March, d.Month())

	_, ok = ParseDate("not a date")
	assert.False(t, ok)
	_, ok = ParseDate("")
	assert.False(t, ok)
}

func TestRecordSetFieldOrder(t *testing.T) {
	t.Parallel()

	withHeader := RecordSet{Fields: []string{"Team", "Season"}}
	assert.Equal(t, []string{"Team", "Season"}, withHeader.FieldOrder())

	noHeader := RecordSet{Records: []Record{{"b": 1.0}, {"a": 2.0, "b": 3.0}}}
	assert.Equal(t, []string{"a", "b"}, noHeader.FieldOrder())
}

func TestEmptyDatasets(t *testing.T) {
	t.Parallel()

	d := EmptyDatasets()
	for _, k := range Kinds {
		set := d.Of(k)
		assert.NotNil(t, set.Records, k)
		assert.Equal(t, 0, set.Len())
	}
	assert.Equal(t, 0, d.Total())
}

func TestSeasonNumber(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 2023, SeasonNumber("2023-24"))
	assert.Equal(t, 2024, SeasonNumber(" Season 2024 "))
	assert.Equal(t, 99, SeasonNumber("99"))
	assert.Equal(t, 0, SeasonNumber("N/A"))
	assert.Equal(t, 0, SeasonNumber(""))
}
