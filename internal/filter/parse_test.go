package filter

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DRockoda/NCAA-Mens-basketball-Div-1-data/internal/model"
)

func TestParse(t *testing.T) {
	tests := []struct {
		expr   string
		wantID string
		check  func(t *testing.T, f Filter)
	}{
		{"PTS>=12", "PTS", func(t *testing.T, f Filter) {
			assert.Equal(t, TypeNumber, f.Type)
			assert.Equal(t, OpGTE, f.Op)
			require.NotNil(t, f.Operand)
			assert.Equal(t, 12.0, *f.Operand)
		}},
		{"points < 5.5", "PTS", func(t *testing.T, f Filter) {
			assert.Equal(t, OpLT, f.Op)
			assert.Equal(t, 5.5, *f.Operand)
		}},
		{"PTS=10..20", "PTS", func(t *testing.T, f Filter) {
			require.NotNil(t, f.Min)
			require.NotNil(t, f.Max)
			assert.Equal(t, 10.0, *f.Min)
			assert.Equal(t, 20.0, *f.Max)
		}},
		{"PTS=..20", "PTS", func(t *testing.T, f Filter) {
			assert.Nil(t, f.Min)
			assert.Equal(t, 20.0, *f.Max)
		}},
		{"PTS=15", "PTS", func(t *testing.T, f Filter) {
			assert.Equal(t, 15.0, *f.Min)
			assert.Equal(t, 15.0, *f.Max)
		}},
		{"Date=2024-01-01..2024-03-31", "Date", func(t *testing.T, f Filter) {
			assert.Equal(t, Between("2024-01-01", "2024-03-31"), f)
		}},
		{"Conference=ACC|SEC", "Conference", func(t *testing.T, f Filter) {
			assert.Equal(t, OneOf("ACC", "SEC"), f)
		}},
		{"Team~duke", "Team", func(t *testing.T, f Filter) {
			assert.Equal(t, Contains("duke"), f)
		}},
		{"Team=Duke", "Team", func(t *testing.T, f Filter) {
			assert.Equal(t, Contains("Duke"), f)
		}},
		{"Team=Duke|UNC", "Team", func(t *testing.T, f Filter) {
			assert.Equal(t, OneOf("Duke", "UNC"), f)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			id, f, err := Parse(tt.expr, testColumns)
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
			tt.check(t, f)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	for _, expr := range []string{
		"PTS",
		">=12",
		"Rebounds>=3",
		"PTS>=many",
		"PTS=a..b",
		"Date=yesterday",
		"PTS=",
	} {
		t.Run(expr, func(t *testing.T) {
			_, _, err := Parse(expr, testColumns)
			assert.Error(t, err)
		})
	}
}

func TestParseAll(t *testing.T) {
	set, err := ParseAll([]string{"PTS>=12", "", "Conference=ACC", "PTS<30"}, testColumns)
	require.NoError(t, err)
	assert.Equal(t, []string{"Conference", "PTS"}, set.Columns())
	assert.Equal(t, OpLT, set["PTS"].Op)

	_, err = ParseAll([]string{"PTS>=12", "bogus"}, testColumns)
	assert.Error(t, err)
}

func TestValues(t *testing.T) {
	recs := []model.Record{
		{"Season": "2022-23", "PTS": 10.0, "Team": "Duke"},
		{"Season": "2024-25", "PTS": 2.0, "Team": "Auburn"},
		{"Season": "2023-24", "PTS": 10.0, "Team": ""},
		{"Season": "2024-25", "PTS": 33.0, "Team": "Duke"},
	}

	assert.Equal(t, []string{"2024-25", "2023-24", "2022-23"},
		Values(recs, model.Column{ID: "Season", Type: model.ColumnString}))
	assert.Equal(t, []string{"2", "10", "33"},
		Values(recs, model.Column{ID: "PTS", Type: model.ColumnNumber}))
	assert.Equal(t, []string{"Auburn", "Duke"},
		Values(recs, model.Column{ID: "Team", Type: model.ColumnString}))

	empty := Values(nil, model.Column{ID: "Team"})
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestValues_Capped(t *testing.T) {
	recs := make([]model.Record, 0, MaxValues+50)
	for i := 0; i < MaxValues+50; i++ {
		recs = append(recs, model.Record{"Name": fmt.Sprintf("player-%04d", i)})
	}
	got := Values(recs, model.Column{ID: "Name"})
	assert.Len(t, got, MaxValues)
	assert.Equal(t, "player-0000", got[0])
}

func TestPaginate(t *testing.T) {
	recs := make([]model.Record, 0, 7)
	for i := 0; i < 7; i++ {
		recs = append(recs, model.Record{"i": float64(i)})
	}

	p := Paginate(recs, 2, 3)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 3, p.Pages)
	assert.Equal(t, 7, p.Total)
	require.Len(t, p.Records, 3)
	assert.Equal(t, 3.0, p.Records[0]["i"])

	last := Paginate(recs, 99, 3)
	assert.Equal(t, 3, last.Page)
	assert.Len(t, last.Records, 1)

	first := Paginate(recs, 0, 0)
	assert.Equal(t, 1, first.Page)
	assert.Equal(t, DefaultPageSize, first.PageSize)
	assert.Len(t, first.Records, 7)

	none := Paginate(nil, 1, 10)
	assert.Equal(t, 1, none.Pages)
	assert.NotNil(t, none.Records)
	assert.Empty(t, none.Records)
}

func TestProject(t *testing.T) {
	recs := []model.Record{{"Name": "A", "PTS": 1.0, "AST": 2.0}}
	got := Project(recs, []string{"Name", "PTS", "Missing"})
	assert.Equal(t, []model.Record{{"Name": "A", "PTS": 1.0}}, got)
	assert.Equal(t, recs, Project(recs, nil))
}
