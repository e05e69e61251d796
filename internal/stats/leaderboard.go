package stats

import (
	"sort"
	"strings"

	"github.com/DRockoda/NCAA-Mens-basketball-Div-1-data/internal/entity"
	"github.com/DRockoda/NCAA-Mens-basketball-Div-1-data/internal/filter"
	"github.com/DRockoda/NCAA-Mens-basketball-Div-1-data/internal/model"
)

// DefaultTopN is the leaderboard length when the caller passes zero.
const DefaultTopN = 10

// AllSeasons selects every season.
const AllSeasons = "ALL"

// Entry is one ranked leaderboard row.
type Entry struct {
	Rank    int     `json:"rank"`
	Name    string  `json:"name"`
	Slug    string  `json:"slug"`
	Context string  `json:"context"`
	Value   float64 `json:"value"`
	Display string  `json:"display"`
}

// Leaderboard ranks records by stat, highest first. Records whose value is
// zero, negative or not a finite number are left out; ties keep input order.
func Leaderboard(records []model.Record, kind model.Kind, stat Stat, topN int) []Entry {
	if topN <= 0 {
		topN = DefaultTopN
	}

	type scored struct {
		rec   model.Record
		value float64
	}
	candidates := make([]scored, 0, len(records))
	for _, rec := range records {
		v := stat.Value(rec)
		if !finite(v) || v <= 0 {
			continue
		}
		candidates = append(candidates, scored{rec, v})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].value > candidates[j].value
	})
	if len(candidates) > topN {
		candidates = candidates[:topN]
	}

	r := resolverFor(kind)
	out := make([]Entry, len(candidates))
	for i, c := range candidates {
		out[i] = Entry{
			Rank:    i + 1,
			Name:    r.Name(c.rec),
			Slug:    r.Slug(c.rec),
			Context: contextOf(kind, c.rec),
			Value:   c.value,
			Display: stat.Format(c.value),
		}
	}
	return out
}

// Board is one named dashboard leaderboard.
type Board struct {
	Title   string     `json:"title"`
	Kind    model.Kind `json:"kind"`
	Stat    Stat       `json:"stat"`
	Season  string     `json:"season"`
	Entries []Entry    `json:"entries"`
}

var dashboard = []struct {
	kind  model.Kind
	title string
	key   string
}{
	{model.KindPlayers, "Points per Game", "PTS"},
	{model.KindPlayers, "Total Points", "TOTAL_POINTS"},
	{model.KindPlayers, "Assists per Game", "AST"},
	{model.KindPlayers, "Rebounds per Game", "REB"},
	{model.KindPlayers, "Field Goal %", "FG%"},
	{model.KindTeams, "Win %", "Team_Win%"},
	{model.KindTeams, "Points per Game", "Team_PTS"},
	{model.KindTeams, "Offensive Efficiency", "Team_Adj_Off_Eff"},
	{model.KindTeams, "BARTHAG", "Team_BARTHAG"},
}

// Dashboard builds the named player and team leaderboards, optionally
// restricted to one season.
func Dashboard(ds *model.Datasets, season string, topN int) []Board {
	if ds == nil {
		ds = model.EmptyDatasets()
	}
	season = strings.TrimSpace(season)
	if season == "" {
		season = AllSeasons
	}

	boards := make([]Board, 0, len(dashboard))
	for _, d := range dashboard {
		stat, ok := LookupStat(d.kind, d.key)
		if !ok {
			continue
		}
		boards = append(boards, Board{
			Title:   d.title,
			Kind:    d.kind,
			Stat:    stat,
			Season:  season,
			Entries: Leaderboard(InSeason(ds.Of(d.kind).Records, season), d.kind, stat, topN),
		})
	}
	return boards
}

// InSeason returns the records whose Season equals season. AllSeasons and
// the empty string keep everything.
func InSeason(records []model.Record, season string) []model.Record {
	season = strings.TrimSpace(season)
	if season == "" || season == AllSeasons {
		return filter.Apply(records, nil, nil, nil)
	}
	return filter.Apply(records, filter.Set{"Season": filter.OneOf(season)}, nil, nil)
}

func resolverFor(kind model.Kind) entity.Resolver {
	if kind == model.KindTeams {
		return entity.Team
	}
	return entity.Player
}

// contextOf describes where a row sits: team and season for players,
// conference and season for teams, the move for transfers.
func contextOf(kind model.Kind, rec model.Record) string {
	var parts []string
	switch kind {
	case model.KindPlayers:
		parts = append(parts, entity.PlayerTeam(rec))
	case model.KindTeams:
		parts = append(parts, rec.Text("Conference"))
	case model.KindTransfers:
		from, to := rec.First("Team", "From_Team"), rec.First("New_Team", "To_Team")
		if from != "" || to != "" {
			parts = append(parts, from+" → "+to)
		}
	}
	parts = append(parts, rec.Text("Season"))

	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " · ")
}
