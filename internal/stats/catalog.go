// Package stats derives leaderboards, comparisons, profiles and transfer
// impact from loaded records. Everything here is pure: functions never
// mutate their inputs and insufficient data yields empty results.
package stats

import (
	"math"
	"strings"

	"github.com/DRockoda/NCAA-Mens-basketball-Div-1-data/internal/model"
)

// Stat describes one numeric metric read from a record.
type Stat struct {
	Key     string `json:"key"`
	Label   string `json:"label"`
	Digits  int    `json:"digits"`
	Percent bool   `json:"percent,omitempty"`
	Total   bool   `json:"total,omitempty"`

	derive func(model.Record) float64
}

// Value reads the stat from rec. Missing or malformed cells yield NaN.
func (s Stat) Value(rec model.Record) float64 {
	if s.derive != nil {
		return s.derive(rec)
	}
	return rec.Float(s.Key)
}

// Format renders v the way the stat is displayed.
func (s Stat) Format(v float64) string {
	switch {
	case s.Percent:
		return FormatPercent(v)
	case s.Total:
		return FormatCount(v)
	}
	return FormatNumber(v, s.Digits)
}

// TotalPoints is points per game times games played, with at least one game.
func TotalPoints(rec model.Record) float64 {
	pts := rec.Float("PTS")
	if math.IsNaN(pts) {
		return pts
	}
	return pts * math.Max(rec.OrZero("GP"), 1)
}

func rate(key, label string) Stat        { return Stat{Key: key, Label: label, Digits: 1} }
func fixed(key, label string, d int) Stat { return Stat{Key: key, Label: label, Digits: d} }
func percent(key, label string) Stat     { return Stat{Key: key, Label: label, Digits: 1, Percent: true} }

var totalPoints = Stat{Key: "TOTAL_POINTS", Label: "Total Points", Total: true, derive: TotalPoints}

var playerStats = []Stat{
	rate("PTS", "Points per Game"),
	totalPoints,
	rate("AST", "Assists per Game"),
	rate("REB", "Rebounds per Game"),
	percent("FG%", "Field Goal %"),
	fixed("GP", "Games Played (GP)", 0),
	rate("MIN", "Minutes (MIN)"),
	rate("Off_Reb", "Offensive Rebounds (Off_Reb)"),
	rate("Def_Reb", "Defensive Rebounds (Def_Reb)"),
	rate("BLK", "Blocks (BLK)"),
	rate("STL", "Steals (STL)"),
	rate("TO", "Turnovers (TO)"),
	percent("3P%", "3P%"),
	percent("FT%", "Free Throw % (FT%)"),
	percent("TS%", "True Shooting % (TS%)"),
	fixed("OBPR", "Offensive BPR (OBPR)", 2),
	fixed("DBPR", "Defensive BPR (DBPR)", 2),
	fixed("BPR", "Total BPR (BPR)", 2),
	fixed("POSS", "Possessions (POSS)", 0),
	percent("USG%", "Usage % (USG%)"),
	fixed("Box_OBPR", "Box OBPR", 2),
	fixed("Box_DBPR", "Box DBPR", 2),
	fixed("Box_BPR", "Box BPR", 2),
	fixed("Team_PRPG", "Team PRPG", 2),
	fixed("Adj_team_Off_Eff", "Adj team Off Eff", 2),
	fixed("Adj_team_Deff_Eff", "Adj team Def Eff", 2),
	fixed("Adj_team_Eff_Margn", "Adj team Eff Margin", 2),
	fixed("Team_Net_Score", "Team Net Score", 2),
}

var teamStats = []Stat{
	percent("Team_Win%", "Win %"),
	fixed("Team_Q1_Wins", "Q1 Wins", 0),
	percent("Team_Conf_Wins%", "Conference Win %"),
	fixed("Team_GP", "Games Played", 0),
	rate("Team_PTS", "Points per Game"),
	rate("Team_Reb", "Rebounds per Game"),
	rate("Team_Off_Reb", "Offensive Rebounds"),
	rate("Team_Def_Reb", "Defensive Rebounds"),
	rate("Team_BLK", "Blocks"),
	rate("Team_STL", "Steals"),
	rate("Team_TO", "Turnovers"),
	percent("Team_FG%", "Field Goal %"),
	percent("Team_3P%", "3P %"),
	percent("Team_FT%", "Free Throw %"),
	rate("Team_Adj_Off_Eff", "Offensive Efficiency"),
	rate("Team_Adj_Def_Eff", "Defensive Efficiency"),
	fixed("Team_OBPR", "OBPR", 2),
	fixed("Team_DBPR", "DBPR", 2),
	fixed("Team_BPR", "BPR", 2),
	rate("Team_Adj_Tempo", "Adjusted Tempo"),
	fixed("Team_BARTHAG", "BARTHAG", 3),
}

var playerTable = []Stat{
	fixed("GP", "Games", 0),
	rate("MIN", "Minutes"),
	rate("PTS", "Points per Game"),
	rate("AST", "Assists per Game"),
	rate("REB", "Rebounds per Game"),
	percent("FG%", "Field Goal %"),
}

var teamTable = []Stat{
	fixed("Team_GP", "Games Played", 0),
	percent("Team_Win%", "Win %"),
	rate("Team_PTS", "Points per Game"),
	rate("Team_Reb", "Rebounds per Game"),
	rate("Team_Adj_Off_Eff", "Offensive Efficiency"),
	rate("Team_Adj_Def_Eff", "Defensive Efficiency"),
}

// Highlight names the stat behind one leader card.
type Highlight struct {
	Title string `json:"title"`
	Key   string `json:"key"`
}

var playerHighlights = []Highlight{
	{"Highest Total Points", "TOTAL_POINTS"},
	{"Highest Points per Game", "PTS"},
	{"Highest Assists per Game", "AST"},
	{"Highest Rebounds per Game", "REB"},
}

var teamHighlights = []Highlight{
	{"Highest Win %", "Team_Win%"},
	{"Highest Points per Game", "Team_PTS"},
	{"Best Offensive Efficiency", "Team_Adj_Off_Eff"},
	{"Highest Rebounds per Game", "Team_Reb"},
}

// StatOptions returns the selectable stats for players or teams. Transfers
// have none.
func StatOptions(kind model.Kind) []Stat {
	switch kind {
	case model.KindPlayers:
		return clone(playerStats)
	case model.KindTeams:
		return clone(teamStats)
	}
	return []Stat{}
}

// TableStats returns the stats shown in the side-by-side compare table.
func TableStats(kind model.Kind) []Stat {
	switch kind {
	case model.KindPlayers:
		return clone(playerTable)
	case model.KindTeams:
		return clone(teamTable)
	}
	return []Stat{}
}

// Highlights returns the leader cards shown for a comparison.
func Highlights(kind model.Kind) []Highlight {
	switch kind {
	case model.KindPlayers:
		return clone(playerHighlights)
	case model.KindTeams:
		return clone(teamHighlights)
	}
	return []Highlight{}
}

// LookupStat finds a stat by key among the options, then the table stats.
// Keys match case-insensitively.
func LookupStat(kind model.Kind, key string) (Stat, bool) {
	key = strings.TrimSpace(key)
	for _, list := range [][]Stat{StatOptions(kind), TableStats(kind)} {
		for _, s := range list {
			if strings.EqualFold(s.Key, key) {
				return s, true
			}
		}
	}
	return Stat{}, false
}

// DefaultStat is the stat a comparison charts when none is chosen.
func DefaultStat(kind model.Kind) Stat {
	opts := StatOptions(kind)
	if len(opts) == 0 {
		return Stat{}
	}
	return opts[0]
}

// metricSet is every stat a comparison computes values for, options first,
// table-only stats after.
func metricSet(kind model.Kind) []Stat {
	out := StatOptions(kind)
	for _, t := range TableStats(kind) {
		if _, ok := find(out, t.Key); !ok {
			out = append(out, t)
		}
	}
	return out
}

func find(list []Stat, key string) (Stat, bool) {
	for _, s := range list {
		if s.Key == key {
			return s, true
		}
	}
	return Stat{}, false
}

func clone[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}
