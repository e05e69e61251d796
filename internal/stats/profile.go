package stats

import (
	"math"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/DRockoda/NCAA-Mens-basketball-Div-1-data/internal/entity"
	"github.com/DRockoda/NCAA-Mens-basketball-Div-1-data/internal/model"
)

// BestSeason is a career-best card: the top value of one stat and the season
// it came from.
type BestSeason struct {
	Title  string `json:"title"`
	Key    string `json:"key"`
	Value  string `json:"value"`
	Season string `json:"season"`
}

type bestCard struct {
	title string
	stat  Stat
}

var playerCards = []bestCard{
	{"Most Points per Game", rate("PTS", "Points")},
	{"Most Total Points", Stat{Key: "TOTAL_POINTS", Label: "Total Points", derive: TotalPoints}},
	{"Most Assists per Game", rate("AST", "Assists")},
	{"Most Rebounds per Game", rate("REB", "Rebounds")},
	{"Best Field Goal %", percent("FG%", "Field Goal %")},
}

var teamCards = []bestCard{
	{"Most Points per Game", rate("Team_PTS", "Points per Game")},
	{"Highest Win %", percent("Team_Win%", "Win %")},
	{"Most Rebounds per Game", rate("Team_Reb", "Rebounds per Game")},
	{"Best Offensive Efficiency", rate("Team_Adj_Off_Eff", "Offensive Efficiency")},
	{"Best BARTHAG", fixed("Team_BARTHAG", "BARTHAG", 3)},
}

// seasonActivity are the stats of which at least one must be positive for a
// player row to count as a played season.
var seasonActivity = []string{"GP", "PTS", "AST", "REB", "MIN"}

// ValidSeasons keeps player rows with a season label and some playing time,
// oldest season first.
func ValidSeasons(rows []model.Record) []model.Record {
	out := make([]model.Record, 0, len(rows))
	for _, row := range rows {
		if row.Text("Season") == "" {
			continue
		}
		for _, k := range seasonActivity {
			if row.OrZero(k) > 0 {
				out = append(out, row)
				break
			}
		}
	}
	bySeason(out)
	return out
}

// PlayerProfile is everything known about one player.
type PlayerProfile struct {
	Slug      string          `json:"slug"`
	Name      string          `json:"name"`
	Team      string          `json:"team"`
	Position  string          `json:"position,omitempty"`
	Height    string          `json:"height,omitempty"`
	Class     string          `json:"class,omitempty"`
	Hometown  string          `json:"hometown,omitempty"`
	Latest    model.Record    `json:"latest"`
	Seasons   []model.Record  `json:"seasons"`
	Best      []BestSeason    `json:"best"`
	Stat      Stat            `json:"stat"`
	Series    []SeriesPoint   `json:"series"`
	Transfers []TransferEvent `json:"transfers"`
	Impacts   []Impact        `json:"impacts"`
	Summary   *ImpactSummary  `json:"summary,omitempty"`
}

// BuildPlayerProfile assembles the profile for slug. ok is false when no
// player row matches. stat picks the charted series; zero means points.
func BuildPlayerProfile(ds *model.Datasets, slug string, stat Stat) (PlayerProfile, bool) {
	if ds == nil {
		return PlayerProfile{}, false
	}
	rows := entity.Player.Filter(ds.Players.Records, slug)
	if len(rows) == 0 {
		return PlayerProfile{}, false
	}
	if stat.Key == "" {
		stat = DefaultStat(model.KindPlayers)
	}

	seasons := ValidSeasons(rows)
	latest := rows[len(rows)-1]
	if len(seasons) > 0 {
		latest = seasons[len(seasons)-1]
	}

	p := PlayerProfile{
		Slug:      slug,
		Name:      entity.Player.Name(latest),
		Team:      entity.PlayerTeam(latest),
		Position:  latest.Text("Position"),
		Height:    latest.Text("Height"),
		Class:     latest.Text("Class"),
		Hometown:  latest.First("Hometown", "City"),
		Latest:    latest,
		Seasons:   seasons,
		Best:      bestSeasons(seasons, playerCards),
		Stat:      stat,
		Series:    Series(seasons, stat),
		Transfers: TransferEvents(ds.Transfers.Records, slug),
	}
	p.Impacts = TransferImpact(rows, p.Transfers)
	if n := len(p.Impacts); n > 0 {
		s := Summarize(p.Impacts[n-1])
		p.Summary = &s
	}
	return p, true
}

// TeamProfile is everything known about one team.
type TeamProfile struct {
	Slug       string         `json:"slug"`
	Name       string         `json:"name"`
	Conference string         `json:"conference,omitempty"`
	Latest     model.Record   `json:"latest"`
	Seasons    []model.Record `json:"seasons"`
	SeasonList []string       `json:"season_list"`
	Best       []BestSeason   `json:"best"`
	Stat       Stat           `json:"stat"`
	Series     []SeriesPoint  `json:"series"`
	Season     string         `json:"season"`
	Roster     []model.Record `json:"roster"`
}

// BuildTeamProfile assembles the profile for slug. The roster is filled only
// for a specific season. stat picks the charted series; zero means win %.
func BuildTeamProfile(ds *model.Datasets, slug string, stat Stat, season string) (TeamProfile, bool) {
	if ds == nil {
		return TeamProfile{}, false
	}
	rows := entity.Team.Filter(ds.Teams.Records, slug)
	if len(rows) == 0 {
		return TeamProfile{}, false
	}
	if stat.Key == "" {
		stat = DefaultStat(model.KindTeams)
	}
	if season == "" {
		season = AllSeasons
	}

	asc := append([]model.Record(nil), rows...)
	bySeason(asc)
	latest := asc[len(asc)-1]

	p := TeamProfile{
		Slug:       slug,
		Name:       entity.Team.Name(latest),
		Conference: latest.Text("Conference"),
		Latest:     latest,
		Seasons:    asc,
		SeasonList: seasonsDescending(asc),
		Best:       bestSeasons(asc, teamCards),
		Stat:       stat,
		Series:     Series(asc, stat),
		Season:     season,
		Roster:     []model.Record{},
	}
	if season != AllSeasons {
		p.Roster = Roster(ds.Players.Records, p.Name, season)
	}
	return p, true
}

// Roster returns the players listed at team in season, sorted by name.
func Roster(players []model.Record, team, season string) []model.Record {
	out := make([]model.Record, 0)
	for _, row := range players {
		if entity.SameName(entity.PlayerTeam(row), team) && row.String("Season") == season {
			out = append(out, row)
		}
	}
	col := collate.New(language.English, collate.IgnoreCase)
	sort.SliceStable(out, func(i, j int) bool {
		return col.CompareString(out[i].String("Name"), out[j].String("Name")) < 0
	})
	return out
}

// bestSeasons scans rows in order, so a later season wins a tie.
func bestSeasons(rows []model.Record, cards []bestCard) []BestSeason {
	out := make([]BestSeason, len(cards))
	for i, c := range cards {
		var best model.Record
		bestValue := math.Inf(-1)
		for _, row := range rows {
			if v := c.stat.Value(row); finite(v) && v >= bestValue {
				best, bestValue = row, v
			}
		}
		card := BestSeason{Title: c.title, Key: c.stat.Key, Value: NoValue, Season: NoValue}
		if best != nil {
			card.Value = c.stat.Format(bestValue)
			card.Season = orDefault(best.Text("Season"), NoValue)
		}
		out[i] = card
	}
	return out
}

func bySeason(rows []model.Record) {
	sort.SliceStable(rows, func(i, j int) bool {
		return model.SeasonNumber(rows[i].String("Season")) < model.SeasonNumber(rows[j].String("Season"))
	})
}

func seasonsDescending(rows []model.Record) []string {
	seen := make(map[string]bool)
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		s := orDefault(row.String("Season"), "Unknown")
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return model.SeasonNumber(out[i]) > model.SeasonNumber(out[j]) })
	return out
}
