package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DRockoda/NCAA-Mens-basketball-Div-1-data/internal/model"
)

func profileDatasets() *model.Datasets {
	ds := model.EmptyDatasets()
	ds.Players.Records = append(moverRows(),
		model.Record{"Name": "Sam Mover", "Team": "Iowa", "Season": "2025", "GP": 0.0, "PTS": 0.0},
		model.Record{"Name": "Zed Teammate", "Team": "IOWA", "Season": "2024", "GP": 20.0},
		model.Record{"Name": "Abe Teammate", "Team": "Iowa", "Season": "2024", "GP": 12.0},
		model.Record{"Name": "Old Teammate", "Team": "Iowa", "Season": "2023", "GP": 12.0},
	)
	ds.Transfers.Records = []model.Record{
		{"Name": "Sam Mover", "Season": "2023", "Team": "Drake", "New_Team": "Iowa"},
	}
	ds.Teams.Records = []model.Record{
		{"Team_Name": "Iowa", "Conference": "Big Ten", "Season": "2024", "Team_PTS": 80.0, "Team_Win%": 60.0, "Team_BARTHAG": 0.85},
		{"Team_Name": "Iowa", "Conference": "Big Ten", "Season": "2023", "Team_PTS": 80.0, "Team_Win%": 55.5, "Team_BARTHAG": 0.8},
		{"Team_Name": "Drake", "Conference": "MVC", "Season": "2023", "Team_PTS": 75.0},
	}
	return ds
}

func TestValidSeasons(t *testing.T) {
	got := ValidSeasons(profileDatasets().Players.Records[:6])
	require.Len(t, got, 4)
	assert.Equal(t, "2021", got[0].String("Season"))
	assert.Equal(t, "2024", got[3].String("Season"))
}

func TestBuildPlayerProfile(t *testing.T) {
	p, ok := BuildPlayerProfile(profileDatasets(), "sam-mover", Stat{})
	require.True(t, ok)

	assert.Equal(t, "Sam Mover", p.Name)
	assert.Equal(t, "Iowa", p.Team)
	assert.Equal(t, "2024", p.Latest.String("Season"))
	assert.Len(t, p.Seasons, 4)
	assert.Equal(t, "PTS", p.Stat.Key)
	require.Len(t, p.Series, 4)
	assert.Equal(t, 17.0, p.Series[2].Value)

	require.Len(t, p.Best, 5)
	assert.Equal(t, BestSeason{Title: "Most Points per Game", Key: "PTS", Value: "17.0", Season: "2023"}, p.Best[0])
	assert.Equal(t, "561", p.Best[1].Value)
	assert.Equal(t, "2024", p.Best[2].Season)
	assert.Equal(t, "50.0%", p.Best[4].Value)

	require.Len(t, p.Transfers, 1)
	require.Len(t, p.Impacts, 1)
	require.NotNil(t, p.Summary)
	assert.Equal(t, MostlyPositive, p.Summary.Overall)

	_, ok = BuildPlayerProfile(profileDatasets(), "nobody", Stat{})
	assert.False(t, ok)
	_, ok = BuildPlayerProfile(nil, "sam-mover", Stat{})
	assert.False(t, ok)
}

func TestBuildPlayerProfile_NoValidSeasons(t *testing.T) {
	ds := model.EmptyDatasets()
	ds.Players.Records = []model.Record{{"Name": "Bench Guy", "Season": "2024", "GP": 0.0}}

	p, ok := BuildPlayerProfile(ds, "bench-guy", Stat{})
	require.True(t, ok)
	assert.Empty(t, p.Seasons)
	assert.Equal(t, "Bench Guy", p.Name)
	for _, b := range p.Best {
		assert.Equal(t, NoValue, b.Value)
		assert.Equal(t, NoValue, b.Season)
	}
	assert.Nil(t, p.Summary)
}

func TestBuildTeamProfile(t *testing.T) {
	stat, ok := LookupStat(model.KindTeams, "Team_PTS")
	require.True(t, ok)

	p, ok := BuildTeamProfile(profileDatasets(), "iowa", stat, "2024")
	require.True(t, ok)
	assert.Equal(t, "Iowa", p.Name)
	assert.Equal(t, "Big Ten", p.Conference)
	assert.Equal(t, []string{"2024", "2023"}, p.SeasonList)
	assert.Equal(t, "2023", p.Seasons[0].String("Season"))

	require.Len(t, p.Series, 2)
	assert.Equal(t, 80.0, p.Series[1].Value)

	// Both seasons scored 80; ties go to the later season.
	assert.Equal(t, "80.0", p.Best[0].Value)
	assert.Equal(t, "2024", p.Best[0].Season)
	assert.Equal(t, "60.0%", p.Best[1].Value)
	assert.Equal(t, NoValue, p.Best[2].Value)
	assert.Equal(t, "0.850", p.Best[4].Value)

	names := make([]string, len(p.Roster))
	for i, r := range p.Roster {
		names[i] = r.String("Name")
	}
	assert.Equal(t, []string{"Abe Teammate", "Sam Mover", "Zed Teammate"}, names)

	all, ok := BuildTeamProfile(profileDatasets(), "iowa", Stat{}, "")
	require.True(t, ok)
	assert.Equal(t, AllSeasons, all.Season)
	assert.Empty(t, all.Roster)
	assert.Equal(t, "Team_Win%", all.Stat.Key)

	_, ok = BuildTeamProfile(profileDatasets(), "kentucky", Stat{}, "")
	assert.False(t, ok)
}
