package stats

import (
	"fmt"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DRockoda/NCAA-Mens-basketball-Div-1-data/internal/model"
)

func TestSelection_Add(t *testing.T) {
	var sel Selection
	var err error
	for i := 0; i < MaxSelection; i++ {
		sel, err = sel.Add(Entity{ID: fmt.Sprintf("p%d", i), Name: fmt.Sprintf("Player %d", i)})
		require.NoError(t, err)
	}
	assert.Len(t, sel.Entities, MaxSelection)

	_, err = sel.Add(Entity{ID: "p0", Name: "Player 0"})
	assert.True(t, eris.Is(err, ErrAlreadyAdded))

	_, err = sel.Add(Entity{ID: "extra", Name: "Extra"})
	assert.True(t, eris.Is(err, ErrSelectionFull))

	smaller := sel.Remove("p2")
	assert.Len(t, smaller.Entities, MaxSelection-1)
	assert.Len(t, sel.Entities, MaxSelection)
}

func TestSelect_Errors(t *testing.T) {
	_, err := Select(model.KindPlayers, compareRows(), []string{"nobody"})
	assert.Error(t, err)

	_, err = Select(model.KindPlayers, compareRows(), []string{"ada-guard", "Ada Guard"})
	assert.True(t, eris.Is(err, ErrAlreadyAdded))

	sel, err := Select(model.KindPlayers, compareRows(), []string{"", " "})
	require.NoError(t, err)
	assert.Empty(t, sel.Entities)
}

func TestSuggestions(t *testing.T) {
	rows := compareRows()
	rows = append(rows, model.Record{"Name": "", "Team": "Nowhere"})

	all := Suggestions(model.KindPlayers, rows, "")
	require.Len(t, all, 3)
	assert.Equal(t, "Ada Guard", all[0].Name)
	assert.Equal(t, "ada-guard", all[0].ID)
	assert.Equal(t, "Duke · 2022-23", all[0].Subtitle)

	// Subtitles are searched too.
	unc := Suggestions(model.KindPlayers, rows, "unc")
	require.Len(t, unc, 1)
	assert.Equal(t, "Ben Forward", unc[0].Name)

	assert.Empty(t, Suggestions(model.KindPlayers, rows, "zzz"))
}

func TestSuggestions_Capped(t *testing.T) {
	var rows []model.Record
	for i := 0; i < 20; i++ {
		rows = append(rows, model.Record{"Team_Name": fmt.Sprintf("Team %02d", i), "Season": "2024"})
	}
	got := Suggestions(model.KindTeams, rows, "team")
	require.Len(t, got, MaxSuggestions)
	assert.Equal(t, "Team 00", got[0].Name)
	assert.Equal(t, "— · 2024", got[0].Subtitle)
}

func TestAvailableSeasons(t *testing.T) {
	rows := []model.Record{
		{"Season": "2023-24"}, {"Season": "2021-22"}, {"Season": ""}, {"Season": "2023-24"}, {"Season": 2022.0},
	}
	assert.Equal(t, []string{"2021-22", "2022", "2023-24"}, AvailableSeasons(rows))
	assert.Empty(t, AvailableSeasons(nil))
}

func TestCatalog(t *testing.T) {
	assert.Len(t, StatOptions(model.KindPlayers), 28)
	assert.Len(t, StatOptions(model.KindTeams), 21)
	assert.Empty(t, StatOptions(model.KindTransfers))
	assert.Len(t, Highlights(model.KindTeams), 4)

	gp, ok := LookupStat(model.KindTeams, "team_gp")
	require.True(t, ok)
	assert.Equal(t, "Team_GP", gp.Key)

	_, ok = LookupStat(model.KindPlayers, "Team_Win%")
	assert.False(t, ok)

	// Catalog slices are copies.
	opts := StatOptions(model.KindPlayers)
	opts[0].Label = "changed"
	assert.Equal(t, "Points per Game", StatOptions(model.KindPlayers)[0].Label)

	assert.Equal(t, 360.0, TotalPoints(model.Record{"PTS": 12.0, "GP": 30.0}))
	assert.Equal(t, 12.0, TotalPoints(model.Record{"PTS": 12.0}))
}
