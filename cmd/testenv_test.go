package main

import (
	"testing"

	"github.com/DRockoda/NCAA-Mens-basketball-Div-1-data/internal/config"
	"github.com/DRockoda/NCAA-Mens-basketball-Div-1-data/internal/model"
	"github.com/DRockoda/NCAA-Mens-basketball-Div-1-data/internal/schema"
)

// useTestConfig installs the default explore and server settings for the
// duration of a test.
func useTestConfig(t *testing.T) {
	t.Helper()
	prev := cfg
	cfg = &config.Config{
		Explore: config.ExploreConfig{PageSize: 50, LeaderboardSize: 10, CompareLimit: 5},
		Server:  config.ServerConfig{Port: 8080, AllowedOrigins: []string{"*"}, RequestTimeoutSecs: 30},
	}
	t.Cleanup(func() { cfg = prev })
}

func player(name, team, pos string, season, pts, ast, reb, min float64) model.Record {
	return model.Record{
		"Name": name, "Team": team, "Position": pos, "Season": season,
		"PTS": pts, "AST": ast, "REB": reb, "MIN": min,
	}
}

func team(name, conf string, season, winPct, pts float64) model.Record {
	return model.Record{
		"Team_Name": name, "Conference": conf, "Season": season,
		"Team_Win%": winPct, "Team_PTS": pts,
	}
}

// testEnv builds a small in-memory snapshot: three players over four rows,
// three team seasons and one transfer.
func testEnv(t *testing.T) *exploreEnv {
	t.Helper()
	useTestConfig(t)

	ds := model.EmptyDatasets()
	ds.Source = "fixture.xlsx"
	ds.Players = model.RecordSet{
		Kind:   model.KindPlayers,
		Fields: []string{"Name", "Team", "Position", "Season", "PTS", "AST", "REB", "MIN"},
		Records: []model.Record{
			player("Cooper Flagg", "Duke", "F", 2024, 19.2, 4.2, 7.5, 30.7),
			player("Johni Broome", "Morehead State", "F", 2022, 14.0, 1.0, 10.1, 29.0),
			player("Johni Broome", "Auburn", "F", 2023, 16.5, 2.3, 8.4, 30.0),
			player("Kon Knueppel", "Duke", "G", 2024, 14.4, 2.7, 4.0, 30.4),
		},
	}
	ds.Teams = model.RecordSet{
		Kind:   model.KindTeams,
		Fields: []string{"Team_Name", "Conference", "Season", "Team_Win%", "Team_PTS"},
		Records: []model.Record{
			team("Duke", "ACC", 2024, 0.897, 83.5),
			team("Auburn", "SEC", 2024, 0.842, 83.3),
			team("Auburn", "SEC", 2023, 0.794, 81.8),
		},
	}
	ds.Transfers = model.RecordSet{
		Kind:   model.KindTransfers,
		Fields: []string{"Season", "Name", "Team", "New_Team"},
		Records: []model.Record{
			{"Season": 2023.0, "Name": "Johni Broome", "Team": "Morehead State", "New_Team": "Auburn"},
		},
	}

	return &exploreEnv{Data: ds, Columns: resolveColumns(ds, schema.DefaultCatalog())}
}
