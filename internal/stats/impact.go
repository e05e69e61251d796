package stats

import (
	"math"
	"sort"
	"strings"

	"github.com/DRockoda/NCAA-Mens-basketball-Div-1-data/internal/entity"
	"github.com/DRockoda/NCAA-Mens-basketball-Div-1-data/internal/model"
)

// TransferEvent is one move between programs.
type TransferEvent struct {
	Season string `json:"season"`
	From   string `json:"from"`
	To     string `json:"to"`
}

// TransferEvents returns the transfers of the player with slug, ordered by
// season year.
func TransferEvents(transfers []model.Record, slug string) []TransferEvent {
	rows := entity.Player.Filter(transfers, slug)
	out := make([]TransferEvent, 0, len(rows))
	for _, row := range rows {
		out = append(out, TransferEvent{
			Season: orDefault(row.Text("Season"), "N/A"),
			From:   orDefault(row.First("Team", "From_Team"), "Previous Team"),
			To:     orDefault(row.First("New_Team", "To_Team"), "Next Team"),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return model.SeasonNumber(out[i].Season) < model.SeasonNumber(out[j].Season)
	})
	return out
}

// impactStats are compared before and after each transfer.
var impactStats = []Stat{
	rate("MIN", "Minutes per Game"),
	rate("PTS", "Points per Game"),
	rate("AST", "Assists per Game"),
	rate("REB", "Rebounds per Game"),
	percent("FG%", "Field Goal %"),
	percent("3P%", "3-Point %"),
	percent("FT%", "Free Throw %"),
	percent("TS%", "True Shooting %"),
	fixed("BPR", "Total BPR", 2),
	fixed("OBPR", "Offensive BPR", 2),
	fixed("DBPR", "Defensive BPR", 2),
}

// StatChange is one stat's movement across a transfer.
type StatChange struct {
	Key           string   `json:"key"`
	Label         string   `json:"label"`
	Before        float64  `json:"before"`
	After         float64  `json:"after"`
	Delta         float64  `json:"delta"`
	PercentChange *float64 `json:"percent_change"`
}

// Impact compares a player's last season before a transfer with the first
// season after it.
type Impact struct {
	TransferEvent
	Before model.Record `json:"before"`
	After  model.Record `json:"after"`
	Stats  []StatChange `json:"stats"`
}

// TransferImpact computes one Impact per event that has both a "before" row
// (latest at From in or before the transfer season) and an "after" row
// (earliest at To in or after it). Missing cells count as zero, and stats
// that are zero on both sides are dropped.
func TransferImpact(playerRows []model.Record, events []TransferEvent) []Impact {
	rows := ValidSeasons(playerRows)
	out := make([]Impact, 0, len(events))
	for _, ev := range events {
		season := model.SeasonNumber(ev.Season)
		var before, after model.Record
		beforeYear, afterYear := math.MinInt, math.MaxInt

		for _, row := range rows {
			team := entity.PlayerTeam(row)
			year := model.SeasonNumber(row.String("Season"))
			if entity.SameName(team, ev.From) && year <= season && year > beforeYear {
				before, beforeYear = row, year
			}
			if entity.SameName(team, ev.To) && year >= season && year < afterYear {
				after, afterYear = row, year
			}
		}
		if before == nil || after == nil {
			continue
		}

		changes := make([]StatChange, 0, len(impactStats))
		for _, s := range impactStats {
			b, a := before.OrZero(s.Key), after.OrZero(s.Key)
			if b == 0 && a == 0 {
				continue
			}
			ch := StatChange{Key: s.Key, Label: s.Label, Before: b, After: a, Delta: a - b}
			if b > 0 && isEfficiency(s.Key) {
				ch.PercentChange = ptr((a - b) / b * 100)
			}
			changes = append(changes, ch)
		}
		if len(changes) == 0 {
			continue
		}
		out = append(out, Impact{
			TransferEvent: TransferEvent{Season: ev.Season, From: strings.TrimSpace(ev.From), To: strings.TrimSpace(ev.To)},
			Before:        before,
			After:         after,
			Stats:         changes,
		})
	}
	return out
}

func isEfficiency(key string) bool {
	return strings.Contains(key, "%") || strings.Contains(key, "BPR")
}

// Overall impact labels.
const (
	MostlyPositive = "Mostly Positive"
	MostlyNegative = "Mostly Negative"
	Mixed          = "Mixed"
)

// keyImpactStats decide the overall label.
var keyImpactStats = map[string]bool{
	"MIN": true, "PTS": true, "AST": true, "REB": true,
	"FG%": true, "3P%": true, "FT%": true,
}

// ImpactSummary condenses one Impact for display.
type ImpactSummary struct {
	Sentence           string      `json:"sentence,omitempty"`
	BiggestImprovement *StatChange `json:"biggest_improvement,omitempty"`
	BiggestDecline     *StatChange `json:"biggest_decline,omitempty"`
	Overall            string      `json:"overall"`
	Improved           int         `json:"improved"`
	Declined           int         `json:"declined"`
	Neutral            int         `json:"neutral"`
}

// Summarize describes imp: its largest moves, a one-line sentence and an
// overall verdict over the headline stats.
func Summarize(imp Impact) ImpactSummary {
	sum := ImpactSummary{Sentence: sentence(imp), Overall: Mixed}

	for i := range imp.Stats {
		s := imp.Stats[i]
		if s.Delta > 0 && (sum.BiggestImprovement == nil || s.Delta > sum.BiggestImprovement.Delta) {
			sum.BiggestImprovement = &s
		}
		if s.Delta < 0 && (sum.BiggestDecline == nil || s.Delta < sum.BiggestDecline.Delta) {
			sum.BiggestDecline = &s
		}
		if !keyImpactStats[s.Key] {
			continue
		}
		switch {
		case s.Delta > 0.1:
			sum.Improved++
		case s.Delta < -0.1:
			sum.Declined++
		default:
			sum.Neutral++
		}
	}

	switch {
	case sum.Improved > sum.Declined+sum.Neutral:
		sum.Overall = MostlyPositive
	case sum.Declined > sum.Improved+sum.Neutral:
		sum.Overall = MostlyNegative
	}
	return sum
}

// sentence narrates the three largest moves above 0.1, or "" when nothing
// moved.
func sentence(imp Impact) string {
	sig := make([]StatChange, 0, len(imp.Stats))
	for _, s := range imp.Stats {
		if math.Abs(s.Delta) > 0.1 {
			sig = append(sig, s)
		}
	}
	if len(sig) == 0 {
		return ""
	}
	sort.SliceStable(sig, func(i, j int) bool { return math.Abs(sig[i].Delta) > math.Abs(sig[j].Delta) })
	if len(sig) > 3 {
		sig = sig[:3]
	}

	parts := make([]string, len(sig))
	for i, s := range sig {
		phrase := s.Label + " " + movement(s)
		if i > 0 && i == len(sig)-1 {
			phrase = "and " + phrase
		}
		parts[i] = phrase
	}
	return "After transferring to " + imp.To + ", " + strings.Join(parts, ", ") + "."
}

func movement(s StatChange) string {
	if math.Abs(s.Delta) < 0.5 {
		return "stayed roughly the same"
	}
	digits := 1
	if strings.Contains(s.Key, "BPR") {
		digits = 2
	}
	if s.Delta >= 0 {
		return "increased by +" + FormatNumber(s.Delta, digits)
	}
	return "decreased by " + FormatNumber(s.Delta, digits)
}
