package entity

import (
	"strings"

	"github.com/DRockoda/NCAA-Mens-basketball-Div-1-data/internal/model"
)

// Resolver binds the candidate field lists for one entity type.
type Resolver struct {
	NameKeys []string
	IDKeys   []string
	Keywords []string // fallback key substrings, tried in order
	Unknown  string   // display name when nothing resolves
}

// Player resolves player names from player and transfer rows.
var Player = Resolver{
	NameKeys: []string{"Name", "Player", "Player_Name", "PlayerName"},
	IDKeys:   []string{"Player_ID", "PlayerID", "PlayerId", "ID", "Id", "player_id", "id"},
	Keywords: []string{"name"},
}

// Team resolves team names. Teams carry no secondary id.
var Team = Resolver{
	NameKeys: []string{"Team_Name", "Team", "School", "TeamName", "team"},
	Keywords: []string{"team"},
	Unknown:  "Unknown Team",
}

// Name returns the entity's display name, or the resolver's Unknown value.
func (r Resolver) Name(rec model.Record) string {
	if n := nameOf(rec, r.NameKeys, r.Keywords); n != "" {
		return n
	}
	return r.Unknown
}

// ID returns the secondary identifier, or "".
func (r Resolver) ID(rec model.Record) string {
	return rec.First(r.IDKeys...)
}

// Slug returns the entity slug for rec.
func (r Resolver) Slug(rec model.Record) string {
	name := r.Name(rec)
	if name == "" {
		return ""
	}
	return joinSlug(name, r.ID(rec))
}

// Matches reports whether rec resolves to slug.
func (r Resolver) Matches(rec model.Record, slug string) bool {
	return slug != "" && r.Slug(rec) == slug
}

// Filter returns the records resolving to slug, in input order.
func (r Resolver) Filter(records []model.Record, slug string) []model.Record {
	out := make([]model.Record, 0)
	for _, rec := range records {
		if r.Matches(rec, slug) {
			out = append(out, rec)
		}
	}
	return out
}

// SameName compares two names trimmed and case-insensitively.
func SameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// PlayerTeam returns the team a player row belongs to.
func PlayerTeam(rec model.Record) string {
	return rec.First("Team", "Team_Name", "School")
}
