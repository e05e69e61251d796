package stats

import (
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/DRockoda/NCAA-Mens-basketball-Div-1-data/internal/entity"
	"github.com/DRockoda/NCAA-Mens-basketball-Div-1-data/internal/model"
)

// MaxSelection is the most entities one comparison holds.
const MaxSelection = 5

// MaxSuggestions caps the suggestion list.
const MaxSuggestions = 8

var (
	ErrAlreadyAdded  = eris.New("stats: entity already added")
	ErrSelectionFull = eris.Errorf("stats: at most %d entities can be compared", MaxSelection)
)

// Entity is one selected player or team.
type Entity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Suggestion is a selectable entity with a short description.
type Suggestion struct {
	Entity
	Subtitle string `json:"subtitle"`
}

// Selection is an ordered set of up to MaxSelection entities.
type Selection struct {
	Kind     model.Kind `json:"kind"`
	Entities []Entity   `json:"entities"`
}

// Add returns a copy of s with e appended.
func (s Selection) Add(e Entity) (Selection, error) {
	for _, have := range s.Entities {
		if have.ID == e.ID {
			return s, eris.Wrapf(ErrAlreadyAdded, "stats: %s", e.Name)
		}
	}
	if len(s.Entities) >= MaxSelection {
		return s, ErrSelectionFull
	}
	out := Selection{Kind: s.Kind, Entities: make([]Entity, 0, len(s.Entities)+1)}
	out.Entities = append(out.Entities, s.Entities...)
	out.Entities = append(out.Entities, e)
	return out, nil
}

// Remove returns a copy of s without the entity with id.
func (s Selection) Remove(id string) Selection {
	out := Selection{Kind: s.Kind, Entities: make([]Entity, 0, len(s.Entities))}
	for _, e := range s.Entities {
		if e.ID != id {
			out.Entities = append(out.Entities, e)
		}
	}
	return out
}

// Candidates returns every distinct entity in records, sorted by name.
func Candidates(kind model.Kind, records []model.Record) []Suggestion {
	r := resolverFor(kind)
	seen := make(map[string]bool)
	out := make([]Suggestion, 0)
	for _, rec := range records {
		name := r.Name(rec)
		if name == "" || name == r.Unknown {
			continue
		}
		id := r.Slug(rec)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, Suggestion{
			Entity:   Entity{ID: id, Name: name},
			Subtitle: subtitle(kind, rec),
		})
	}

	col := collate.New(language.English, collate.IgnoreCase)
	sort.SliceStable(out, func(i, j int) bool {
		return col.CompareString(out[i].Name, out[j].Name) < 0
	})
	return out
}

// Suggestions returns up to MaxSuggestions candidates whose name or
// subtitle contains term, case-insensitively. An empty term matches all.
func Suggestions(kind model.Kind, records []model.Record, term string) []Suggestion {
	term = strings.ToLower(strings.TrimSpace(term))
	out := make([]Suggestion, 0, MaxSuggestions)
	for _, s := range Candidates(kind, records) {
		if len(out) == MaxSuggestions {
			break
		}
		if term == "" ||
			strings.Contains(strings.ToLower(s.Name), term) ||
			strings.Contains(strings.ToLower(s.Subtitle), term) {
			out = append(out, s)
		}
	}
	return out
}

// Select builds a selection from slugs or display names. Unknown entities
// and selections over MaxSelection are errors.
func Select(kind model.Kind, records []model.Record, refs []string) (Selection, error) {
	sel := Selection{Kind: kind, Entities: []Entity{}}
	candidates := Candidates(kind, records)
	for _, ref := range refs {
		ref = strings.TrimSpace(ref)
		if ref == "" {
			continue
		}
		e, ok := lookupEntity(candidates, ref)
		if !ok {
			return sel, eris.Errorf("stats: no %s matches %q", kind, ref)
		}
		var err error
		if sel, err = sel.Add(e); err != nil {
			return sel, err
		}
	}
	return sel, nil
}

func lookupEntity(candidates []Suggestion, ref string) (Entity, bool) {
	slug := entity.Slugify(ref)
	for _, c := range candidates {
		if c.ID == ref || c.ID == slug {
			return c.Entity, true
		}
	}
	for _, c := range candidates {
		if entity.SameName(c.Name, ref) {
			return c.Entity, true
		}
	}
	return Entity{}, false
}

func subtitle(kind model.Kind, rec model.Record) string {
	season := orDefault(rec.Text("Season"), "N/A")
	if kind == model.KindTeams {
		return orDefault(rec.Text("Conference"), NoValue) + " · " + season
	}
	return orDefault(rec.First("Team", "Current_Team"), NoValue) + " · " + season
}

// AvailableSeasons returns the distinct non-empty Season values, oldest
// first.
func AvailableSeasons(records []model.Record) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, rec := range records {
		s := rec.String("Season")
		if strings.TrimSpace(s) == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return model.SeasonNumber(out[i]) < model.SeasonNumber(out[j])
	})
	return out
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
