package main

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/DRockoda/NCAA-Mens-basketball-Div-1-data/internal/entity"
	"github.com/DRockoda/NCAA-Mens-basketball-Div-1-data/internal/filter"
	"github.com/DRockoda/NCAA-Mens-basketball-Div-1-data/internal/model"
	"github.com/DRockoda/NCAA-Mens-basketball-Div-1-data/internal/stats"
)

// errNotFound marks lookups of players or teams absent from the snapshot.
var errNotFound = eris.New("not found")

// tableQuery is one filtered, searched, paginated view of a record set.
type tableQuery struct {
	Filters  filter.Set `json:"filters"`
	Search   []string   `json:"search"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
	// Columns selects the visible column ids; empty means the defaults.
	Columns []string `json:"columns"`
}

type tableResult struct {
	Kind    model.Kind     `json:"kind"`
	Columns []model.Column `json:"columns"`
	filter.Page
}

func runQuery(env *exploreEnv, kind model.Kind, q tableQuery) (tableResult, error) {
	cols := env.Columns[kind]
	for _, id := range q.Filters.Columns() {
		if _, ok := model.FindColumn(cols, id); !ok {
			return tableResult{}, eris.Errorf("query: unknown filter column %q", id)
		}
	}
	if err := q.Filters.Validate(); err != nil {
		return tableResult{}, eris.Wrap(err, "query: invalid filters")
	}

	visible, err := visibleColumns(cols, q.Columns)
	if err != nil {
		return tableResult{}, err
	}

	size := q.PageSize
	if size <= 0 {
		size = cfg.Explore.PageSize
	}
	rows := filter.Apply(env.Data.Of(kind).Records, q.Filters, q.Search, cols)
	page := filter.Paginate(rows, q.Page, size)

	ids := make([]string, len(visible))
	for i, c := range visible {
		ids[i] = c.ID
	}
	page.Records = filter.Project(page.Records, ids)

	return tableResult{Kind: kind, Columns: visible, Page: page}, nil
}

// visibleColumns returns the requested columns in request order, the
// default-visible ones when none are requested, or every column when no
// default is marked.
func visibleColumns(cols []model.Column, ids []string) ([]model.Column, error) {
	if len(ids) == 0 {
		var out []model.Column
		for _, c := range cols {
			if c.DefaultVisible {
				out = append(out, c)
			}
		}
		if len(out) == 0 {
			out = cols
		}
		return out, nil
	}
	out := make([]model.Column, 0, len(ids))
	for _, id := range ids {
		c, ok := model.FindColumn(cols, id)
		if !ok {
			return nil, eris.Errorf("query: unknown column %q", id)
		}
		out = append(out, c)
	}
	return out, nil
}

func columnValues(env *exploreEnv, kind model.Kind, id string) ([]string, error) {
	col, ok := model.FindColumn(env.Columns[kind], id)
	if !ok {
		return nil, eris.Errorf("query: unknown column %q", id)
	}
	if len(col.Options) > 0 {
		return col.Options, nil
	}
	return filter.Values(env.Data.Of(kind).Records, col), nil
}

// statKind rejects the transfers set, which has no stat catalog.
func statKind(s string) (model.Kind, error) {
	kind, err := model.ParseKind(s)
	if err != nil {
		return "", err
	}
	if kind == model.KindTransfers {
		return "", eris.New("stats: transfers have no stats; use players or teams")
	}
	return kind, nil
}

// lookupStat resolves key for kind. An empty key yields the zero Stat, which
// the stats package replaces with the kind's default.
func lookupStat(kind model.Kind, key string) (stats.Stat, error) {
	if strings.TrimSpace(key) == "" {
		return stats.Stat{}, nil
	}
	stat, ok := stats.LookupStat(kind, key)
	if !ok {
		return stats.Stat{}, eris.Errorf("stats: unknown %s stat %q", kind, key)
	}
	return stat, nil
}

type leadersQuery struct {
	Kind   model.Kind
	Stat   string
	Season string
	Top    int
}

// runLeaders returns the dashboard boards, or a single board when a stat is
// named.
func runLeaders(env *exploreEnv, q leadersQuery) ([]stats.Board, error) {
	top := q.Top
	if top <= 0 {
		top = cfg.Explore.LeaderboardSize
	}
	if strings.TrimSpace(q.Stat) == "" {
		return stats.Dashboard(env.Data, q.Season, top), nil
	}

	kind := q.Kind
	if kind == "" {
		kind = model.KindPlayers
	}
	stat, err := lookupStat(kind, q.Stat)
	if err != nil {
		return nil, err
	}
	season := strings.TrimSpace(q.Season)
	if season == "" {
		season = stats.AllSeasons
	}
	records := stats.InSeason(env.Data.Of(kind).Records, season)
	return []stats.Board{{
		Title:   stat.Label,
		Kind:    kind,
		Stat:    stat,
		Season:  season,
		Entries: stats.Leaderboard(records, kind, stat, top),
	}}, nil
}

type compareQuery struct {
	Refs   []string `json:"refs"`
	Stat   string   `json:"stat"`
	Season string   `json:"season"`
}

func compareLimit() int {
	if cfg.Explore.CompareLimit > 0 {
		return min(cfg.Explore.CompareLimit, stats.MaxSelection)
	}
	return stats.MaxSelection
}

func runCompare(env *exploreEnv, kind model.Kind, q compareQuery) (stats.Comparison, error) {
	refs := make([]string, 0, len(q.Refs))
	for _, ref := range q.Refs {
		if ref = strings.TrimSpace(ref); ref != "" {
			refs = append(refs, ref)
		}
	}
	if limit := compareLimit(); len(refs) > limit {
		return stats.Comparison{}, eris.Errorf("compare: at most %d %s can be compared", limit, kind)
	}

	stat, err := lookupStat(kind, q.Stat)
	if err != nil {
		return stats.Comparison{}, err
	}
	records := env.Data.Of(kind).Records
	sel, err := stats.Select(kind, records, refs)
	if err != nil {
		return stats.Comparison{}, err
	}
	return stats.Compare(sel, records, stat, strings.TrimSpace(q.Season)), nil
}

func runPlayerProfile(env *exploreEnv, slug, statKey string) (stats.PlayerProfile, error) {
	stat, err := lookupStat(model.KindPlayers, statKey)
	if err != nil {
		return stats.PlayerProfile{}, err
	}
	p, ok := stats.BuildPlayerProfile(env.Data, entity.Slugify(slug), stat)
	if !ok {
		return p, eris.Wrapf(errNotFound, "profile: player %q", slug)
	}
	return p, nil
}

func runTeamProfile(env *exploreEnv, slug, statKey, season string) (stats.TeamProfile, error) {
	stat, err := lookupStat(model.KindTeams, statKey)
	if err != nil {
		return stats.TeamProfile{}, err
	}
	p, ok := stats.BuildTeamProfile(env.Data, entity.Slugify(slug), stat, strings.TrimSpace(season))
	if !ok {
		return p, eris.Wrapf(errNotFound, "profile: team %q", slug)
	}
	return p, nil
}

// impactReport lists a player's transfers with the before/after comparison
// of each one that has data on both sides.
type impactReport struct {
	Slug      string                `json:"slug"`
	Name      string                `json:"name"`
	Transfers []stats.TransferEvent `json:"transfers"`
	Impacts   []stats.Impact        `json:"impacts"`
	Summaries []stats.ImpactSummary `json:"summaries"`
}

func runImpact(env *exploreEnv, slug string) (impactReport, error) {
	slug = entity.Slugify(slug)
	rows := entity.Player.Filter(env.Data.Players.Records, slug)
	events := stats.TransferEvents(env.Data.Transfers.Records, slug)
	if len(rows) == 0 && len(events) == 0 {
		return impactReport{}, eris.Wrapf(errNotFound, "impact: player %q", slug)
	}

	rep := impactReport{Slug: slug, Transfers: events, Summaries: []stats.ImpactSummary{}}
	if len(rows) > 0 {
		rep.Name = entity.Player.Name(rows[len(rows)-1])
	} else {
		rep.Name = entity.Player.Name(entity.Player.Filter(env.Data.Transfers.Records, slug)[0])
	}
	rep.Impacts = stats.TransferImpact(rows, events)
	for _, imp := range rep.Impacts {
		rep.Summaries = append(rep.Summaries, stats.Summarize(imp))
	}
	return rep, nil
}
