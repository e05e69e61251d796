// Package dataset turns a workbook source into the immutable three-set
// snapshot every query reads from.
package dataset

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DRockoda/NCAA-Mens-basketball-Div-1-data/internal/fetcher"
	"github.com/DRockoda/NCAA-Mens-basketball-Div-1-data/internal/model"
	"github.com/DRockoda/NCAA-Mens-basketball-Div-1-data/internal/store"
)

// Options configures a Loader.
type Options struct {
	Keywords Keywords
	Fetch    fetcher.Options
	// Cache stores parsed snapshots keyed by source content. Nil disables
	// caching.
	Cache    store.Store
	CacheTTL time.Duration
}

// Loader reads workbooks from local paths or remote URLs.
type Loader struct {
	opts Options
}

// NewLoader returns a Loader. A zero CacheTTL means 24 hours.
func NewLoader(opts Options) *Loader {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 24 * time.Hour
	}
	opts.Keywords = opts.Keywords.OrDefault()
	return &Loader{opts: opts}
}

// source is a read workbook plus the bytes it came from, when there were any.
type source struct {
	workbook *fetcher.Workbook
	data     []byte
}

// Workbook reads and parses source without building records.
func (l *Loader) Workbook(ctx context.Context, src string) (*fetcher.Workbook, error) {
	s, err := l.read(ctx, src, true)
	if err != nil {
		return nil, err
	}
	return s.workbook, nil
}

// Load reads src and builds the snapshot. A cached snapshot for identical
// source bytes is returned without parsing.
func (l *Loader) Load(ctx context.Context, src string) (*model.Datasets, error) {
	s, err := l.read(ctx, src, false)
	if err != nil {
		return nil, err
	}

	key := ""
	if s.data != nil && l.opts.Cache != nil {
		key = l.cacheKey(s.data)
		if ds := l.cached(ctx, key); ds != nil {
			ds.Source = redact(src)
			return ds, nil
		}
	}

	if s.workbook == nil {
		if s.workbook, err = parse(ctx, src, s.data); err != nil {
			return nil, err
		}
	}

	ds, err := Build(ctx, s.workbook, l.opts.Keywords)
	if err != nil {
		return nil, err
	}
	ds.Source = redact(src)
	ds.LoadedAt = time.Now().UTC()

	if key != "" {
		l.remember(ctx, key, src, ds)
	}
	return ds, nil
}

// LoadOrEmpty is Load that never fails: any error is logged and three empty
// record sets are returned.
func (l *Loader) LoadOrEmpty(ctx context.Context, src string) *model.Datasets {
	ds, err := l.Load(ctx, src)
	if err != nil {
		zap.L().Error("dataset: load failed, continuing with empty data",
			zap.String("source", src),
			zap.Error(err),
		)
		empty := model.EmptyDatasets()
		empty.Source = redact(src)
		empty.LoadedAt = time.Now().UTC()
		return empty
	}
	return ds
}

// read fetches src. Byte sources are parsed only when parseNow is set so a
// cache hit can skip the workbook entirely.
func (l *Loader) read(ctx context.Context, src string, parseNow bool) (source, error) {
	if strings.TrimSpace(src) == "" {
		return source{}, eris.New("dataset: empty source")
	}

	var data []byte
	if fetcher.IsRemote(src) {
		f, err := fetcher.ForURL(src, l.opts.Fetch)
		if err != nil {
			return source{}, eris.Wrap(err, "dataset: resolve source")
		}
		zap.L().Info("dataset: downloading workbook", zap.String("source", redact(src)))
		if data, err = fetcher.Fetch(ctx, f, src, l.opts.Fetch.MaxBytes); err != nil {
			return source{}, eris.Wrap(err, "dataset: download")
		}
	} else {
		info, err := os.Stat(src)
		if err != nil {
			return source{}, eris.Wrap(err, "dataset: stat source")
		}
		if info.IsDir() {
			wb, err := fetcher.ReadCSVDir(ctx, src)
			if err != nil {
				return source{}, eris.Wrap(err, "dataset: read csv directory")
			}
			return source{workbook: wb}, nil
		}
		if data, err = fetcher.ReadFile(src, l.opts.Fetch.MaxBytes); err != nil {
			return source{}, eris.Wrap(err, "dataset: read source")
		}
	}

	s := source{data: data}
	if parseNow {
		wb, err := parse(ctx, src, data)
		if err != nil {
			return source{}, err
		}
		s.workbook = wb
	}
	return s, nil
}

// parse picks the reader from the source's extension: .zip archives of CSV
// files, single .csv files, and everything else as an xlsx workbook.
func parse(ctx context.Context, src string, data []byte) (*fetcher.Workbook, error) {
	name := src
	if u, err := url.Parse(src); err == nil && fetcher.IsRemote(src) {
		name = u.Path
	}
	base := path.Base(strings.ReplaceAll(name, `\`, "/"))
	ext := strings.ToLower(path.Ext(base))

	switch ext {
	case ".zip":
		wb, err := fetcher.ParseZIP(ctx, data)
		return wb, eris.Wrap(err, "dataset: parse archive")
	case ".csv":
		sheet, err := fetcher.ReadCSV(ctx, strings.TrimSuffix(base, path.Ext(base)), bytes.NewReader(data))
		if err != nil {
			return nil, eris.Wrap(err, "dataset: parse csv")
		}
		return &fetcher.Workbook{Sheets: []fetcher.Sheet{sheet}}, nil
	}
	wb, err := fetcher.ParseXLSX(data)
	return wb, eris.Wrap(err, "dataset: parse workbook")
}

// Build assigns sheets to record sets and converts them concurrently. It
// fails only when every set comes out empty.
func Build(ctx context.Context, wb *fetcher.Workbook, kw Keywords) (*model.Datasets, error) {
	kw = kw.OrDefault()
	names := wb.Names()
	sets := make([]model.RecordSet, len(model.Kinds))

	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range model.Kinds {
		g.Go(func() error {
			set, err := buildSet(gctx, wb, kind, MatchSheets(names, kind, kw))
			if err != nil {
				return err
			}
			sets[i] = set
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ds := model.EmptyDatasets()
	ds.Teams, ds.Players, ds.Transfers = sets[0], sets[1], sets[2]
	if ds.Total() == 0 {
		zap.L().Error("dataset: no rows in any sheet", zap.Strings("sheets", names))
		return nil, eris.Errorf("dataset: no data found in workbook; available sheets: %s; expected sheets containing: Teams, Players, Transfers",
			strings.Join(names, ", "))
	}
	return ds, nil
}

func buildSet(ctx context.Context, wb *fetcher.Workbook, kind model.Kind, sheets []string) (model.RecordSet, error) {
	set := model.RecordSet{Kind: kind, Fields: []string{}, Records: []model.Record{}}
	if len(sheets) == 0 {
		zap.L().Warn("dataset: no sheets found", zap.String("kind", string(kind)), zap.Strings("available", wb.Names()))
		return set, nil
	}

	seen := make(map[string]bool)
	for _, name := range sheets {
		if err := ctx.Err(); err != nil {
			return set, eris.Wrap(err, "dataset: build cancelled")
		}
		sheet, ok := wb.Sheet(name)
		if !ok {
			continue
		}
		fields, records := Records(sheet)
		for _, f := range fields {
			if !seen[f] {
				seen[f] = true
				set.Fields = append(set.Fields, f)
			}
		}
		set.Records = append(set.Records, records...)
		zap.L().Info("dataset: loaded sheet",
			zap.String("sheet", name),
			zap.String("kind", string(kind)),
			zap.Int("rows", len(records)),
		)
	}
	zap.L().Debug("dataset: merged sheets", zap.String("kind", string(kind)), zap.Int("rows", set.Len()))
	return set, nil
}

// SheetInfo describes one worksheet and the record sets it feeds.
type SheetInfo struct {
	Name   string       `json:"name"`
	Rows   int          `json:"rows"`
	Header []string     `json:"header"`
	Kinds  []model.Kind `json:"kinds"`
}

// Describe lists every sheet with its data row count and assigned sets.
func Describe(wb *fetcher.Workbook, kw Keywords) []SheetInfo {
	names := wb.Names()
	assigned := make(map[string][]model.Kind)
	for _, kind := range model.Kinds {
		for _, name := range MatchSheets(names, kind, kw) {
			assigned[name] = append(assigned[name], kind)
		}
	}

	infos := make([]SheetInfo, 0, len(wb.Sheets))
	for _, s := range wb.Sheets {
		header := s.Header()
		if header == nil {
			header = []string{}
		}
		kinds := assigned[s.Name]
		if kinds == nil {
			kinds = []model.Kind{}
		}
		infos = append(infos, SheetInfo{Name: s.Name, Rows: s.DataRows(), Header: header, Kinds: kinds})
	}
	return infos
}

// cacheKey hashes the source bytes together with the keywords, since both
// decide the resulting snapshot.
func (l *Loader) cacheKey(data []byte) string {
	h := sha256.New()
	h.Write(data)
	kw, _ := json.Marshal(l.opts.Keywords)
	h.Write(kw)
	return hex.EncodeToString(h.Sum(nil))
}

func (l *Loader) cached(ctx context.Context, key string) *model.Datasets {
	snap, err := l.opts.Cache.GetSnapshot(ctx, key)
	if err != nil {
		zap.L().Warn("dataset: snapshot cache read failed", zap.Error(err))
		return nil
	}
	if snap == nil {
		return nil
	}
	var ds model.Datasets
	if err := json.Unmarshal(snap.Data, &ds); err != nil {
		zap.L().Warn("dataset: discarding unreadable snapshot", zap.String("key", key), zap.Error(err))
		return nil
	}
	normalize(&ds)
	zap.L().Info("dataset: snapshot cache hit", zap.String("key", key[:12]), zap.Int("rows", ds.Total()))
	return &ds
}

func (l *Loader) remember(ctx context.Context, key, src string, ds *model.Datasets) {
	data, err := json.Marshal(ds)
	if err != nil {
		zap.L().Warn("dataset: encode snapshot", zap.Error(err))
		return
	}
	snap := store.Snapshot{Key: key, Source: redact(src), Rows: ds.Total(), Data: data}
	if err := l.opts.Cache.SetSnapshot(ctx, snap, l.opts.CacheTTL); err != nil {
		zap.L().Warn("dataset: snapshot cache write failed", zap.Error(err))
	}
}

// normalize restores the non-nil slices and kinds a decoded snapshot may
// lack.
func normalize(ds *model.Datasets) {
	for _, set := range []*model.RecordSet{&ds.Teams, &ds.Players, &ds.Transfers} {
		if set.Fields == nil {
			set.Fields = []string{}
		}
		if set.Records == nil {
			set.Records = []model.Record{}
		}
	}
	ds.Teams.Kind, ds.Players.Kind, ds.Transfers.Kind = model.KindTeams, model.KindPlayers, model.KindTransfers
}

func redact(src string) string {
	u, err := url.Parse(src)
	if err != nil || u.User == nil {
		return src
	}
	return u.Redacted()
}
