package main

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/DRockoda/NCAA-Mens-basketball-Div-1-data/internal/dataset"
	"github.com/DRockoda/NCAA-Mens-basketball-Div-1-data/internal/fetcher"
	"github.com/DRockoda/NCAA-Mens-basketball-Div-1-data/internal/model"
	"github.com/DRockoda/NCAA-Mens-basketball-Div-1-data/internal/schema"
	"github.com/DRockoda/NCAA-Mens-basketball-Div-1-data/internal/store"
)

// exploreEnv holds the loaded snapshot and its resolved columns for the
// query commands.
type exploreEnv struct {
	Store   store.Store // nil when caching is off
	Loader  *dataset.Loader
	Data    *model.Datasets
	Columns map[model.Kind][]model.Column
}

// Close releases the snapshot cache.
func (e *exploreEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

func initStore(ctx context.Context) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "ncaa-cache.db"
		}
		st, err = store.NewSQLite(dsn)
	case "postgres":
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		})
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

func newLoader(st store.Store) *dataset.Loader {
	return dataset.NewLoader(dataset.Options{
		Keywords: dataset.Keywords{
			Teams:     cfg.Data.Sheets.Teams,
			Players:   cfg.Data.Sheets.Players,
			Transfers: cfg.Data.Sheets.Transfers,
		},
		Fetch: fetcher.Options{
			HTTP: fetcher.HTTPOptions{
				UserAgent:   cfg.Fetch.UserAgent,
				Timeout:     time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
				MaxRetries:  cfg.Fetch.Retries,
				RatePerHost: rate.Limit(cfg.Fetch.RatePerHost),
			},
			FTP:      fetcher.FTPOptions{Timeout: time.Duration(cfg.Fetch.TimeoutSecs) * time.Second},
			MaxBytes: int64(cfg.Fetch.MaxMB) << 20,
		},
		Cache:    st,
		CacheTTL: cfg.Data.CacheTTL(),
	})
}

// initExplore opens the cache, loads the workbook and resolves columns.
// With lenient set a failed load yields empty record sets instead of an
// error. Callers should defer env.Close().
func initExplore(ctx context.Context, mode string, lenient bool) (*exploreEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	env := &exploreEnv{}
	if !cfg.Data.NoCache {
		st, err := initStore(ctx)
		if err != nil {
			zap.L().Warn("snapshot cache unavailable, loading without it", zap.Error(err))
		} else {
			env.Store = st
		}
	}
	env.Loader = newLoader(env.Store)

	catalog := schema.DefaultCatalog()
	if cfg.Data.ColumnsFile != "" {
		c, err := schema.LoadCatalog(cfg.Data.ColumnsFile)
		if err != nil {
			env.Close()
			return nil, err
		}
		catalog = c
	}

	if lenient {
		env.Data = env.Loader.LoadOrEmpty(ctx, cfg.Data.Source)
	} else {
		ds, err := env.Loader.Load(ctx, cfg.Data.Source)
		if err != nil {
			env.Close()
			return nil, err
		}
		env.Data = ds
	}

	env.Columns = resolveColumns(env.Data, catalog)
	zap.L().Info("snapshot ready",
		zap.Int("teams", env.Data.Teams.Len()),
		zap.Int("players", env.Data.Players.Len()),
		zap.Int("transfers", env.Data.Transfers.Len()),
	)
	return env, nil
}

func resolveColumns(ds *model.Datasets, catalog schema.Catalog) map[model.Kind][]model.Column {
	cols := make(map[model.Kind][]model.Column, len(model.Kinds))
	for _, kind := range model.Kinds {
		cols[kind] = schema.Resolve(kind, ds.Of(kind), catalog.Expected(kind))
	}
	return cols
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

var stdout io.Writer = os.Stdout
