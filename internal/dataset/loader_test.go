package dataset

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/DRockoda/NCAA-Mens-basketball-Div-1-data/internal/fetcher"
	"github.com/DRockoda/NCAA-Mens-basketball-Div-1-data/internal/filter"
	"github.com/DRockoda/NCAA-Mens-basketball-Div-1-data/internal/model"
	"github.com/DRockoda/NCAA-Mens-basketball-Div-1-data/internal/schema"
	"github.com/DRockoda/NCAA-Mens-basketball-Div-1-data/internal/store"
)

type fixtureSheet struct {
	name string
	rows [][]string
}

var fixture = []fixtureSheet{
	{"Teams", [][]string{
		{"Team_Name", "Season", "Conference", "Team_PTS"},
		{"Purdue", "2024", "Big Ten", "83.4"},
		{"UConn", "2024", "Big East", "81.5"},
	}},
	{"Players 2023", [][]string{
		{"Name", "Team", "Season", "PTS"},
		{"Zach Edey", "Purdue", "2023", "22.3"},
	}},
	{"Players 2024", [][]string{
		{"Name", "Team", "Season", "PTS", "AST"},
		{"Zach Edey", "Purdue", "2024", "25.2", "2.2"},
		{"Dalton Knecht", "Tennessee", "2024", "21.7", "1.8"},
	}},
	{"Transfers", [][]string{
		{"Season", "Name", "From_Team", "To_Team"},
		{"2024", "Dalton Knecht", "Northern Colorado", "Tennessee"},
	}},
	{"Notes", [][]string{{"Text"}, {"ignore me"}}},
}

func writeXLSX(t *testing.T, sheets []fixtureSheet) []byte {
	t.Helper()
	f := xlsx.NewFile()
	for _, fs := range sheets {
		sheet, err := f.AddSheet(fs.name)
		require.NoError(t, err)
		for _, rowData := range fs.rows {
			row := sheet.AddRow()
			for _, v := range rowData {
				row.AddCell().SetString(v)
			}
		}
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func assertFixture(t *testing.T, ds *model.Datasets) {
	t.Helper()
	require.Equal(t, 2, ds.Teams.Len())
	require.Equal(t, 3, ds.Players.Len())
	require.Equal(t, 1, ds.Transfers.Len())

	assert.Equal(t, []string{"Name", "Team", "Season", "PTS", "AST"}, ds.Players.Fields)
	assert.Equal(t, "Zach Edey", ds.Players.Records[0]["Name"])
	assert.Equal(t, 22.3, ds.Players.Records[0]["PTS"])
	// Sheets merge in workbook order; the 2023 sheet has no AST column.
	assert.NotContains(t, ds.Players.Records[0], "AST")
	assert.Equal(t, 2.2, ds.Players.Records[1]["AST"])
	assert.Equal(t, "Northern Colorado", ds.Transfers.Records[0]["From_Team"])
	assert.Equal(t, model.KindTransfers, ds.Transfers.Kind)
}

func TestLoad_XLSX(t *testing.T) {
	path := writeFile(t, "ncaa.xlsx", writeXLSX(t, fixture))

	ds, err := NewLoader(Options{}).Load(context.Background(), path)
	require.NoError(t, err)
	assertFixture(t, ds)
	assert.Equal(t, path, ds.Source)
	assert.False(t, ds.LoadedAt.IsZero())
}

func TestLoad_CSVDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "teams.csv"), []byte("Team_Name,Season\nPurdue,2024\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "players.csv"), []byte("Name,PTS\nZach Edey,25.2\n"), 0o644))

	ds, err := NewLoader(Options{}).Load(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Teams.Len())
	assert.Equal(t, 25.2, ds.Players.Records[0]["PTS"])
	assert.Equal(t, 0, ds.Transfers.Len())
	assert.NotNil(t, ds.Transfers.Records)
}

func TestLoad_SingleCSV(t *testing.T) {
	path := writeFile(t, "transfers.csv", []byte("Name,From_Team,To_Team\nKnecht,Northern Colorado,Tennessee\n"))

	ds, err := NewLoader(Options{}).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Transfers.Len())
	assert.Equal(t, 0, ds.Players.Len())
}

func TestLoad_ZIP(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range map[string]string{
		"teams.csv":   "Team_Name,Season\nPurdue,2024\n",
		"players.csv": "Name,Season\nZach Edey,2024\n",
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	path := writeFile(t, "ncaa.zip", buf.Bytes())

	ds, err := NewLoader(Options{}).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Teams.Len())
	assert.Equal(t, 1, ds.Players.Len())
}

func TestLoad_HTTP(t *testing.T) {
	data := writeXLSX(t, fixture)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(data)
	}))
	defer srv.Close()

	l := NewLoader(Options{Fetch: fetcher.Options{HTTP: fetcher.HTTPOptions{MaxRetries: 1, RatePerHost: 100}}})
	ds, err := l.Load(context.Background(), srv.URL+"/data/ncaa.xlsx")
	require.NoError(t, err)
	assertFixture(t, ds)
}

func TestLoad_NoData(t *testing.T) {
	path := writeFile(t, "ncaa.xlsx", writeXLSX(t, []fixtureSheet{
		{"Sheet1", [][]string{{"a", "b"}, {"1", "2"}}},
		{"Teams", [][]string{{"Team_Name"}}},
	}))

	_, err := NewLoader(Options{}).Load(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no data found")
	assert.Contains(t, err.Error(), "Sheet1, Teams")
}

func TestLoad_Errors(t *testing.T) {
	l := NewLoader(Options{})
	ctx := context.Background()

	_, err := l.Load(ctx, "")
	assert.Error(t, err)

	_, err = l.Load(ctx, filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.Error(t, err)

	_, err = l.Load(ctx, writeFile(t, "broken.xlsx", []byte("not a workbook")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dataset: parse workbook")

	_, err = l.Load(ctx, "s3://bucket/ncaa.xlsx")
	assert.Error(t, err)
}

func TestLoadOrEmpty(t *testing.T) {
	ds := NewLoader(Options{}).LoadOrEmpty(context.Background(), filepath.Join(t.TempDir(), "missing.xlsx"))
	require.NotNil(t, ds)
	assert.Equal(t, 0, ds.Total())
	assert.NotNil(t, ds.Teams.Records)
	assert.NotNil(t, ds.Players.Records)
	assert.NotNil(t, ds.Transfers.Records)
}

// countingStore records snapshot traffic on top of a real SQLite store.
type countingStore struct {
	store.Store
	gets, sets atomic.Int32
}

func (c *countingStore) GetSnapshot(ctx context.Context, key string) (*store.Snapshot, error) {
	c.gets.Add(1)
	return c.Store.GetSnapshot(ctx, key)
}

func (c *countingStore) SetSnapshot(ctx context.Context, snap store.Snapshot, ttl time.Duration) error {
	c.sets.Add(1)
	return c.Store.SetSnapshot(ctx, snap, ttl)
}

func newCache(t *testing.T) *countingStore {
	t.Helper()
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return &countingStore{Store: st}
}

func TestLoad_SnapshotCache(t *testing.T) {
	cache := newCache(t)
	path := writeFile(t, "ncaa.xlsx", writeXLSX(t, fixture))
	l := NewLoader(Options{Cache: cache, CacheTTL: time.Hour})
	ctx := context.Background()

	first, err := l.Load(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, int32(1), cache.sets.Load())

	second, err := l.Load(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, int32(2), cache.gets.Load())
	assert.Equal(t, int32(1), cache.sets.Load(), "cache hit must not rewrite the snapshot")
	assertFixture(t, second)
	assert.Equal(t, first.Players.Fields, second.Players.Fields)

	snaps, err := cache.ListSnapshots(ctx)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, 6, snaps[0].Rows)
	assert.Len(t, snaps[0].Key, 64)
}

func TestLoad_SnapshotCache_KeywordsChangeKey(t *testing.T) {
	cache := newCache(t)
	path := writeFile(t, "ncaa.xlsx", writeXLSX(t, fixture))
	ctx := context.Background()

	_, err := NewLoader(Options{Cache: cache}).Load(ctx, path)
	require.NoError(t, err)

	ds, err := NewLoader(Options{Cache: cache, Keywords: Keywords{Teams: []string{"notes"}}}).Load(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Teams.Len())
	assert.Equal(t, int32(2), cache.sets.Load())
}

func TestLoad_CSVDirectorySkipsCache(t *testing.T) {
	cache := newCache(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "teams.csv"), []byte("Team_Name\nPurdue\n"), 0o644))

	_, err := NewLoader(Options{Cache: cache}).Load(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, int32(0), cache.gets.Load())
	assert.Equal(t, int32(0), cache.sets.Load())
}

func TestWorkbookAndDescribe(t *testing.T) {
	path := writeFile(t, "ncaa.xlsx", writeXLSX(t, fixture))

	wb, err := NewLoader(Options{}).Workbook(context.Background(), path)
	require.NoError(t, err)

	infos := Describe(wb, Keywords{})
	require.Len(t, infos, 5)
	assert.Equal(t, "Teams", infos[0].Name)
	assert.Equal(t, 2, infos[0].Rows)
	assert.Equal(t, []model.Kind{model.KindTeams}, infos[0].Kinds)
	assert.Equal(t, []model.Kind{model.KindPlayers}, infos[2].Kinds)
	assert.Equal(t, []string{"Text"}, infos[4].Header)
	assert.Empty(t, infos[4].Kinds)
	assert.NotNil(t, infos[4].Kinds)
}

func TestBuild_DateCellsFilterAsDates(t *testing.T) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Transfers")
	require.NoError(t, err)
	header := sheet.AddRow()
	for _, h := range []string{"Season", "Name", "Team", "New_Team", "Date"} {
		header.AddCell().SetString(h)
	}
	row := sheet.AddRow()
	for _, v := range []string{"2023", "Johni Broome", "Morehead State", "Auburn"} {
		row.AddCell().SetString(v)
	}
	row.AddCell().SetDate(time.Date(2023, time.May, 1, 0, 0, 0, 0, time.UTC))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	wb, err := fetcher.ParseXLSX(buf.Bytes())
	require.NoError(t, err)
	ds, err := Build(context.Background(), wb, DefaultKeywords)
	require.NoError(t, err)
	require.Len(t, ds.Transfers.Records, 1)
	assert.Equal(t, "2023-05-01", ds.Transfers.Records[0].String("Date"))

	cols := schema.Resolve(model.KindTransfers, ds.Transfers, schema.DefaultCatalog().Expected(model.KindTransfers))
	col, ok := model.FindColumn(cols, "Date")
	require.True(t, ok)
	assert.Equal(t, model.ColumnDate, col.Type)

	in := filter.Apply(ds.Transfers.Records, filter.Set{"Date": filter.Between("2023-01-01", "2023-12-31")}, nil, cols)
	assert.Len(t, in, 1)
	out := filter.Apply(ds.Transfers.Records, filter.Set{"Date": filter.Between("2024-01-01", "")}, nil, cols)
	assert.Empty(t, out)
}
