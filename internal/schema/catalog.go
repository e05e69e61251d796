// Package schema reconciles the expected column catalog with the fields
// actually present in a loaded record set.
package schema

import (
	_ "embed"
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/DRockoda/NCAA-Mens-basketball-Div-1-data/internal/model"
)

//go:embed columns.yaml
var defaultColumnsYAML []byte

// Catalog holds the expected columns for each record set.
type Catalog map[model.Kind][]model.Column

var defaultCatalog = mustParseCatalog(defaultColumnsYAML)

// DefaultCatalog returns the built-in expected columns.
func DefaultCatalog() Catalog {
	out := make(Catalog, len(defaultCatalog))
	for k, cols := range defaultCatalog {
		out[k] = cloneColumns(cols)
	}
	return out
}

// LoadCatalog reads a catalog override from a YAML file. Record sets absent
// from the file keep their built-in columns.
func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "schema: read catalog %s", path)
	}
	override, err := parseCatalog(data)
	if err != nil {
		return nil, eris.Wrapf(err, "schema: parse catalog %s", path)
	}
	cat := DefaultCatalog()
	for k, cols := range override {
		cat[k] = cols
	}
	return cat, nil
}

// Expected returns a copy of the expected columns for kind.
func (c Catalog) Expected(kind model.Kind) []model.Column {
	return cloneColumns(c[kind])
}

func parseCatalog(data []byte) (Catalog, error) {
	var raw map[string][]model.Column
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, eris.Wrap(err, "schema: unmarshal catalog")
	}
	cat := make(Catalog, len(raw))
	for name, cols := range raw {
		kind, err := model.ParseKind(name)
		if err != nil {
			return nil, err
		}
		for i, col := range cols {
			if col.ID == "" {
				return nil, eris.Errorf("schema: %s column %d has no id", kind, i)
			}
			if col.Type == "" {
				cols[i].Type = model.ColumnString
			}
		}
		cat[kind] = cols
	}
	return cat, nil
}

func mustParseCatalog(data []byte) Catalog {
	cat, err := parseCatalog(data)
	if err != nil {
		panic(err)
	}
	return cat
}

func cloneColumns(cols []model.Column) []model.Column {
	out := make([]model.Column, len(cols))
	for i, c := range cols {
		c.Options = append([]string(nil), c.Options...)
		out[i] = c
	}
	return out
}
