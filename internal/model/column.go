package model

// ColumnType is the logical type of a column.
type ColumnType string

const (
	ColumnString      ColumnType = "string"
	ColumnNumber      ColumnType = "number"
	ColumnDate        ColumnType = "date"
	ColumnCategorical ColumnType = "categorical"
)

// Column describes one logical field of a record set.
type Column struct {
	ID             string     `json:"id" yaml:"id"`
	Label          string     `json:"label" yaml:"label"`
	Type           ColumnType `json:"type" yaml:"type"`
	Filterable     bool       `json:"filterable" yaml:"filterable"`
	Searchable     bool       `json:"searchable" yaml:"searchable"`
	DefaultVisible bool       `json:"default_visible" yaml:"default_visible"`
	Options        []string   `json:"options,omitempty" yaml:"options,omitempty"` // fixed choices, e.g. rank 1-5
}

// FindColumn returns the column with the given id.
func FindColumn(cols []Column, id string) (Column, bool) {
	for _, c := range cols {
		if c.ID == id {
			return c, true
		}
	}
	return Column{}, false
}

// SearchableIDs returns the ids of searchable columns in order.
func SearchableIDs(cols []Column) []string {
	var ids []string
	for _, c := range cols {
		if c.Searchable {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// VisibleIDs returns the ids of default-visible columns in order.
func VisibleIDs(cols []Column) []string {
	var ids []string
	for _, c := range cols {
		if c.DefaultVisible {
			ids = append(ids, c.ID)
		}
	}
	return ids
}
