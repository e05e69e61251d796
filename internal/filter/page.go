package filter

import "github.com/DRockoda/NCAA-Mens-basketball-Div-1-data/internal/model"

// DefaultPageSize is used when a caller asks for a non-positive page size.
const DefaultPageSize = 50

// Page is one window over a filtered view.
type Page struct {
	Records  []model.Record `json:"records"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
	Total    int            `json:"total"`
	Pages    int            `json:"pages"`
}

// Paginate returns the 1-based page of records, clamping page into range.
func Paginate(records []model.Record, page, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	total := len(records)
	pages := (total + size - 1) / size
	if pages == 0 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}

	start := (page - 1) * size
	end := min(start+size, total)
	out := make([]model.Record, 0, end-start)
	out = append(out, records[start:end]...)

	return Page{Records: out, Page: page, PageSize: size, Total: total, Pages: pages}
}

// Project keeps only the given column ids of each record, for compact output.
func Project(records []model.Record, ids []string) []model.Record {
	if len(ids) == 0 {
		return records
	}
	out := make([]model.Record, len(records))
	for i, rec := range records {
		p := make(model.Record, len(ids))
		for _, id := range ids {
			if v, ok := rec[id]; ok {
				p[id] = v
			}
		}
		out[i] = p
	}
	return out
}
