package fetcher

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
)

// ParseZIP reads an archive of CSV exports. Each .csv entry becomes a sheet
// named after its file name without extension; an .xlsx entry contributes
// all of its sheets. Directories and other files are ignored.
func ParseZIP(ctx context.Context, data []byte) (*Workbook, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, eris.Wrap(err, "zip: open archive")
	}

	files := make([]*zip.File, 0, len(r.File))
	for _, f := range r.File {
		if !f.FileInfo().IsDir() && !strings.HasPrefix(path.Base(f.Name), ".") {
			files = append(files, f)
		}
	}
	sort.SliceStable(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	wb := &Workbook{}
	for _, f := range files {
		switch strings.ToLower(path.Ext(f.Name)) {
		case ".csv":
			sheet, err := readZIPCSV(ctx, f)
			if err != nil {
				return nil, err
			}
			wb.Sheets = append(wb.Sheets, sheet)
		case ".xlsx":
			inner, err := readZIPEntry(f)
			if err != nil {
				return nil, err
			}
			nested, err := ParseXLSX(inner)
			if err != nil {
				return nil, eris.Wrapf(err, "zip: entry %s", f.Name)
			}
			wb.Sheets = append(wb.Sheets, nested.Sheets...)
		}
	}
	return wb, nil
}

func readZIPCSV(ctx context.Context, f *zip.File) (Sheet, error) {
	rc, err := f.Open()
	if err != nil {
		return Sheet{}, eris.Wrapf(err, "zip: open entry %s", f.Name)
	}
	defer rc.Close() //nolint:errcheck
	return ReadCSV(ctx, sheetName(f.Name), rc)
}

func readZIPEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, eris.Wrapf(err, "zip: open entry %s", f.Name)
	}
	defer rc.Close() //nolint:errcheck
	return readLimited(rc, DefaultMaxBytes)
}

// ReadCSVDir reads every .csv file in dir as a sheet, in name order.
func ReadCSVDir(ctx context.Context, dir string) (*Workbook, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrap(err, "csv: read directory")
	}

	wb := &Workbook{}
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		f, err := os.Open(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, eris.Wrap(err, "csv: open file")
		}
		sheet, err := ReadCSV(ctx, sheetName(e.Name()), f)
		_ = f.Close()
		if err != nil {
			return nil, err
		}
		wb.Sheets = append(wb.Sheets, sheet)
	}
	return wb, nil
}

func sheetName(file string) string {
	base := path.Base(filepath.ToSlash(file))
	return strings.TrimSuffix(base, path.Ext(base))
}
