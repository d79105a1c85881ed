package quotes

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Files read by LoadQuotesFromDataDir, in order. Only the first is required.
var dataFiles = []string{"quotes.csv", "custom_quotes.csv"}

// column aliases accepted in the header row, matched case-insensitively
var columns = map[string][]string{
	"category":     {"category"},
	"author":       {"author", "poet"},
	"quote":        {"quote"},
	"image":        {"image"},
	"author_image": {"author_image", "author image", "avatar", "photo", "image_url", "image url"},
	"design_style": {"design_style", "design style", "style"},
	"status":       {"status"},
}

// LoadQuotesFromDataDir loads the sheet exports found in dataDir.
func LoadQuotesFromDataDir(dataDir string) ([]Quote, error) {
	var all []Quote
	found := false
	for _, name := range dataFiles {
		path := filepath.Join(dataDir, name)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		found = true
		qs, err := LoadCSV(path)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
		all = append(all, qs...)
	}
	if !found {
		return nil, fmt.Errorf("no quote CSVs found in %s", dataDir)
	}
	return all, nil
}

// LoadCSV reads one sheet export.
func LoadCSV(path string) ([]Quote, error) {
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	return ReadCSV(fp)
}

// ReadCSV parses a sheet export. Columns are located by header name; rows
// without quote text are dropped.
func ReadCSV(r io.Reader) ([]Quote, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("csv has no header")
	}

	cols := map[string]int{}
	for i, h := range rows[0] {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		for field, aliases := range columns {
			for _, a := range aliases {
				if key == a {
					if _, dup := cols[field]; !dup {
						cols[field] = i
					}
				}
			}
		}
	}
	if _, ok := cols["quote"]; !ok {
		return nil, fmt.Errorf("csv header has no QUOTE column")
	}

	get := func(row []string, field string) string {
		if idx, ok := cols[field]; ok && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	out := []Quote{}
	for i, row := range rows[1:] {
		q := Quote{
			Row:         i + 2,
			Category:    get(row, "category"),
			Author:      get(row, "author"),
			Text:        get(row, "quote"),
			Image:       get(row, "image"),
			AuthorImage: get(row, "author_image"),
			DesignStyle: get(row, "design_style"),
			Status:      get(row, "status"),
		}
		if q.Text == "" {
			continue
		}
		out = append(out, q)
	}
	return out, nil
}
