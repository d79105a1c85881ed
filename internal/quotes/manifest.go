package quotes

import (
	"encoding/csv"
	"io"
	"strconv"
)

// ManifestEntry records the outcome of one batch render.
type ManifestEntry struct {
	Row      int    `json:"row"`
	Category string `json:"category"`
	Author   string `json:"author"`
	Style    string `json:"style"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Err      string `json:"error,omitempty"`
}

// Status is the value written back to the sheet's STATUS column.
func (e ManifestEntry) Status() string {
	if e.Err != "" {
		return "Error"
	}
	return StatusDone
}

// WriteManifest writes entries as CSV whose ROW, IMAGE and STATUS columns can
// be pasted back into the review sheet.
func WriteManifest(w io.Writer, entries []ManifestEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"ROW", "CATEGORY", "AUTHOR", "DESIGN_STYLE", "FILENAME", "IMAGE", "STATUS", "ERROR"}); err != nil {
		return err
	}
	for _, e := range entries {
		rec := []string{
			strconv.Itoa(e.Row),
			e.Category,
			e.Author,
			e.Style,
			e.Filename,
			e.URL,
			e.Status(),
			e.Err,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
