package imagepkg

import (
	"regexp"
	"strings"
	"time"
)

const filenameTimeLayout = "02-01-2006_1504"

var (
	unsafeChars = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	spaceRuns   = regexp.MustCompile(`\s+`)
)

// EncodeFilename builds "Category - Quote - Author - DD-MM-YYYY_HHMM.png"
// from the record, keeping only letters, digits, underscores and dashes.
func EncodeFilename(rec QuoteRecord, at time.Time) string {
	category := cleanPart(rec.Category, 20)
	if category == "" {
		category = "General"
	}
	parts := []string{
		category,
		cleanPart(rec.Quote, 30),
		cleanPart(rec.Author, 20),
		at.Format(filenameTimeLayout),
	}
	return strings.Join(parts, " - ") + ".png"
}

func cleanPart(s string, limit int) string {
	s = strings.TrimSpace(unsafeChars.ReplaceAllString(s, ""))
	if r := []rune(s); len(r) > limit {
		s = strings.TrimSpace(string(r[:limit]))
	}
	return spaceRuns.ReplaceAllString(s, "-")
}
