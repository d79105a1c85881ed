package quotes

import (
	"sort"
	"strings"
)

// FilterOptions narrows the review queue. Empty fields match everything.
type FilterOptions struct {
	Categories  []string `json:"categories"`
	Styles      []string `json:"styles"`
	Authors     []string `json:"authors"`
	FreeWords   string   `json:"free_words"`
	MaxLength   int      `json:"max_length"`   // in runes, 0 = unlimited
	IncludeDone bool     `json:"include_done"` // processed rows are skipped by default
}

func equalsAny(s string, candidates []string) bool {
	s = strings.TrimSpace(s)
	for _, c := range candidates {
		if strings.EqualFold(s, strings.TrimSpace(c)) {
			return true
		}
	}
	return false
}

func containsAny(hay string, needles []string) bool {
	hay = strings.ToLower(hay)
	for _, n := range needles {
		if strings.Contains(hay, strings.ToLower(strings.TrimSpace(n))) {
			return true
		}
	}
	return false
}

// Filter returns the quotes matching every set option, in input order.
func Filter(qs []Quote, opt FilterOptions) []Quote {
	var out []Quote
	for _, q := range qs {
		if !opt.IncludeDone && q.Done() {
			continue
		}
		if len(opt.Categories) > 0 && !equalsAny(q.Category, opt.Categories) {
			continue
		}
		if len(opt.Styles) > 0 && !equalsAny(q.DesignStyle, opt.Styles) {
			continue
		}
		if len(opt.Authors) > 0 && !containsAny(q.Author, opt.Authors) {
			continue
		}
		if opt.MaxLength > 0 && len([]rune(q.Text)) > opt.MaxLength {
			continue
		}
		if opt.FreeWords != "" {
			ok := true
			for _, k := range strings.Fields(opt.FreeWords) {
				k = strings.ToLower(k)
				if !strings.Contains(strings.ToLower(q.Text), k) &&
					!strings.Contains(strings.ToLower(q.Author), k) &&
					!strings.Contains(strings.ToLower(q.Category), k) {
					ok = false
					break
				}
			}
			if !ok {
				continue
			}
		}
		out = append(out, q)
	}
	return out
}

// Pending returns the rows that still need an image.
func Pending(qs []Quote) []Quote {
	return Filter(qs, FilterOptions{})
}

// Topics lists the distinct categories of pending rows, sorted.
func Topics(qs []Quote) []string {
	seen := map[string]bool{}
	for _, q := range qs {
		c := strings.TrimSpace(q.Category)
		if q.Done() || c == "" {
			continue
		}
		seen[c] = true
	}
	out := make([]string, 0, len(seen))
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
