package quotes

import (
	"strings"

	imagepkg "github.com/youruser/quotecard/internal/image"
)

// StatusDone marks a row whose image has already been generated.
const StatusDone = "Done"

// Quote is one row of the review sheet export.
type Quote struct {
	Row         int    `json:"row"` // 1-based sheet row, header is row 1
	Category    string `json:"category"`
	Author      string `json:"author"`
	Text        string `json:"quote"`
	Image       string `json:"image"`
	AuthorImage string `json:"author_image"`
	DesignStyle string `json:"design_style"`
	Status      string `json:"status"`
}

// Done reports whether the row was already processed.
func (q Quote) Done() bool {
	return strings.EqualFold(strings.TrimSpace(q.Status), StatusDone)
}

// Record converts the row into renderer input.
func (q Quote) Record() imagepkg.QuoteRecord {
	author := q.Author
	if strings.TrimSpace(author) == "" {
		author = "Unknown"
	}
	return imagepkg.QuoteRecord{
		Quote:     q.Text,
		Author:    author,
		Category:  q.Category,
		AvatarRef: q.AuthorImage,
	}
}
