package quotes

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const sheet = `CATEGORY,AUTHOR,QUOTE,IMAGE,DESIGN_STYLE,STATUS,AVATAR
Motivation,Seneca,Luck is what happens when preparation meets opportunity.,,bold,,https://example.com/seneca.png
Motivation,Anon,Be the change.,,elegant,Done,
Wisdom,Lao Tzu,The journey of a thousand miles begins with one step.,,minimal,,
Wisdom,,Silence is a source of great strength.,,,pending,
,Nobody,,,,,
Humor,Oscar Wilde,Always forgive your enemies; nothing annoys them so much.,,neon,done,
`

func loadSheet(t *testing.T) []Quote {
	t.Helper()
	qs, err := ReadCSV(strings.NewReader(sheet))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	return qs
}

func TestReadCSV(t *testing.T) {
	qs := loadSheet(t)
	if len(qs) != 5 {
		t.Fatalf("len = %d, want 5 rows with quote text", len(qs))
	}
	first := qs[0]
	if first.Row != 2 || first.Author != "Seneca" || first.DesignStyle != "bold" || first.AuthorImage != "https://example.com/seneca.png" {
		t.Errorf("first row = %+v", first)
	}
	if qs[4].Row != 7 {
		t.Errorf("last row number = %d, want 7", qs[4].Row)
	}
	if rec := qs[3].Record(); rec.Author != "Unknown" || rec.Category != "Wisdom" {
		t.Errorf("Record() = %+v, want Unknown author", rec)
	}
}

func TestReadCSVHeaderVariants(t *testing.T) {
	in := "\ufeffCategory ,Poet,Quote,Status\nLove,Rumi,What you seek is seeking you.,\n"
	qs, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	if len(qs) != 1 || qs[0].Category != "Love" || qs[0].Author != "Rumi" {
		t.Errorf("ReadCSV = %+v", qs)
	}

	if _, err := ReadCSV(strings.NewReader("A,B\n1,2\n")); err == nil {
		t.Errorf("ReadCSV without QUOTE column succeeded, want error")
	}
}

func TestLoadQuotesFromDataDir(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadQuotesFromDataDir(dir); err == nil {
		t.Fatalf("empty dir succeeded, want error")
	}
	if err := os.WriteFile(filepath.Join(dir, "quotes.csv"), []byte(sheet), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	extra := "QUOTE,AUTHOR\nStay curious.,Anon\n"
	if err := os.WriteFile(filepath.Join(dir, "custom_quotes.csv"), []byte(extra), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	qs, err := LoadQuotesFromDataDir(dir)
	if err != nil {
		t.Fatalf("LoadQuotesFromDataDir failed: %v", err)
	}
	if len(qs) != 6 {
		t.Errorf("len = %d, want 6", len(qs))
	}
}

func TestFilter(t *testing.T) {
	qs := loadSheet(t)
	texts := func(qs []Quote) []string {
		var out []string
		for _, q := range qs {
			out = append(out, q.Author)
		}
		return out
	}

	tests := []struct {
		name string
		opt  FilterOptions
		want []string
	}{
		{"pending", FilterOptions{}, []string{"Seneca", "Lao Tzu", ""}},
		{"include done", FilterOptions{IncludeDone: true}, []string{"Seneca", "Anon", "Lao Tzu", "", "Oscar Wilde"}},
		{"category", FilterOptions{Categories: []string{"wisdom"}}, []string{"Lao Tzu", ""}},
		{"style", FilterOptions{Styles: []string{"BOLD", "minimal"}}, []string{"Seneca", "Lao Tzu"}},
		{"author", FilterOptions{Authors: []string{"tzu"}}, []string{"Lao Tzu"}},
		{"free words", FilterOptions{FreeWords: "journey step"}, []string{"Lao Tzu"}},
		{"max length", FilterOptions{MaxLength: 40}, []string{""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := texts(Filter(qs, tt.opt)); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Filter() authors = %q, want %q", got, tt.want)
			}
		})
	}
	if got := len(Pending(qs)); got != 3 {
		t.Errorf("len(Pending) = %d, want 3", got)
	}
}

func TestTopics(t *testing.T) {
	got := Topics(loadSheet(t))
	want := []string{"Motivation", "Wisdom"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Topics() = %v, want %v", got, want)
	}
}

func TestWriteManifest(t *testing.T) {
	var buf bytes.Buffer
	err := WriteManifest(&buf, []ManifestEntry{
		{Row: 2, Category: "Motivation", Author: "Seneca", Style: "bold", Filename: "a.png", URL: "/Generated_Images/a.png"},
		{Row: 4, Category: "Wisdom", Author: "Lao Tzu", Style: "minimal", Err: "render: disk full"},
	})
	if err != nil {
		t.Fatalf("WriteManifest failed: %v", err)
	}
	want := "ROW,CATEGORY,AUTHOR,DESIGN_STYLE,FILENAME,IMAGE,STATUS,ERROR\n" +
		"2,Motivation,Seneca,bold,a.png,/Generated_Images/a.png,Done,\n" +
		"4,Wisdom,Lao Tzu,minimal,,,Error,render: disk full\n"
	if got := buf.String(); got != want {
		t.Errorf("manifest =\n%s\nwant\n%s", got, want)
	}
}
