package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/guridi/pubsite/internal/publication"
	"go.uber.org/zap"
)

const twoPubs = `[
  {
    "title": "Participatory AI Policy",
    "authors": ["Jose A. Guridi", "Ana Perez"],
    "venue": "Government Information Quarterly",
    "venue_es": "Revista de Gobierno",
    "year": 2023,
    "publication_type": "journal",
    "url": "https://doi.org/10.1/x"
  },
  {
    "title": "Citizens' Assemblies for Data",
    "authors": ["Jose A. Guridi"],
    "venue": "CHI Workshop on Civic Tech",
    "year": null,
    "publication_type": "workshop",
    "url": null,
    "abstract_link": null,
    "slides_link": "slides/civic.pdf"
  }
]
`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "publications.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}
	return path
}

func TestLoad_Valid(t *testing.T) {
	path := writeFile(t, twoPubs)

	pubs, err := NewStore(path, zap.NewNop()).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(pubs) != 2 {
		t.Fatalf("Load() returned %d pubs, want 2", len(pubs))
	}

	first := pubs[0]
	if first.Title != "Participatory AI Policy" {
		t.Errorf("Title = %q", first.Title)
	}
	if first.Year == nil || *first.Year != 2023 {
		t.Errorf("Year = %v, want 2023", first.Year)
	}
	if first.Category != publication.Journal {
		t.Errorf("Category = %q, want journal", first.Category)
	}
	if first.VenueES != "Revista de Gobierno" {
		t.Errorf("VenueES = %q", first.VenueES)
	}

	second := pubs[1]
	if !second.IsForthcoming() {
		t.Error("second record should be forthcoming")
	}
	if second.URL != "" || second.AbstractLink != "" {
		t.Errorf("null links should decode as empty: url=%q abstract=%q", second.URL, second.AbstractLink)
	}
	if second.SlidesLink != "slides/civic.pdf" {
		t.Errorf("SlidesLink = %q", second.SlidesLink)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantIndex int
	}{
		{"not json", "{{{", -1},
		{"top-level object", `{"title": "x"}`, -1},
		{"null document", `null`, -1},
		{"bad year type", `[{"title":"A","authors":["A"],"venue":"V","year":"soon","publication_type":"journal"}]`, 0},
		{"missing title", `[{"authors":["A"],"venue":"V","publication_type":"journal"}]`, 0},
		{"empty authors", `[
			{"title":"A","authors":["A"],"venue":"V","publication_type":"journal"},
			{"title":"B","authors":[],"venue":"V","publication_type":"journal"}
		]`, 1},
		{"unknown category", `[{"title":"A","authors":["A"],"venue":"V","publication_type":"poster"}]`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.content)
			_, err := NewStore(path, nil).Load()
			if err == nil {
				t.Fatal("Load() expected error")
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("error %v should wrap ErrInvalidInput", err)
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("error %T should be *ParseError", err)
			}
			if perr.Index != tt.wantIndex {
				t.Errorf("Index = %d, want %d", perr.Index, tt.wantIndex)
			}
			if !strings.Contains(err.Error(), path) {
				t.Errorf("error %q should mention path", err)
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := NewStore("/nonexistent/publications.json", nil).Load()
	if err == nil {
		t.Fatal("Load() expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error %v should wrap os.ErrNotExist", err)
	}
	if errors.Is(err, ErrInvalidInput) {
		t.Error("missing file is an I/O error, not invalid input")
	}
}

func TestAppend_AddsExactlyOne(t *testing.T) {
	path := writeFile(t, twoPubs)
	store := NewStore(path, zap.NewNop())

	before, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	newPub := publication.Publication{
		Title:    "Algorithmic Registers",
		Authors:  []string{"Jose A. Guridi"},
		Venue:    "Policy Lab Report",
		Year:     publication.YearPtr(2024),
		Category: publication.PolicyReport,
	}
	n, err := store.Append(newPub)
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if n != len(before)+1 {
		t.Errorf("Append() count = %d, want %d", n, len(before)+1)
	}

	after, err := store.Load()
	if err != nil {
		t.Fatalf("Load() after append error = %v", err)
	}
	if len(after) != len(before)+1 {
		t.Fatalf("record count = %d, want %d", len(after), len(before)+1)
	}
	if diff := cmp.Diff(before, after[:len(before)]); diff != "" {
		t.Errorf("prior records changed (-before +after):\n%s", diff)
	}
	if diff := cmp.Diff(newPub, after[len(after)-1]); diff != "" {
		t.Errorf("appended record mismatch (-want +got):\n%s", diff)
	}
}

func TestAppend_MissingFileStartsList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site", "publications.json")
	store := NewStore(path, nil)

	n, err := store.Append(publication.Publication{
		Title:    "First",
		Authors:  []string{"A"},
		Venue:    "V",
		Category: publication.WorkingPaper,
	})
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if n != 1 {
		t.Errorf("Append() count = %d, want 1", n)
	}
}

func TestAppend_RejectsInvalid(t *testing.T) {
	path := writeFile(t, twoPubs)
	store := NewStore(path, nil)

	_, err := store.Append(publication.Publication{Title: "No authors", Venue: "V", Category: publication.Journal})
	if err == nil {
		t.Fatal("Append() expected validation error")
	}

	pubs, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(pubs) != 2 {
		t.Errorf("invalid append changed file: %d records", len(pubs))
	}
}

func TestAppend_MalformedFileNotOverwritten(t *testing.T) {
	path := writeFile(t, "[not json")
	store := NewStore(path, nil)

	_, err := store.Append(publication.Publication{Title: "T", Authors: []string{"A"}, Venue: "V", Category: publication.Journal})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("Append() error = %v, want ErrInvalidInput", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "[not json" {
		t.Errorf("malformed file was overwritten: %q", data)
	}
}

func TestEncode_Format(t *testing.T) {
	data, err := Encode([]publication.Publication{{
		Title:    "Gobernanza de Datos & IA <en> Chile",
		Authors:  []string{"José Guridi"},
		Venue:    "Revista",
		Category: publication.Journal,
	}})
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	s := string(data)

	if !strings.HasSuffix(s, "]\n") {
		t.Errorf("output should end with a newline: %q", s)
	}
	if !strings.Contains(s, "José") {
		t.Error("non-ASCII should be written literally")
	}
	if !strings.Contains(s, "& IA <en>") {
		t.Error("HTML characters should not be escaped")
	}
	if !strings.Contains(s, "\n  {\n    \"title\"") {
		t.Errorf("expected 2-space indentation, got:\n%s", s)
	}
}

func TestEncode_Empty(t *testing.T) {
	data, err := Encode(nil)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if string(data) != "[]\n" {
		t.Errorf("Encode(nil) = %q, want %q", data, "[]\n")
	}
}

// priorRecord is laid out the way the site's data file is written: nulls for
// missing links, venue_es last, and a key the Publication type does not know.
const priorRecord = `[
  {
    "title": "Data Trusts",
    "authors": [
      "Jose A. Guridi"
    ],
    "venue": "Research Policy",
    "year": 2020,
    "publication_type": "journal",
    "url": null,
    "abstract_link": null,
    "slides_link": null,
    "doi": "10.1/xyz",
    "venue_es": "Política de Investigación"
  }
]
`

func TestAppend_KeepsPriorRecordBytes(t *testing.T) {
	path := writeFile(t, priorRecord)

	_, err := NewStore(path, nil).Append(publication.Publication{
		Title:    "Algorithmic Registers",
		Authors:  []string{"Ana Perez"},
		Venue:    "FAccT",
		Year:     publication.YearPtr(2024),
		Category: publication.ArchivalConference,
	})
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read data file: %v", err)
	}
	got := string(data)

	wantPrefix := strings.TrimSuffix(priorRecord, "\n]\n") + ",\n  {\n    \"title\": \"Algorithmic Registers\","
	if !strings.HasPrefix(got, wantPrefix) {
		t.Errorf("prior record bytes changed, got:\n%s", got)
	}
	if !strings.HasSuffix(got, "\n  }\n]\n") {
		t.Errorf("file should end with the new record and a newline, got:\n%s", got)
	}
}

func TestAppend_ReindentsCompactPriorRecords(t *testing.T) {
	path := writeFile(t, `[{"title":"A","authors":["X"],"venue":"V","publication_type":"journal","url":null}]`)

	if _, err := NewStore(path, nil).Append(publication.Publication{
		Title: "B", Authors: []string{"Y"}, Venue: "W", Category: publication.Workshop,
	}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	data, _ := os.ReadFile(path)
	want := `[
  {
    "title": "A",
    "authors": [
      "X"
    ],
    "venue": "V",
    "publication_type": "journal",
    "url": null
  },
  {
    "title": "B",
    "authors": [
      "Y"
    ],
    "venue": "W",
    "year": null,
    "publication_type": "workshop"
  }
]
`
	if diff := cmp.Diff(want, string(data)); diff != "" {
		t.Errorf("data file mismatch (-want +got):\n%s", diff)
	}
}
