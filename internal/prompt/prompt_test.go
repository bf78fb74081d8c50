package prompt

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/guridi/pubsite/internal/publication"
)

func answers(lines ...string) *strings.Reader {
	return strings.NewReader(strings.Join(lines, "\n") + "\n")
}

func TestPublication_Journal(t *testing.T) {
	in := answers(
		"Participatory AI Policy",
		"Jose A. Guridi,  Ana Perez ,",
		"Government Information Quarterly, 40(1), 2023",
		"",     // no Spanish venue
		"1",    // journal
		"2023", // year
		"https://doi.org/10.1/x",
	)
	var out bytes.Buffer

	got, err := New(in, &out).Publication()
	if err != nil {
		t.Fatalf("Publication() error = %v", err)
	}

	want := publication.Publication{
		Title:    "Participatory AI Policy",
		Authors:  []string{"Jose A. Guridi", "Ana Perez"},
		Venue:    "Government Information Quarterly, 40(1), 2023",
		Year:     publication.YearPtr(2023),
		Category: publication.Journal,
		URL:      "https://doi.org/10.1/x",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Publication() mismatch (-want +got):\n%s", diff)
	}
	if strings.Contains(out.String(), "Slides link") {
		t.Error("non-workshop entry should not ask for slides")
	}
	if !strings.Contains(out.String(), "1. Peer-Reviewed Journal Article") {
		t.Errorf("menu should list categories, got:\n%s", out.String())
	}
}

func TestPublication_WorkshopWithRetries(t *testing.T) {
	in := answers(
		"",              // empty title is re-asked
		"Civic Tech",    // title
		" , ",           // no usable authors
		"Maria Lopez",   // authors
		"CSCW Workshop", // venue
		"Taller CSCW",   // Spanish venue
		"9",             // invalid menu choice
		"three",         // invalid menu choice
		"3",             // workshop
		"soon",          // non-numeric year
		"99",            // not a 4-digit year
		"",              // forthcoming
		"",              // no url
		"abs.pdf",       // abstract link
		"slides.pdf",    // slides link
	)
	var out bytes.Buffer

	got, err := New(in, &out).Publication()
	if err != nil {
		t.Fatalf("Publication() error = %v", err)
	}

	want := publication.Publication{
		Title:        "Civic Tech",
		Authors:      []string{"Maria Lopez"},
		Venue:        "CSCW Workshop",
		VenueES:      "Taller CSCW",
		Category:     publication.Workshop,
		AbstractLink: "abs.pdf",
		SlidesLink:   "slides.pdf",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Publication() mismatch (-want +got):\n%s", diff)
	}

	transcript := out.String()
	if got := strings.Count(transcript, "This field is required."); got != 2 {
		t.Errorf("required-field warnings = %d, want 2", got)
	}
	if got := strings.Count(transcript, "Invalid choice. Please enter 1-5."); got != 2 {
		t.Errorf("invalid-choice warnings = %d, want 2", got)
	}
	if got := strings.Count(transcript, "Please enter a valid year number."); got != 2 {
		t.Errorf("year warnings = %d, want 2", got)
	}
}

func TestPublication_EOFAborts(t *testing.T) {
	in := strings.NewReader("Only a title\n")
	_, err := New(in, &bytes.Buffer{}).Publication()
	if !errors.Is(err, ErrAborted) {
		t.Errorf("Publication() error = %v, want ErrAborted", err)
	}
}

func TestReadLine_FinalLineWithoutNewline(t *testing.T) {
	p := New(strings.NewReader("last"), &bytes.Buffer{})
	got, err := p.Required("Title")
	if err != nil {
		t.Fatalf("Required() error = %v", err)
	}
	if got != "last" {
		t.Errorf("Required() = %q, want last", got)
	}
}

func TestSplitAuthors(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"A, B, C", []string{"A", "B", "C"}},
		{" Jose A. Guridi ", []string{"Jose A. Guridi"}},
		{"A,,B", []string{"A", "B"}},
		{" , ", nil},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, SplitAuthors(tt.in)); diff != "" {
			t.Errorf("SplitAuthors(%q) mismatch (-want +got):\n%s", tt.in, diff)
		}
	}
}
