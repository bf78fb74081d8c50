package publication

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func validPub() Publication {
	return Publication{
		Title:    "Data Governance in Chile",
		Authors:  []string{"Jose A. Guridi"},
		Venue:    "Research Policy, 49(2), 2020",
		Year:     YearPtr(2020),
		Category: Journal,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(p *Publication)
		wantField string
	}{
		{"valid", func(p *Publication) {}, ""},
		{"forthcoming is valid", func(p *Publication) { p.Year = nil }, ""},
		{"missing title", func(p *Publication) { p.Title = "  " }, "title"},
		{"no authors", func(p *Publication) { p.Authors = nil }, "authors"},
		{"blank author", func(p *Publication) { p.Authors = []string{"A", ""} }, "authors"},
		{"missing venue", func(p *Publication) { p.Venue = "" }, "venue"},
		{"missing category", func(p *Publication) { p.Category = "" }, "publication_type"},
		{"unknown category", func(p *Publication) { p.Category = "blog-post" }, "publication_type"},
		{"three digit year", func(p *Publication) { p.Year = YearPtr(999) }, "year"},
		{"five digit year", func(p *Publication) { p.Year = YearPtr(20201) }, "year"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPub()
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error = %v, want *ValidationError", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", verr.Field, tt.wantField)
			}
		})
	}
}

func TestVenueFor(t *testing.T) {
	p := validPub()
	if got := p.VenueFor("es"); got != p.Venue {
		t.Errorf("VenueFor(es) without override = %q, want %q", got, p.Venue)
	}

	p.VenueES = "Politica de Investigacion"
	if got := p.VenueFor("es"); got != p.VenueES {
		t.Errorf("VenueFor(es) = %q, want %q", got, p.VenueES)
	}
	if got := p.VenueFor("en"); got != p.Venue {
		t.Errorf("VenueFor(en) = %q, want %q", got, p.Venue)
	}
}

func TestHasSlides(t *testing.T) {
	p := validPub()
	p.SlidesLink = "slides.pdf"
	if p.HasSlides() {
		t.Error("journal article should never have slides")
	}

	p.Category = Workshop
	if !p.HasSlides() {
		t.Error("workshop with slides_link should have slides")
	}

	p.SlidesLink = ""
	if p.HasSlides() {
		t.Error("workshop without slides_link should not have slides")
	}
}

func TestParseCategory(t *testing.T) {
	c, err := ParseCategory(" Workshop ")
	if err != nil {
		t.Fatalf("ParseCategory() error = %v", err)
	}
	if c != Workshop {
		t.Errorf("ParseCategory() = %q, want %q", c, Workshop)
	}

	if _, err := ParseCategory("poster"); err == nil {
		t.Error("ParseCategory(poster) should fail")
	}
}

func TestCategoriesOrder(t *testing.T) {
	cats := Categories()
	if cats[0] != WorkingPaper {
		t.Errorf("first category = %q, want working-paper", cats[0])
	}
	if len(cats) != 6 {
		t.Errorf("len(Categories()) = %d, want 6", len(cats))
	}

	menu := MenuCategories()
	if len(menu) != 5 {
		t.Fatalf("len(MenuCategories()) = %d, want 5", len(menu))
	}
	for _, c := range menu {
		if c == WorkingPaper {
			t.Error("menu should not offer working-paper")
		}
	}

	// Mutating the returned slice must not change page order.
	cats[0] = Journal
	if Categories()[0] != WorkingPaper {
		t.Error("Categories() returned shared backing array")
	}
}

func TestJSONShape(t *testing.T) {
	p := validPub()
	p.Year = nil
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	s := string(data)
	if !strings.Contains(s, `"year":null`) {
		t.Errorf("forthcoming year should marshal as null: %s", s)
	}
	if !strings.Contains(s, `"publication_type":"journal"`) {
		t.Errorf("category should marshal as publication_type: %s", s)
	}
	if strings.Contains(s, "venue_es") {
		t.Errorf("empty venue_es should be omitted: %s", s)
	}
}
