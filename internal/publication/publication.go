// Package publication defines the core domain types for the publications page.
package publication

import (
	"fmt"
	"strings"
)

// Year bounds for a dated publication.
const (
	MinYear = 1000
	MaxYear = 9999
)

// Publication represents one entry in publications.json.
type Publication struct {
	Title   string   `json:"title"`
	Authors []string `json:"authors"`
	Venue   string   `json:"venue"`
	VenueES string   `json:"venue_es,omitempty"` // Spanish override for Venue

	// Year is nil for forthcoming work.
	Year     *int     `json:"year"`
	Category Category `json:"publication_type"`

	URL          string `json:"url,omitempty"`
	AbstractLink string `json:"abstract_link,omitempty"` // workshop only
	SlidesLink   string `json:"slides_link,omitempty"`   // workshop only
}

// ValidationError reports the first field that makes a publication invalid.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Validate checks required fields and value ranges.
func (p Publication) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return &ValidationError{Field: "title", Reason: "is required"}
	}
	if len(p.Authors) == 0 {
		return &ValidationError{Field: "authors", Reason: "must have at least one author"}
	}
	for i, a := range p.Authors {
		if strings.TrimSpace(a) == "" {
			return &ValidationError{Field: "authors", Reason: fmt.Sprintf("author %d is empty", i+1)}
		}
	}
	if strings.TrimSpace(p.Venue) == "" {
		return &ValidationError{Field: "venue", Reason: "is required"}
	}
	if p.Category == "" {
		return &ValidationError{Field: "publication_type", Reason: "is required"}
	}
	if !p.Category.Valid() {
		return &ValidationError{Field: "publication_type", Reason: fmt.Sprintf("unknown category %q", p.Category)}
	}
	if p.Year != nil && (*p.Year < MinYear || *p.Year > MaxYear) {
		return &ValidationError{Field: "year", Reason: fmt.Sprintf("%d is not a 4-digit year", *p.Year)}
	}
	return nil
}

// IsForthcoming reports whether the publication has no year yet.
func (p Publication) IsForthcoming() bool {
	return p.Year == nil
}

// VenueFor returns the venue text for a language code.
// Spanish uses VenueES when set; every other language uses Venue.
func (p Publication) VenueFor(lang string) string {
	if lang == "es" && p.VenueES != "" {
		return p.VenueES
	}
	return p.Venue
}

// HasSlides reports whether a Slides link should be shown.
func (p Publication) HasSlides() bool {
	return p.Category == Workshop && p.SlidesLink != ""
}

// HasAbstract reports whether an Abstract link should be shown.
func (p Publication) HasAbstract() bool {
	return p.Category == Workshop && p.AbstractLink != ""
}

// YearPtr returns a pointer to y, for building dated publications.
func YearPtr(y int) *int {
	return &y
}
