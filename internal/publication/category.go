package publication

import (
	"fmt"
	"strings"
)

// Category is the fixed classification of a publication.
type Category string

const (
	WorkingPaper       Category = "working-paper"
	Journal            Category = "journal"
	ArchivalConference Category = "archival-conference"
	Workshop           Category = "workshop"
	BookChapter        Category = "book-chapter"
	PolicyReport       Category = "policy-report"
)

// renderOrder is the order sections appear on the page.
var renderOrder = []Category{
	WorkingPaper,
	Journal,
	ArchivalConference,
	Workshop,
	BookChapter,
	PolicyReport,
}

// Categories returns every category in page order, working papers first.
func Categories() []Category {
	out := make([]Category, len(renderOrder))
	copy(out, renderOrder)
	return out
}

// MenuCategories returns the categories offered by the numbered entry menu (1-5).
func MenuCategories() []Category {
	return Categories()[1:]
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range renderOrder {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory converts a string to a Category, accepting surrounding
// whitespace and any letter case.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("invalid category %q (valid: %s)", s, categoryList())
	}
	return c, nil
}

func categoryList() string {
	names := make([]string, len(renderOrder))
	for i, c := range renderOrder {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
