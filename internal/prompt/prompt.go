// Package prompt collects a new publication record field by field from an
// interactive session.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/guridi/pubsite/internal/i18n"
	"github.com/guridi/pubsite/internal/publication"
)

// ErrAborted is returned when input ends before every required field is read.
var ErrAborted = errors.New("input ended before the publication was complete")

// Prompter asks questions on out and reads answers from in.
type Prompter struct {
	in      *bufio.Reader
	out     io.Writer
	catalog *i18n.Catalog
}

// New returns a Prompter. Labels come from the English catalog.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out, catalog: i18n.Default()}
}

// readLine returns the next trimmed line. A final line without a newline is
// still returned; ErrAborted is returned only when nothing is left.
func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrAborted
		}
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Required asks until a non-empty answer is given.
func (p *Prompter) Required(label string) (string, error) {
	for {
		fmt.Fprintf(p.out, "  %s: ", label)
		value, err := p.readLine()
		if err != nil {
			return "", err
		}
		if value != "" {
			return value, nil
		}
		fmt.Fprintln(p.out, "    This field is required.")
	}
}

// Optional asks once; an empty answer means the field is skipped.
func (p *Prompter) Optional(label string) (string, error) {
	fmt.Fprintf(p.out, "  %s (optional, press Enter to skip): ", label)
	return p.readLine()
}

// Category shows the numbered menu and asks until a listed number is chosen.
func (p *Prompter) Category() (publication.Category, error) {
	menu := publication.MenuCategories()
	for {
		fmt.Fprintln(p.out, "\n  Publication type:")
		for i, c := range menu {
			fmt.Fprintf(p.out, "    %d. %s\n", i+1, p.catalog.T(i18n.BaseLocale, "category."+string(c)+".singular"))
		}
		fmt.Fprintf(p.out, "  Enter number (1-%d): ", len(menu))

		choice, err := p.readLine()
		if err != nil {
			return "", err
		}
		n, convErr := strconv.Atoi(choice)
		if convErr == nil && n >= 1 && n <= len(menu) {
			return menu[n-1], nil
		}
		fmt.Fprintf(p.out, "    Invalid choice. Please enter 1-%d.\n", len(menu))
	}
}

// Year asks for an optional year; nil means forthcoming.
func (p *Prompter) Year() (*int, error) {
	for {
		value, err := p.Optional("Year (or press Enter for forthcoming)")
		if err != nil {
			return nil, err
		}
		if value == "" {
			return nil, nil
		}
		year, convErr := strconv.Atoi(value)
		if convErr == nil && year >= publication.MinYear && year <= publication.MaxYear {
			return &year, nil
		}
		fmt.Fprintln(p.out, "    Please enter a valid year number.")
	}
}

// SplitAuthors splits a comma-separated author list, dropping blanks.
func SplitAuthors(s string) []string {
	var authors []string
	for _, a := range strings.Split(s, ",") {
		if a = strings.TrimSpace(a); a != "" {
			authors = append(authors, a)
		}
	}
	return authors
}

// Publication runs the full entry flow in field order: title, authors, venue,
// Spanish venue, category, year, URL, and for workshops the abstract and
// slides links.
func (p *Prompter) Publication() (publication.Publication, error) {
	var pub publication.Publication
	var err error

	fmt.Fprintln(p.out, "\n=== Add New Publication ===")
	fmt.Fprintln(p.out)

	if pub.Title, err = p.Required("Title"); err != nil {
		return pub, err
	}

	for len(pub.Authors) == 0 {
		authors, err := p.Required("Authors (comma-separated)")
		if err != nil {
			return pub, err
		}
		pub.Authors = SplitAuthors(authors)
		if len(pub.Authors) == 0 {
			fmt.Fprintln(p.out, "    This field is required.")
		}
	}

	if pub.Venue, err = p.Required("Venue (e.g., 'Research Policy, 49(2), 2020')"); err != nil {
		return pub, err
	}
	if pub.VenueES, err = p.Optional("Venue (Spanish override)"); err != nil {
		return pub, err
	}
	if pub.Category, err = p.Category(); err != nil {
		return pub, err
	}
	if pub.Year, err = p.Year(); err != nil {
		return pub, err
	}
	if pub.URL, err = p.Optional("URL (DOI or link)"); err != nil {
		return pub, err
	}

	if pub.Category == publication.Workshop {
		if pub.AbstractLink, err = p.Optional("Abstract link"); err != nil {
			return pub, err
		}
		if pub.SlidesLink, err = p.Optional("Slides link"); err != nil {
			return pub, err
		}
	}

	return pub, nil
}
