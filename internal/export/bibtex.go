// Package export provides functions to export publications to other formats.
package export

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/guridi/pubsite/internal/publication"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ToBibTeX converts a publication to a BibTeX entry with the given key.
func ToBibTeX(p publication.Publication, key string) string {
	entryType := determineEntryType(p.Category)
	var b strings.Builder

	b.WriteString(fmt.Sprintf("@%s{%s,\n", entryType, key))

	if len(p.Authors) > 0 {
		b.WriteString(fmt.Sprintf("  author = {%s},\n", formatAuthors(p.Authors)))
	}

	b.WriteString(fmt.Sprintf("  title = {%s},\n", escapeLatex(p.Title)))

	if p.Venue != "" {
		b.WriteString(fmt.Sprintf("  %s = {%s},\n", venueField(entryType), escapeLatex(p.Venue)))
	}

	if p.Year != nil {
		b.WriteString(fmt.Sprintf("  year = {%d},\n", *p.Year))
	} else {
		b.WriteString("  pubstate = {forthcoming},\n")
	}

	if p.URL != "" {
		b.WriteString(fmt.Sprintf("  url = {%s},\n", p.URL))
	}

	b.WriteString("}\n")

	return b.String()
}

// ToBibTeXList converts publications to BibTeX, assigning unique citation keys
// in input order.
func ToBibTeXList(pubs []publication.Publication) string {
	used := make(map[string]bool)
	var entries []string
	for _, p := range pubs {
		key := uniqueKey(used, CitationKey(p))
		entries = append(entries, ToBibTeX(p, key))
	}
	return strings.Join(entries, "\n")
}

// CitationKey builds a key from the first author's last name, the year
// ("forthcoming" when absent) and the first significant title word, folded to
// ASCII: "José Núñez", 2021, "The Ética of Data" -> "Nunez2021etica".
func CitationKey(p publication.Publication) string {
	last := "anon"
	if len(p.Authors) > 0 {
		if fields := strings.Fields(p.Authors[0]); len(fields) > 0 {
			last = fields[len(fields)-1]
		}
	}

	year := "forthcoming"
	if p.Year != nil {
		year = strconv.Itoa(*p.Year)
	}

	word := ""
	for _, w := range strings.Fields(p.Title) {
		w = strings.ToLower(keyChars(w))
		if w != "" && !stopWords[w] {
			word = w
			break
		}
	}

	return keyChars(last) + year + word
}

var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "of": true, "on": true, "in": true,
	"el": true, "la": true, "los": true, "las": true, "un": true, "una": true, "de": true,
}

// keyChars strips accents and drops everything but ASCII letters and digits.
func keyChars(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	var b strings.Builder
	for _, r := range folded {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// uniqueKey returns base, or base-2, base-3, ... if already used.
func uniqueKey(used map[string]bool, base string) string {
	key := base
	// Start at 2: base is taken, so first duplicate becomes base-2
	for i := 2; used[key]; i++ {
		key = fmt.Sprintf("%s-%d", base, i)
	}
	used[key] = true
	return key
}

// determineEntryType returns the BibTeX entry type for a category.
func determineEntryType(c publication.Category) string {
	switch c {
	case publication.Journal:
		return "article"
	case publication.ArchivalConference, publication.Workshop:
		return "inproceedings"
	case publication.BookChapter:
		return "incollection"
	case publication.PolicyReport:
		return "techreport"
	default:
		return "unpublished"
	}
}

func venueField(entryType string) string {
	switch entryType {
	case "article":
		return "journal"
	case "inproceedings", "incollection":
		return "booktitle"
	case "techreport":
		return "institution"
	default:
		return "note"
	}
}

// formatAuthors formats authors in BibTeX style: "Last, First and Last, First".
// The last word of each name is taken as the family name.
func formatAuthors(authors []string) string {
	formatted := make([]string, 0, len(authors))
	for _, a := range authors {
		fields := strings.Fields(a)
		switch len(fields) {
		case 0:
			continue
		case 1:
			formatted = append(formatted, escapeLatex(fields[0]))
		default:
			last := fields[len(fields)-1]
			first := strings.Join(fields[:len(fields)-1], " ")
			formatted = append(formatted, escapeLatex(last+", "+first))
		}
	}
	return strings.Join(formatted, " and ")
}

// escapeLatex escapes special LaTeX characters.
func escapeLatex(s string) string {
	// Order matters: & must be first (before other escapes that might produce &)
	replacer := strings.NewReplacer(
		"&", `\&`,
		"%", `\%`,
		"$", `\$`,
		"#", `\#`,
		"_", `\_`,
		"{", `\{`,
		"}", `\}`,
		"~", `\textasciitilde{}`,
		"^", `\textasciicircum{}`,
	)
	return replacer.Replace(s)
}
