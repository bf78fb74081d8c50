package render

import (
	"html"
	"strings"

	"github.com/guridi/pubsite/internal/i18n"
	"github.com/guridi/pubsite/internal/publication"
)

const itemIndent = "                    "

// textEscaper escapes text content but leaves quotes literal, so titles like
// "Citizens' Assemblies" read naturally in the page source.
var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

// escapeText escapes a text node.
func escapeText(s string) string {
	return textEscaper.Replace(s)
}

// escapeAttr escapes a double-quoted attribute value.
func escapeAttr(s string) string {
	return html.EscapeString(s)
}

// renderItem renders one publication as a self-contained pub-item block.
func renderItem(p publication.Publication, lang string, cat *i18n.Catalog) string {
	in := itemIndent
	var b strings.Builder

	b.WriteString(in + `<div class="pub-item">` + "\n")

	title := escapeText(p.Title)
	if p.URL != "" {
		b.WriteString(in + `    <p class="pub-title"><a href="` + escapeAttr(p.URL) + `" target="_blank" rel="noopener">` + title + "</a></p>\n")
	} else {
		b.WriteString(in + `    <p class="pub-title">` + title + "</p>\n")
	}

	b.WriteString(in + `    <p class="pub-authors">` + escapeText(strings.Join(p.Authors, ", ")) + "</p>\n")
	b.WriteString(in + `    <p class="pub-venue">` + escapeText(p.VenueFor(lang)) + "</p>\n")

	var links []string
	if p.HasAbstract() {
		links = append(links, `<a href="`+escapeAttr(p.AbstractLink)+`">`+escapeText(cat.T(lang, "link.abstract"))+"</a>")
	}
	if p.HasSlides() {
		links = append(links, `<a href="`+escapeAttr(p.SlidesLink)+`">`+escapeText(cat.T(lang, "link.slides"))+"</a>")
	}
	if len(links) > 0 {
		b.WriteString(in + `    <p class="pub-links">` + strings.Join(links, " | ") + "</p>\n")
	}

	b.WriteString(in + "</div>")
	return b.String()
}

// renderItems renders a bucket's items separated by blank lines.
func renderItems(pubs []publication.Publication, lang string, cat *i18n.Catalog) string {
	items := make([]string, len(pubs))
	for i, p := range pubs {
		items[i] = renderItem(p, lang, cat)
	}
	return strings.Join(items, "\n\n")
}
