// Package render turns publication records into the bilingual publications
// pages.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"path"
	"path/filepath"

	"github.com/guridi/pubsite/internal/config"
	"github.com/guridi/pubsite/internal/i18n"
	"github.com/guridi/pubsite/internal/publication"
)

// Languages lists the page languages, in generation order.
var Languages = []string{"en", "es"}

// Options configures page rendering. Paths are relative to the site root.
type Options struct {
	Owner      string
	FooterYear int
	Stylesheet string
	CVPath     string
	OutputEN   string
	OutputES   string
	Catalog    *i18n.Catalog // nil means i18n.Default()
}

// OptionsFromConfig builds render options from site configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Owner:      cfg.Owner,
		FooterYear: cfg.FooterYear,
		Stylesheet: cfg.Stylesheet,
		CVPath:     cfg.CVPath,
		OutputEN:   cfg.OutputEN,
		OutputES:   cfg.OutputES,
	}
}

func (o Options) catalog() *i18n.Catalog {
	if o.Catalog != nil {
		return o.Catalog
	}
	return i18n.Default()
}

// OutputFor returns the site-relative output path for lang.
func (o Options) OutputFor(lang string) string {
	if lang == "es" {
		return o.OutputES
	}
	return o.OutputEN
}

// Render produces the complete publications page for lang ("en" or "es").
// Any invalid record aborts rendering.
func Render(pubs []publication.Publication, lang string, opts Options) ([]byte, error) {
	if !opts.catalog().HasLocale(lang) {
		return nil, fmt.Errorf("unsupported language %q", lang)
	}

	buckets, err := Group(pubs)
	if err != nil {
		return nil, err
	}

	data := buildPageData(buckets, lang, opts)

	var buf bytes.Buffer
	if err := compiledTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing %s template: %w", lang, err)
	}
	return buf.Bytes(), nil
}

func buildPageData(buckets []Bucket, lang string, opts Options) pageData {
	cat := opts.catalog()
	page := opts.OutputFor(lang)

	data := pageData{
		Lang:        lang,
		Title:       cat.T(lang, "page.title"),
		Heading:     cat.T(lang, "page.heading"),
		Owner:       opts.Owner,
		FooterYear:  opts.FooterYear,
		StyleHref:   relativeLink(page, opts.Stylesheet),
		SkipLabel:   cat.T(lang, "nav.skip"),
		NavLabel:    cat.T(lang, "nav.label"),
		MenuLabel:   cat.T(lang, "nav.menu"),
		FilterLabel: cat.T(lang, "filter.label"),
		AllLabel:    cat.T(lang, "filter.all"),
		Nav: []navLink{
			{Href: "index.html#" + cat.T(lang, "nav.about.anchor"), Label: cat.T(lang, "nav.about")},
			{Href: "news.html", Label: cat.T(lang, "nav.news")},
			{Href: path.Base(filepath.ToSlash(page)), Label: cat.T(lang, "nav.publications")},
			{Href: "projects.html", Label: cat.T(lang, "nav.projects")},
			{Href: relativeLink(page, opts.CVPath), Label: cat.T(lang, "nav.cv"), NewTab: true},
			{Href: "index.html#" + cat.T(lang, "nav.contact.anchor"), Label: cat.T(lang, "nav.contact")},
		},
	}
	if lang == "es" {
		data.EnglishHref = relativeLink(page, opts.OutputEN)
	} else {
		data.SpanishHref = relativeLink(page, opts.OutputES)
	}

	for _, c := range publication.Categories() {
		data.Filters = append(data.Filters, filterButton{
			Category: string(c),
			Label:    cat.T(lang, "category."+string(c)+".filter"),
		})
	}

	for _, b := range buckets {
		s := section{
			Category: string(b.Category),
			Heading:  cat.T(lang, "category."+string(b.Category)+".heading"),
			Items:    template.HTML(renderItems(b.Pubs, lang, cat)),
		}
		if b.Category == publication.WorkingPaper {
			data.Featured = &s
			continue
		}
		data.Sections = append(data.Sections, s)
	}

	return data
}

// relativeLink returns target as seen from the directory holding page.
// Both paths are site-relative.
func relativeLink(page, target string) string {
	rel, err := filepath.Rel(filepath.Dir(page), target)
	if err != nil {
		return filepath.ToSlash(target)
	}
	return filepath.ToSlash(rel)
}
