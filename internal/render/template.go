package render

import "html/template"

// compiledTemplate is parsed at init time to fail fast on template errors.
var compiledTemplate = template.Must(template.New("page").Parse(pageTemplate))

// section is one category block on the page.
type section struct {
	Category string
	Heading  string
	Items    template.HTML
}

// filterButton is one entry in the filter toolbar.
type filterButton struct {
	Category string
	Label    string
}

// navLink is one entry in the header navigation.
type navLink struct {
	Href   string
	Label  string
	NewTab bool
}

// pageData holds data for the page template.
type pageData struct {
	Lang        string
	Title       string
	Heading     string
	Owner       string
	FooterYear  int
	StyleHref   string
	SkipLabel   string
	NavLabel    string
	MenuLabel   string
	Nav         []navLink
	EnglishHref string // empty on the English page
	SpanishHref string // empty on the Spanish page
	FilterLabel string
	AllLabel    string
	Filters     []filterButton
	Featured    *section // working papers, rendered before the category list
	Sections    []section
}

const pageTemplate = `<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Title}}{{if .Owner}} | {{.Owner}}{{end}}</title>
    <link rel="stylesheet" href="{{.StyleHref}}">
    <link rel="preconnect" href="https://fonts.googleapis.com">
    <link rel="preconnect" href="https://fonts.gstatic.com" crossorigin>
    <link href="https://fonts.googleapis.com/css2?family=Source+Sans+3:ital,wght@0,300;0,400;0,600;0,700;1,400&family=Source+Serif+4:ital,wght@0,400;0,600;0,700;1,400&display=swap" rel="stylesheet">
</head>
<body>
    <a class="skip-link" href="#main">{{.SkipLabel}}</a>
    <header>
        <nav aria-label="{{.NavLabel}}">
{{- if .Owner}}
            <a href="index.html" class="nav-name">{{.Owner}}</a>
{{- end}}
            <button type="button" class="nav-toggle" aria-expanded="false" aria-controls="nav-links" aria-label="{{.MenuLabel}}">&#9776;</button>
            <div class="nav-links" id="nav-links">
{{- range .Nav}}
                <a href="{{.Href}}"{{if .NewTab}} target="_blank" rel="noopener"{{end}}>{{.Label}}</a>
{{- end}}
                <span class="lang-switch">{{if .EnglishHref}}<a href="{{.EnglishHref}}" hreflang="en">EN</a>{{else}}<span class="active-lang">EN</span>{{end}} / {{if .SpanishHref}}<a href="{{.SpanishHref}}" hreflang="es">ES</a>{{else}}<span class="active-lang">ES</span>{{end}}</span>
            </div>
        </nav>
    </header>

    <main id="main">
        <section class="section" style="border-bottom: none;">
            <h2>{{.Heading}}</h2>
            <div class="pub-filters" role="group" aria-label="{{.FilterLabel}}">
                <button type="button" class="pub-filter active" data-filter="all" aria-pressed="true">{{.AllLabel}}</button>
{{- range .Filters}}
                <button type="button" class="pub-filter" data-filter="{{.Category}}" aria-pressed="false">{{.Label}}</button>
{{- end}}
            </div>
{{with .Featured}}
            <div class="pub-section pub-section-featured" data-category="{{.Category}}">
                <h3 class="pub-category">{{.Heading}}</h3>
                <div class="pub-list">
{{.Items}}
                </div>
            </div>
{{end}}
{{- range .Sections}}
            <div class="pub-section" data-category="{{.Category}}">
                <h3 class="pub-category">{{.Heading}}</h3>
                <div class="pub-list">
{{.Items}}
                </div>
            </div>
{{end}}
        </section>
    </main>

    <footer>
        <p>&copy; {{.FooterYear}}{{if .Owner}} {{.Owner}}{{end}}</p>
    </footer>

    <script>
    (function () {
        var toggle = document.querySelector('.nav-toggle');
        var links = document.getElementById('nav-links');
        if (toggle && links) {
            toggle.addEventListener('click', function () {
                var open = links.classList.toggle('open');
                toggle.setAttribute('aria-expanded', open ? 'true' : 'false');
            });
        }

        var buttons = document.querySelectorAll('.pub-filter');
        var sections = document.querySelectorAll('.pub-section');
        buttons.forEach(function (button) {
            button.addEventListener('click', function () {
                var filter = button.getAttribute('data-filter');
                buttons.forEach(function (other) {
                    var active = other === button;
                    other.classList.toggle('active', active);
                    other.setAttribute('aria-pressed', active ? 'true' : 'false');
                });
                sections.forEach(function (section) {
                    section.hidden = filter !== 'all' && section.getAttribute('data-category') !== filter;
                });
            });
        });
    })();
    </script>
</body>
</html>
`
