package render

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/guridi/pubsite/internal/publication"
	"go.uber.org/zap"
)

// Generate renders every language and writes the pages under root.
// Nothing is written unless all pages render. Returns the written paths.
func Generate(root string, pubs []publication.Publication, opts Options, log *zap.Logger) ([]string, error) {
	if log == nil {
		log = zap.NewNop()
	}

	if opts.Owner == "" {
		log.Warn("owner is not set; pages render without a site name (set owner in pubsite.yml)")
	}

	pages := make(map[string][]byte, len(Languages))
	for _, lang := range Languages {
		out, err := Render(pubs, lang, opts)
		if err != nil {
			return nil, err
		}
		pages[lang] = out
	}

	var written []string
	for _, lang := range Languages {
		p := filepath.Join(root, opts.OutputFor(lang))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			return written, fmt.Errorf("creating output directory for %s: %w", p, err)
		}
		if err := os.WriteFile(p, pages[lang], 0644); err != nil {
			return written, fmt.Errorf("writing %s: %w", p, err)
		}
		log.Info("generated page", zap.String("lang", lang), zap.String("path", p), zap.Int("bytes", len(pages[lang])))
		written = append(written, p)
	}
	return written, nil
}
