// Package i18n holds the English and Spanish label catalogs used on the
// generated pages and in the CLI.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// BaseLocale is the fallback locale; every other catalog must define the
// same keys.
const BaseLocale = "en"

type catalogFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// Catalog stores messages for every supported locale.
type Catalog struct {
	locales map[string]map[string]string
	tags    []language.Tag // BaseLocale first
	matcher language.Matcher
}

//go:embed locales/*.yaml
var embeddedFS embed.FS

var defaultCatalog = mustLoadEmbedded()

// Default returns the process-wide embedded catalog.
func Default() *Catalog {
	return defaultCatalog
}

// LoadEmbedded loads the catalogs compiled into the binary.
func LoadEmbedded() (*Catalog, error) {
	return LoadFromFS(embeddedFS)
}

// LoadFromFS loads every locales/*.yaml file in fsys.
func LoadFromFS(fsys fs.FS) (*Catalog, error) {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	c := &Catalog{locales: map[string]map[string]string{}}
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", p, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", p, err)
		}
		if err := c.add(p, file); err != nil {
			return nil, err
		}
	}

	base, ok := c.locales[BaseLocale]
	if !ok {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", BaseLocale)
	}
	for _, locale := range c.Locales() {
		for key := range base {
			if _, ok := c.locales[locale][key]; !ok {
				return nil, fmt.Errorf("catalog %s: missing key %q", locale, key)
			}
		}
	}

	c.tags = []language.Tag{language.Make(BaseLocale)}
	for _, locale := range c.Locales() {
		if locale != BaseLocale {
			c.tags = append(c.tags, language.Make(locale))
		}
	}
	c.matcher = language.NewMatcher(c.tags)
	return c, nil
}

func (c *Catalog) add(p string, file catalogFile) error {
	locale := strings.TrimSpace(file.Locale)
	if locale == "" {
		return fmt.Errorf("catalog %s: locale is required", p)
	}
	fromPath := strings.TrimSuffix(path.Base(p), path.Ext(p))
	if locale != fromPath {
		return fmt.Errorf("catalog %s: locale %q must match file name %q", p, locale, fromPath)
	}
	if _, err := language.Parse(locale); err != nil {
		return fmt.Errorf("catalog %s: parse locale tag %q: %w", p, locale, err)
	}
	if len(file.Messages) == 0 {
		return fmt.Errorf("catalog %s: messages map is required", p)
	}

	messages := make(map[string]string, len(file.Messages))
	for key, value := range file.Messages {
		trimmed := strings.TrimSpace(key)
		if trimmed == "" {
			return fmt.Errorf("catalog %s: message key cannot be blank", p)
		}
		messages[trimmed] = value
	}
	c.locales[locale] = messages
	return nil
}

// Locales returns the available locale identifiers, sorted.
func (c *Catalog) Locales() []string {
	out := make([]string, 0, len(c.locales))
	for locale := range c.locales {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// HasLocale reports whether locale has its own catalog.
func (c *Catalog) HasLocale(locale string) bool {
	_, ok := c.locales[locale]
	return ok
}

// Match maps any BCP 47 tag ("es-CL", "en_US", "ES") to the closest supported
// locale. Unparseable input yields BaseLocale.
func (c *Catalog) Match(tag string) string {
	t, err := language.Parse(strings.ReplaceAll(strings.TrimSpace(tag), "_", "-"))
	if err != nil {
		return BaseLocale
	}
	_, idx, conf := c.matcher.Match(t)
	if conf == language.No {
		return BaseLocale
	}
	base, _ := c.tags[idx].Base()
	return base.String()
}

// T returns the message for key in locale, falling back to BaseLocale and
// finally to the key itself.
func (c *Catalog) T(locale, key string) string {
	if messages, ok := c.locales[locale]; ok {
		if value, ok := messages[key]; ok {
			return value
		}
	}
	if value, ok := c.locales[BaseLocale][key]; ok {
		return value
	}
	return key
}

func mustLoadEmbedded() *Catalog {
	c, err := LoadEmbedded()
	if err != nil {
		panic(err)
	}
	return c
}
