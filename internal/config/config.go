// Package config handles site configuration and site-root discovery.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	ConfigFile      = "pubsite.yml"
	DefaultDataFile = "publications.json"
	DefaultOutputEN = "publications.html"
	DefaultOutputES = "es/publications.html"
	DefaultStyle    = "style.css"
	DefaultCVPath   = "CV/Jose_Guridi_CV.pdf"
)

// ErrSiteNotFound is returned when no site root exists above a directory.
var ErrSiteNotFound = errors.New("not in a site directory (no " + ConfigFile + " or " + DefaultDataFile + " found)")

// Config represents site configuration stored in pubsite.yml.
// All paths are relative to the site root.
type Config struct {
	DataFile   string `yaml:"data_file"`
	OutputEN   string `yaml:"output_en"`
	OutputES   string `yaml:"output_es"`
	Owner      string `yaml:"owner"`       // Name shown in nav, title and footer
	FooterYear int    `yaml:"footer_year"` // 0 means the current year
	Stylesheet string `yaml:"stylesheet"`
	CVPath     string `yaml:"cv_path"`

	// Root is the absolute site directory; set by Load.
	Root string `yaml:"-"`
}

// Default returns the configuration used when pubsite.yml is absent.
func Default() *Config {
	return &Config{
		DataFile:   DefaultDataFile,
		OutputEN:   DefaultOutputEN,
		OutputES:   DefaultOutputES,
		Stylesheet: DefaultStyle,
		CVPath:     DefaultCVPath,
	}
}

// ConfigPath returns the path to pubsite.yml from a root path.
func ConfigPath(root string) string {
	return filepath.Join(root, ConfigFile)
}

// IsSite checks if the given directory holds a site config or data file.
func IsSite(root string) bool {
	for _, name := range []string{ConfigFile, DefaultDataFile} {
		if info, err := os.Stat(filepath.Join(root, name)); err == nil && !info.IsDir() {
			return true
		}
	}
	return false
}

// FindSite walks up from the given path to find a site root.
func FindSite(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsSite(abs) {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", ErrSiteNotFound
		}
		abs = parent
	}
}

// Load reads pubsite.yml from root, filling unset fields with defaults.
// A missing file yields the defaults.
func Load(root string) (*Config, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving site root: %w", err)
	}

	cfg := Default()
	data, err := os.ReadFile(ConfigPath(abs))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg.fillDefaults()
	cfg.Root = abs

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) fillDefaults() {
	d := Default()
	if c.DataFile == "" {
		c.DataFile = d.DataFile
	}
	if c.OutputEN == "" {
		c.OutputEN = d.OutputEN
	}
	if c.OutputES == "" {
		c.OutputES = d.OutputES
	}
	if c.Stylesheet == "" {
		c.Stylesheet = d.Stylesheet
	}
	if c.CVPath == "" {
		c.CVPath = d.CVPath
	}
	if c.FooterYear == 0 {
		c.FooterYear = time.Now().Year()
	}
}

// Validate checks that the configured paths can be used together.
func (c *Config) Validate() error {
	for name, p := range map[string]string{"data_file": c.DataFile, "output_en": c.OutputEN, "output_es": c.OutputES} {
		if filepath.IsAbs(p) {
			return fmt.Errorf("invalid %s: %s must be relative to the site root", name, p)
		}
	}
	if filepath.Clean(c.OutputEN) == filepath.Clean(c.OutputES) {
		return fmt.Errorf("invalid config: output_en and output_es are both %s", c.OutputEN)
	}
	if filepath.Clean(c.DataFile) == filepath.Clean(c.OutputEN) || filepath.Clean(c.DataFile) == filepath.Clean(c.OutputES) {
		return fmt.Errorf("invalid config: data_file %s would be overwritten by an output page", c.DataFile)
	}
	return nil
}

// Path joins a site-relative path onto Root.
func (c *Config) Path(rel string) string {
	return filepath.Join(c.Root, rel)
}

// DataPath returns the absolute path of the publications data file.
func (c *Config) DataPath() string {
	return c.Path(c.DataFile)
}
