// Package main provides the pubs CLI entry point.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/guridi/pubsite/internal/config"
	"github.com/guridi/pubsite/internal/publication"
	"github.com/guridi/pubsite/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Version is set at build time via ldflags
var Version = "dev"

var (
	// humanOutput controls whether to use human-readable output
	humanOutput bool
	siteRoot    string
	verbose     bool

	logger = zap.NewNop()
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pubs",
	Short: "Publications page generator",
	Long: `pubs renders the bilingual publications pages of an academic website
from publications.json.

  pubs generate   rewrite publications.html and es/publications.html
  pubs add        enter a new publication interactively, then regenerate

publications.json is the source of truth; the HTML pages are always rebuilt
from scratch. Commands output JSON by default; use --human for text.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&siteRoot, "root", "", "Site directory (default: search upward from the current directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging on stderr")
	rootCmd.Version = Version
}

// findSite returns the site root: --root when given, otherwise the nearest
// directory at or above the working directory holding pubsite.yml or
// publications.json.
func findSite() (string, error) {
	if siteRoot != "" {
		info, err := os.Stat(siteRoot)
		if err != nil {
			return "", fmt.Errorf("site root: %w", err)
		}
		if !info.IsDir() {
			return "", fmt.Errorf("site root %s is not a directory", siteRoot)
		}
		return siteRoot, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting current directory: %w", err)
	}
	return config.FindSite(cwd)
}

// mustLoadSite finds the site and loads its configuration, exits on error.
func mustLoadSite() *config.Config {
	root, err := findSite()
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	cfg, err := config.Load(root)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	logger.Debug("site loaded", zap.String("root", cfg.Root), zap.String("data", cfg.DataFile))
	return cfg
}

// mustLoadPublications loads and validates the data file, exits on error.
func mustLoadPublications(cfg *config.Config) []publication.Publication {
	pubs, err := storage.NewStore(cfg.DataPath(), logger).Load()
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}
	return pubs
}

// exitCodeFor maps an error to its exit code class.
func exitCodeFor(err error) int {
	var verr *publication.ValidationError
	switch {
	case errors.Is(err, storage.ErrInvalidInput), errors.As(err, &verr):
		return ExitDataError
	case errors.Is(err, config.ErrSiteNotFound):
		return ExitConfigError
	default:
		return ExitError
	}
}
