package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/guridi/pubsite/internal/config"
	"github.com/guridi/pubsite/internal/prompt"
	"github.com/guridi/pubsite/internal/publication"
	"github.com/guridi/pubsite/internal/storage"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func init() {
	rootCmd.AddCommand(addCmd)
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a publication interactively",
	Long: `Prompt for a new publication, append it to publications.json and
regenerate both pages.

Fields are asked in order: title, authors (comma-separated), venue, optional
Spanish venue, publication type, optional year (empty means forthcoming),
optional URL, and for workshops the optional abstract and slides links.

When stdin is not a terminal the prompts go to stderr, so answers can be
piped in and the result read from stdout.`,
	Args: cobra.NoArgs,
	RunE: runAdd,
}

// AddResult is the response for the add command.
type AddResult struct {
	Status       string                  `json:"status"`
	DataFile     string                  `json:"data_file"`
	Publication  publication.Publication `json:"publication"`
	Publications int                     `json:"publications"`
	Pages        []string                `json:"pages"`
}

func runAdd(cmd *cobra.Command, args []string) error {
	cfg := mustLoadSite()

	in := cmd.InOrStdin()
	pub, err := prompt.New(in, promptWriter(in, cmd)).Publication()
	if err != nil {
		if errors.Is(err, prompt.ErrAborted) {
			exitWithError(ExitError, "aborted: %v", err)
		}
		exitWithError(ExitError, "%v", err)
	}

	result, err := addPublication(cfg, pub)
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}

	if humanOutput {
		fmt.Printf("\nAdded to %s\n", result.DataFile)
		fmt.Println("Regenerating HTML...")
		for _, p := range result.Pages {
			fmt.Printf("Generated %s\n", p)
		}
		fmt.Println("\nDone! Review the changes and commit when ready.")
		return nil
	}
	return outputJSON(result)
}

// promptWriter keeps prompts off stdout unless a person is typing.
func promptWriter(in io.Reader, cmd *cobra.Command) io.Writer {
	if f, ok := in.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return cmd.OutOrStdout()
	}
	return cmd.ErrOrStderr()
}

// addPublication appends pub to the data file and regenerates the pages.
// The record is persisted even if generation then fails.
func addPublication(cfg *config.Config, pub publication.Publication) (AddResult, error) {
	store := storage.NewStore(cfg.DataPath(), logger)
	count, err := store.Append(pub)
	if err != nil {
		return AddResult{}, err
	}
	logger.Info("publication added", zap.String("title", pub.Title), zap.Int("total", count))

	gen, err := generateSite(cfg)
	if err != nil {
		return AddResult{}, fmt.Errorf("publication saved but regeneration failed: %w", err)
	}
	return AddResult{Status: "added", DataFile: store.Path(), Publication: pub, Publications: count, Pages: gen.Pages}, nil
}
