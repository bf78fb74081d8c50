package main

import (
	"fmt"

	"github.com/guridi/pubsite/internal/config"
	"github.com/guridi/pubsite/internal/render"
	"github.com/guridi/pubsite/internal/storage"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(generateCmd)
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Render the publications pages",
	Long: `Render publications.html and es/publications.html from publications.json.

Both pages are rebuilt from scratch on every run. Nothing is written if any
record is invalid.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

// GenerateResult is the response for the generate command.
type GenerateResult struct {
	Status       string   `json:"status"`
	Publications int      `json:"publications"`
	Pages        []string `json:"pages"`
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg := mustLoadSite()

	result, err := generateSite(cfg)
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}

	if humanOutput {
		for _, p := range result.Pages {
			fmt.Printf("Generated %s\n", p)
		}
		return nil
	}
	return outputJSON(result)
}

// generateSite loads the data file and writes every language page.
func generateSite(cfg *config.Config) (GenerateResult, error) {
	pubs, err := storage.NewStore(cfg.DataPath(), logger).Load()
	if err != nil {
		return GenerateResult{}, err
	}

	pages, err := render.Generate(cfg.Root, pubs, render.OptionsFromConfig(cfg), logger)
	if err != nil {
		return GenerateResult{}, err
	}
	return GenerateResult{Status: "generated", Publications: len(pubs), Pages: pages}, nil
}
