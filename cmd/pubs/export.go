package main

import (
	"fmt"

	"github.com/guridi/pubsite/internal/export"
	"github.com/guridi/pubsite/internal/publication"
	"github.com/guridi/pubsite/internal/render"
	"github.com/spf13/cobra"
)

var (
	exportBibtex   bool
	exportCategory string
)

func init() {
	exportCmd.Flags().BoolVar(&exportBibtex, "bibtex", false, "Export to BibTeX format")
	exportCmd.Flags().StringVarP(&exportCategory, "category", "c", "", "Export only this category")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export publications to BibTeX format",
	Long: `Export publications to BibTeX format, in page order.

Examples:
  pubs export --bibtex
  pubs export --bibtex --category journal > journal.bib`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	if !exportBibtex {
		exitWithError(ExitError, "--bibtex flag is required")
	}

	var only publication.Category
	if exportCategory != "" {
		c, err := publication.ParseCategory(exportCategory)
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}
		only = c
	}

	cfg := mustLoadSite()
	pubs := mustLoadPublications(cfg)

	ordered, err := pageOrder(pubs, only)
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}

	// BibTeX is always text output, never JSON
	fmt.Print(export.ToBibTeXList(ordered))
	return nil
}

// pageOrder flattens pubs into the order they appear on the page.
func pageOrder(pubs []publication.Publication, only publication.Category) ([]publication.Publication, error) {
	buckets, err := render.Group(pubs)
	if err != nil {
		return nil, err
	}
	var out []publication.Publication
	for _, b := range buckets {
		if only == "" || b.Category == only {
			out = append(out, b.Pubs...)
		}
	}
	return out, nil
}
