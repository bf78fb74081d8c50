package main

import (
	"fmt"

	"github.com/guridi/pubsite/internal/i18n"
	"github.com/guridi/pubsite/internal/publication"
	"github.com/guridi/pubsite/internal/render"
	"github.com/spf13/cobra"
)

var (
	listCategory string
	listLang     string
)

func init() {
	listCmd.Flags().StringVarP(&listCategory, "category", "c", "", "Only list this category")
	listCmd.Flags().StringVar(&listLang, "lang", i18n.BaseLocale, "Language for headings and venues (en, es, or any tag like es-CL)")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List publications in page order",
	Long: `List publications grouped and sorted exactly as they appear on the page:
working papers first, then each category, forthcoming entries before the
most recent years.

Examples:
  pubs list --human
  pubs list --category workshop --lang es --human`,
	Args: cobra.NoArgs,
	RunE: runList,
}

// ListSection is one category of the list output.
type ListSection struct {
	Category     publication.Category      `json:"category"`
	Heading      string                    `json:"heading"`
	Publications []publication.Publication `json:"publications"`
}

func runList(cmd *cobra.Command, args []string) error {
	var only publication.Category
	if listCategory != "" {
		c, err := publication.ParseCategory(listCategory)
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}
		only = c
	}

	cfg := mustLoadSite()
	pubs := mustLoadPublications(cfg)

	sections, err := buildListSections(pubs, i18n.Default().Match(listLang), only)
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}

	if !humanOutput {
		return outputJSON(sections)
	}
	if len(sections) == 0 {
		fmt.Println("No publications.")
		return nil
	}
	for i, s := range sections {
		if i > 0 {
			fmt.Println()
		}
		fmt.Printf("%s (%d)\n", s.Heading, len(s.Publications))
		fmt.Println(publicationTable(s.Publications))
	}
	return nil
}

// buildListSections groups pubs as the page does. Venues are resolved for
// lang; only restricts the output to one category when non-empty.
func buildListSections(pubs []publication.Publication, lang string, only publication.Category) ([]ListSection, error) {
	buckets, err := render.Group(pubs)
	if err != nil {
		return nil, err
	}

	catalog := i18n.Default()
	sections := []ListSection{}
	for _, b := range buckets {
		if only != "" && b.Category != only {
			continue
		}
		items := make([]publication.Publication, len(b.Pubs))
		for i, p := range b.Pubs {
			p.Venue = p.VenueFor(lang)
			p.VenueES = ""
			items[i] = p
		}
		sections = append(sections, ListSection{
			Category:     b.Category,
			Heading:      catalog.T(lang, "category."+string(b.Category)+".heading"),
			Publications: items,
		})
	}
	return sections, nil
}
