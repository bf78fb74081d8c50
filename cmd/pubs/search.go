package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/guridi/pubsite/internal/publication"
	"github.com/guridi/pubsite/internal/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	searchAuthor      string
	searchCategory    string
	searchYear        string
	searchForthcoming bool
	searchLimit       int
)

func init() {
	searchCmd.Flags().StringVarP(&searchAuthor, "author", "a", "", "Filter by author name (prefix match)")
	searchCmd.Flags().StringVarP(&searchCategory, "category", "c", "", "Filter by category")
	searchCmd.Flags().StringVar(&searchYear, "year", "", "Filter by year (2024, 2020:2024, 2020:, :2024)")
	searchCmd.Flags().BoolVar(&searchForthcoming, "forthcoming", false, "Only forthcoming publications")
	searchCmd.Flags().IntVar(&searchLimit, "limit", DefaultSearchLimit, "Maximum results")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search publications by keyword",
	Long: `Search publications by keyword across title, authors and venue.

The query is optional when filters are given. Results keep data-file order.

Examples:
  pubs search governance
  pubs search --author Guridi --year 2020:2024
  pubs search --category workshop --forthcoming --human`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	filters, err := buildSearchFilters(args)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	cfg := mustLoadSite()
	pubs := mustLoadPublications(cfg)

	results, err := searchPublications(pubs, filters, searchLimit)
	if err != nil {
		exitWithError(ExitError, "search failed: %v", err)
	}

	if !humanOutput {
		return outputJSON(results)
	}
	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}
	fmt.Printf("Found %d publications:\n", len(results))
	fmt.Println(publicationTable(results))
	return nil
}

func buildSearchFilters(args []string) (storage.SearchFilters, error) {
	var filters storage.SearchFilters
	if len(args) > 0 {
		filters.Keyword = strings.TrimSpace(args[0])
	}
	filters.Author = strings.TrimSpace(searchAuthor)
	filters.Forthcoming = searchForthcoming

	if searchCategory != "" {
		c, err := publication.ParseCategory(searchCategory)
		if err != nil {
			return filters, err
		}
		filters.Category = c
	}

	from, to, err := parseYearRange(searchYear)
	if err != nil {
		return filters, err
	}
	filters.YearFrom, filters.YearTo = from, to

	if filters.Forthcoming && (from != 0 || to != 0) {
		return filters, fmt.Errorf("--forthcoming cannot be combined with --year")
	}
	return filters, nil
}

// searchPublications indexes pubs in a throwaway in-memory database and runs
// the query against it.
func searchPublications(pubs []publication.Publication, filters storage.SearchFilters, limit int) ([]publication.Publication, error) {
	db, err := storage.OpenMemoryDB()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	n, err := db.Rebuild(pubs)
	if err != nil {
		return nil, err
	}
	logger.Debug("search index built", zap.Int("publications", n))

	results, err := db.Search(filters, limit)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []publication.Publication{}
	}
	return results, nil
}

// parseYearRange parses a year specification into from/to values.
// Supported formats: "2024", "2020:2024", "2020:", ":2024"
func parseYearRange(spec string) (from, to int, err error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return 0, 0, nil
	}

	if strings.Contains(spec, ":") {
		parts := strings.SplitN(spec, ":", 2)

		if parts[0] != "" {
			from, err = strconv.Atoi(parts[0])
			if err != nil {
				return 0, 0, fmt.Errorf("invalid start year %q", parts[0])
			}
		}
		if parts[1] != "" {
			to, err = strconv.Atoi(parts[1])
			if err != nil {
				return 0, 0, fmt.Errorf("invalid end year %q", parts[1])
			}
		}
		if from != 0 && to != 0 && from > to {
			return 0, 0, fmt.Errorf("start year %d is after end year %d", from, to)
		}
		return from, to, nil
	}

	// Single year - exact match
	year, err := strconv.Atoi(spec)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid year %q", spec)
	}
	return year, year, nil
}
