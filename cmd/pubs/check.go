package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/guridi/pubsite/internal/publication"
	"github.com/guridi/pubsite/internal/storage"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify publications.json",
	Long: `Verify publications.json without writing anything.

Every record is validated and all problems are reported, not just the first.
Duplicate titles and abstract/slides links on non-workshop entries (which the
page never shows) are reported as warnings. Exits with status 3 if any record
is invalid.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

// CheckResult is the response for the check command.
type CheckResult struct {
	Status       string                       `json:"status"`
	Publications int                          `json:"publications"`
	Valid        int                          `json:"valid"`
	Categories   map[publication.Category]int `json:"categories"`
	Issues       []CheckIssue                 `json:"issues"`
}

// CheckIssue represents a single issue found during check.
type CheckIssue struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Records  []int  `json:"records"` // 1-based positions in the data file
	Title    string `json:"title,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

const (
	severityError   = "error"
	severityWarning = "warning"
)

func runCheck(cmd *cobra.Command, args []string) error {
	cfg := mustLoadSite()

	data, err := os.ReadFile(cfg.DataPath())
	if err != nil {
		exitWithError(ExitError, "reading publications: %v", err)
	}
	pubs, err := storage.Decode(cfg.DataPath(), data)
	if err != nil {
		exitWithError(ExitDataError, "%v", err)
	}

	result, err := checkPublications(pubs)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		printCheckResult(result)
	} else if err := outputJSON(result); err != nil {
		return err
	}

	if hasErrors(result.Issues) {
		os.Exit(ExitDataError)
	}
	return nil
}

// checkPublications validates every record and collects consistency warnings.
func checkPublications(pubs []publication.Publication) (CheckResult, error) {
	issues := []CheckIssue{}

	var valid []publication.Publication
	for i, p := range pubs {
		if err := p.Validate(); err != nil {
			issues = append(issues, CheckIssue{
				Type:     "invalid_record",
				Severity: severityError,
				Records:  []int{i + 1},
				Title:    p.Title,
				Reason:   err.Error(),
			})
			continue
		}
		valid = append(valid, p)

		if p.Category != publication.Workshop && (p.AbstractLink != "" || p.SlidesLink != "") {
			issues = append(issues, CheckIssue{
				Type:     "unused_links",
				Severity: severityWarning,
				Records:  []int{i + 1},
				Title:    p.Title,
				Reason:   "abstract and slides links are only shown for workshops",
			})
		}
	}

	// Duplicate titles, compared case-insensitively
	seen := make(map[string][]int)
	var order []string
	for i, p := range pubs {
		key := strings.ToLower(strings.TrimSpace(p.Title))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; !ok {
			order = append(order, key)
		}
		seen[key] = append(seen[key], i+1)
	}
	for _, key := range order {
		if records := seen[key]; len(records) > 1 {
			issues = append(issues, CheckIssue{
				Type:     "duplicate_title",
				Severity: severityWarning,
				Records:  records,
				Title:    pubs[records[0]-1].Title,
			})
		}
	}

	counts, indexed, err := countCategories(valid)
	if err != nil {
		return CheckResult{}, err
	}

	status := "ok"
	if len(issues) > 0 {
		status = "issues_found"
	}
	return CheckResult{
		Status:       status,
		Publications: len(pubs),
		Valid:        indexed,
		Categories:   counts,
		Issues:       issues,
	}, nil
}

// countCategories indexes pubs and returns per-category and total counts.
func countCategories(pubs []publication.Publication) (map[publication.Category]int, int, error) {
	db, err := storage.OpenMemoryDB()
	if err != nil {
		return nil, 0, err
	}
	defer db.Close()

	if _, err := db.Rebuild(pubs); err != nil {
		return nil, 0, err
	}
	counts, err := db.CountByCategory()
	if err != nil {
		return nil, 0, err
	}
	total, err := db.Count()
	if err != nil {
		return nil, 0, err
	}
	return counts, total, nil
}

func hasErrors(issues []CheckIssue) bool {
	for _, issue := range issues {
		if issue.Severity == severityError {
			return true
		}
	}
	return false
}

func printCheckResult(result CheckResult) {
	fmt.Printf("Checked %d publications, %d valid\n", result.Publications, result.Valid)

	if t := countTable(result.Categories); t != "" {
		fmt.Println(t)
	}

	if len(result.Issues) == 0 {
		fmt.Println("\nNo issues found.")
		return
	}

	fmt.Printf("\nFound %d issues:\n", len(result.Issues))
	for _, issue := range result.Issues {
		records := make([]string, len(issue.Records))
		for i, r := range issue.Records {
			records[i] = fmt.Sprintf("#%d", r)
		}
		fmt.Printf("  [%s] %s %s", issue.Severity, issue.Type, strings.Join(records, ", "))
		if issue.Title != "" {
			fmt.Printf(" %q", truncateString(issue.Title, ListTitleMaxLen))
		}
		if issue.Reason != "" {
			fmt.Printf(": %s", issue.Reason)
		}
		fmt.Println()
	}
}
