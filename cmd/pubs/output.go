package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/guridi/pubsite/internal/publication"
)

// Constants for output formatting.
const (
	DefaultSearchLimit = 50 // Default limit for search/list commands

	ListTitleMaxLen   = 60 // Used in list/search tables
	ListVenueMaxLen   = 40
	ListAuthorsMaxLen = 40
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is the JSON shape of a fatal error.
type ErrorResponse struct {
	Error string `json:"error"`
}

// truncateString truncates a string to maxLen runes, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}

// formatYear renders a year, or "forthcoming" when absent.
func formatYear(p publication.Publication) string {
	if p.IsForthcoming() {
		return "forthcoming"
	}
	return fmt.Sprintf("%d", *p.Year)
}

// formatAuthorsShort joins up to maxCount authors and appends "et al." beyond that.
func formatAuthorsShort(authors []string, maxCount int) string {
	if len(authors) <= maxCount {
		return strings.Join(authors, ", ")
	}
	return strings.Join(authors[:maxCount], ", ") + " et al."
}
