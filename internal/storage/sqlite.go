package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/guridi/pubsite/internal/publication"
	_ "modernc.org/sqlite"
)

// DB wraps an in-memory SQLite database used to query publications.
// It is rebuilt from the data file on every run and never written to disk.
type DB struct {
	db *sql.DB
}

// selectPubFields contains the standard field list for SELECT queries.
const selectPubFields = `title, authors_json, venue, venue_es, pub_year,
	category, url, abstract_link, slides_link`

// OpenMemoryDB opens an empty in-memory database with the schema in place.
func OpenMemoryDB() (*DB, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Each connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS pubs (
			seq INTEGER PRIMARY KEY,
			title TEXT NOT NULL,
			authors_json TEXT NOT NULL,
			venue TEXT NOT NULL,
			venue_es TEXT,
			pub_year INTEGER,
			category TEXT NOT NULL,
			url TEXT,
			abstract_link TEXT,
			slides_link TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_pubs_category ON pubs(category);

		CREATE VIRTUAL TABLE IF NOT EXISTS pubs_fts USING fts5(
			seq UNINDEXED,
			title,
			authors_text,
			venue
		);
	`

	_, err := db.Exec(schema)
	return err
}

// Rebuild clears the database and loads pubs in order.
// seq preserves the position each record has in the data file.
func (d *DB) Rebuild(pubs []publication.Publication) (int, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM pubs"); err != nil {
		return 0, fmt.Errorf("clearing pubs table: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM pubs_fts"); err != nil {
		return 0, fmt.Errorf("clearing pubs_fts table: %w", err)
	}

	pubsStmt, err := tx.Prepare(`
		INSERT INTO pubs (
			seq, title, authors_json, venue, venue_es, pub_year,
			category, url, abstract_link, slides_link
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing pubs insert: %w", err)
	}
	defer pubsStmt.Close()

	ftsStmt, err := tx.Prepare(`
		INSERT INTO pubs_fts (seq, title, authors_text, venue)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing fts insert: %w", err)
	}
	defer ftsStmt.Close()

	for i, p := range pubs {
		authorsJSON, err := json.Marshal(p.Authors)
		if err != nil {
			return 0, fmt.Errorf("marshaling authors for record %d: %w", i+1, err)
		}

		var year sql.NullInt64
		if p.Year != nil {
			year = sql.NullInt64{Int64: int64(*p.Year), Valid: true}
		}

		_, err = pubsStmt.Exec(
			i, p.Title, string(authorsJSON), p.Venue, nullableStringValue(p.VenueES), year,
			string(p.Category), nullableStringValue(p.URL),
			nullableStringValue(p.AbstractLink), nullableStringValue(p.SlidesLink),
		)
		if err != nil {
			return 0, fmt.Errorf("inserting record %d: %w", i+1, err)
		}

		venues := p.Venue
		if p.VenueES != "" {
			venues += " " + p.VenueES
		}
		if _, err := ftsStmt.Exec(i, p.Title, strings.Join(p.Authors, ", "), venues); err != nil {
			return 0, fmt.Errorf("inserting fts for record %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing rebuild: %w", err)
	}
	return len(pubs), nil
}

// SearchFilters contains optional filters for Search.
type SearchFilters struct {
	Keyword     string               // Matches title, authors and venue
	Author      string               // Author name prefix match
	Category    publication.Category // Exact category ("" = any)
	YearFrom    int                  // Minimum year (0 = no minimum)
	YearTo      int                  // Maximum year (0 = no maximum)
	Forthcoming bool                 // Only records without a year
}

// Search returns publications matching ALL given filters, in data-file order.
// Forthcoming records never match a year range.
func (d *DB) Search(filters SearchFilters, limit int) ([]publication.Publication, error) {
	var ftsTerms []string
	var args []interface{}

	if q := prepareFTSQuery(filters.Keyword); q != "" {
		ftsTerms = append(ftsTerms, q)
	}
	if filters.Author != "" {
		ftsTerms = append(ftsTerms, "authors_text:"+prepareAuthorQuery(filters.Author))
	}

	var query string
	if len(ftsTerms) > 0 {
		query = `SELECT ` + selectPubFields + `
			FROM pubs
			WHERE seq IN (SELECT seq FROM pubs_fts WHERE pubs_fts MATCH ?)`
		args = append(args, strings.Join(ftsTerms, " AND "))
	} else {
		query = `SELECT ` + selectPubFields + ` FROM pubs WHERE 1=1`
	}

	if filters.Category != "" {
		query += " AND category = ?"
		args = append(args, string(filters.Category))
	}
	if filters.YearFrom > 0 {
		query += " AND pub_year >= ?"
		args = append(args, filters.YearFrom)
	}
	if filters.YearTo > 0 {
		query += " AND pub_year <= ?"
		args = append(args, filters.YearTo)
	}
	if filters.Forthcoming {
		query += " AND pub_year IS NULL"
	}

	query += " ORDER BY seq"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer rows.Close()

	return scanPublications(rows)
}

// CountByCategory returns the number of records per category.
func (d *DB) CountByCategory() (map[publication.Category]int, error) {
	rows, err := d.db.Query("SELECT category, COUNT(*) FROM pubs GROUP BY category")
	if err != nil {
		return nil, fmt.Errorf("counting categories: %w", err)
	}
	defer rows.Close()

	counts := make(map[publication.Category]int)
	for rows.Next() {
		var cat string
		var n int
		if err := rows.Scan(&cat, &n); err != nil {
			return nil, err
		}
		counts[publication.Category(cat)] = n
	}
	return counts, rows.Err()
}

// Count returns the total number of records.
func (d *DB) Count() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM pubs").Scan(&count)
	return count, err
}

// scanner interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanPublication(s scanner) (*publication.Publication, error) {
	var p publication.Publication
	var authorsJSON, category string
	var venueES, url, abstractLink, slidesLink sql.NullString
	var year sql.NullInt64

	err := s.Scan(
		&p.Title, &authorsJSON, &p.Venue, &venueES, &year,
		&category, &url, &abstractLink, &slidesLink,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	p.VenueES = venueES.String
	p.Category = publication.Category(category)
	p.URL = url.String
	p.AbstractLink = abstractLink.String
	p.SlidesLink = slidesLink.String
	if year.Valid {
		p.Year = publication.YearPtr(int(year.Int64))
	}

	if err := json.Unmarshal([]byte(authorsJSON), &p.Authors); err != nil {
		return nil, fmt.Errorf("parsing authors: %w", err)
	}

	return &p, nil
}

func scanPublications(rows *sql.Rows) ([]publication.Publication, error) {
	var pubs []publication.Publication
	for rows.Next() {
		p, err := scanPublication(rows)
		if err != nil {
			return nil, err
		}
		if p != nil {
			pubs = append(pubs, *p)
		}
	}
	return pubs, rows.Err()
}

// nullableStringValue converts a string to sql.NullString, treating empty as NULL.
func nullableStringValue(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// prepareFTSQuery quotes every whitespace-separated term so FTS5 operators
// (AND, OR, NOT, NEAR) and punctuation are matched as plain text. Terms are
// combined with an implicit AND.
func prepareFTSQuery(query string) string {
	parts := strings.Fields(query)
	terms := make([]string, 0, len(parts))
	for _, part := range parts {
		terms = append(terms, "\""+strings.ReplaceAll(part, "\"", "\"\"")+"\"")
	}
	return strings.Join(terms, " ")
}

// prepareAuthorQuery adds a prefix wildcard to each name part, so "Jos"
// matches "Jose".
func prepareAuthorQuery(author string) string {
	author = strings.TrimSpace(author)
	if author == "" {
		return author
	}

	parts := strings.Fields(author)
	terms := make([]string, 0, len(parts))
	for _, part := range parts {
		escaped := strings.ReplaceAll(part, "\"", "\"\"")
		terms = append(terms, "\""+escaped+"\"*")
	}

	return "(" + strings.Join(terms, " OR ") + ")"
}
