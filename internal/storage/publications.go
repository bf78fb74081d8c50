// Package storage handles persistence of the publications data file and the
// ephemeral SQLite index built from it.
package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/guridi/pubsite/internal/publication"
	"go.uber.org/zap"
)

// ErrInvalidInput marks data-file content that cannot be used: malformed JSON
// or a record that fails validation.
var ErrInvalidInput = errors.New("invalid publications data")

// ParseError describes why a data file could not be loaded.
// Index is the zero-based record position, or -1 when the file as a whole is
// malformed.
type ParseError struct {
	Path  string
	Index int
	Err   error
}

func (e *ParseError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("parsing %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("parsing %s: record %d: %v", e.Path, e.Index+1, e.Err)
}

// Unwrap exposes both ErrInvalidInput and the underlying cause.
func (e *ParseError) Unwrap() []error {
	return []error{ErrInvalidInput, e.Err}
}

// Store reads and writes the publications JSON array at a fixed path.
type Store struct {
	path string
	log  *zap.Logger
}

// NewStore returns a Store for the data file at path.
func NewStore(path string, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{path: path, log: log}
}

// Path returns the data file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads every publication in file order. All records are validated;
// the first invalid one aborts the load.
func (s *Store) Load() ([]publication.Publication, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading publications: %w", err)
	}

	pubs, err := Decode(s.path, data)
	if err != nil {
		return nil, err
	}
	if err := validateAll(s.path, pubs); err != nil {
		return nil, err
	}

	s.log.Debug("loaded publications", zap.String("path", s.path), zap.Int("count", len(pubs)))
	return pubs, nil
}

// Decode parses a top-level JSON array of publications without validating
// field contents. Errors identify the offending record where possible.
func Decode(path string, data []byte) ([]publication.Publication, error) {
	raw, err := splitRecords(path, data)
	if err != nil {
		return nil, err
	}
	return decodeRecords(path, raw)
}

// splitRecords returns each array element untouched, so records can be
// written back exactly as they were read.
func splitRecords(path string, data []byte) ([]json.RawMessage, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{Path: path, Index: -1, Err: err}
	}
	if raw == nil {
		return nil, &ParseError{Path: path, Index: -1, Err: errors.New("expected a top-level array, got null")}
	}
	return raw, nil
}

func decodeRecords(path string, raw []json.RawMessage) ([]publication.Publication, error) {
	pubs := make([]publication.Publication, 0, len(raw))
	for i, msg := range raw {
		var p publication.Publication
		if err := json.Unmarshal(msg, &p); err != nil {
			return nil, &ParseError{Path: path, Index: i, Err: err}
		}
		pubs = append(pubs, p)
	}
	return pubs, nil
}

func validateAll(path string, pubs []publication.Publication) error {
	for i, p := range pubs {
		if err := p.Validate(); err != nil {
			return &ParseError{Path: path, Index: i, Err: err}
		}
	}
	return nil
}

// Encode renders publications as an indented JSON array with a trailing newline.
// Non-ASCII and HTML characters are written literally.
func Encode(pubs []publication.Publication) ([]byte, error) {
	raw := make([]json.RawMessage, 0, len(pubs))
	for _, p := range pubs {
		rec, err := encodeRecord(p)
		if err != nil {
			return nil, err
		}
		raw = append(raw, rec)
	}
	return joinRecords(raw)
}

// encodeRecord marshals one publication compactly, without HTML escaping.
func encodeRecord(p publication.Publication) (json.RawMessage, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(p); err != nil {
		return nil, fmt.Errorf("encoding publication %q: %w", p.Title, err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// joinRecords writes raw records as a 2-space indented array. Key order,
// null values and unknown keys inside each record are kept as given.
func joinRecords(raw []json.RawMessage) ([]byte, error) {
	if len(raw) == 0 {
		return []byte("[]\n"), nil
	}

	var buf bytes.Buffer
	buf.WriteString("[\n")
	for i, rec := range raw {
		buf.WriteString("  ")
		if err := json.Indent(&buf, rec, "  ", "  "); err != nil {
			return nil, fmt.Errorf("indenting record %d: %w", i+1, err)
		}
		if i < len(raw)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString("]\n")
	return buf.Bytes(), nil
}

// WriteAll replaces the data file with pubs. The write is not atomic.
func (s *Store) WriteAll(pubs []publication.Publication) error {
	data, err := Encode(pubs)
	if err != nil {
		return err
	}
	if err := s.write(data); err != nil {
		return err
	}

	s.log.Debug("wrote publications", zap.String("path", s.path), zap.Int("count", len(pubs)))
	return nil
}

func (s *Store) write(data []byte) error {
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("writing publications: %w", err)
	}
	return nil
}

// Append validates p and adds it after every existing record. Existing
// records are validated but written back as read, keeping their key order,
// null values and any keys the Publication type does not know. A missing
// data file is treated as an empty list. Returns the new record count.
func (s *Store) Append(p publication.Publication) (int, error) {
	if err := p.Validate(); err != nil {
		return 0, fmt.Errorf("new publication: %w", err)
	}

	var raw []json.RawMessage
	data, err := os.ReadFile(s.path)
	switch {
	case err == nil:
		if raw, err = splitRecords(s.path, data); err != nil {
			return 0, err
		}
		existing, err := decodeRecords(s.path, raw)
		if err != nil {
			return 0, err
		}
		if err := validateAll(s.path, existing); err != nil {
			return 0, err
		}
	case errors.Is(err, os.ErrNotExist):
		s.log.Info("data file not found, starting a new one", zap.String("path", s.path))
	default:
		return 0, fmt.Errorf("reading publications: %w", err)
	}

	rec, err := encodeRecord(p)
	if err != nil {
		return 0, err
	}
	raw = append(raw, rec)

	out, err := joinRecords(raw)
	if err != nil {
		return 0, err
	}
	if err := s.write(out); err != nil {
		return 0, err
	}

	s.log.Debug("appended publication", zap.String("path", s.path), zap.Int("count", len(raw)))
	return len(raw), nil
}
