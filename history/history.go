// Package history keeps a bounded local log of finished games.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// MaxRecords caps the log at the most recent games; appending past the
// cap drops the oldest entry.
const MaxRecords = 20

// Record is one finished game. Records are immutable once appended.
type Record struct {
	PGN    string    `json:"pgn"`
	Date   time.Time `json:"date"`
	Result string    `json:"result"`
}

// Store persists an ordered, most-recent-first list of records as a
// single JSON file.
type Store struct {
	path    string
	records []Record
}

// Open loads the store at path, starting empty when the file does not
// exist yet.
func Open(path string) (*Store, error) {
	s := &Store{path: path}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	if err := json.Unmarshal(data, &s.records); err != nil {
		return nil, fmt.Errorf("parse history: %w", err)
	}
	if len(s.records) > MaxRecords {
		s.records = s.records[:MaxRecords]
	}
	return s, nil
}

// Records returns the stored records, most recent first.
func (s *Store) Records() []Record {
	return s.records
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	return len(s.records)
}

// Append prepends the record, truncates to the cap and persists the
// whole list.
func (s *Store) Append(rec Record) error {
	s.records = append([]Record{rec}, s.records...)
	if len(s.records) > MaxRecords {
		s.records = s.records[:MaxRecords]
	}
	return s.save()
}

// Clear empties the list and erases the persisted file. The caller is
// expected to confirm with the user first.
func (s *Store) Clear() error {
	s.records = nil
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

// exportSeparator sits between exported game records. Records carry a
// single blank line of their own between the tag section and the
// movetext, so a double blank line is unambiguous: splitting the export
// on it yields exactly one segment per record.
const exportSeparator = "\n\n\n"

// Export concatenates all stored game records.
func (s *Store) Export() string {
	parts := make([]string, 0, len(s.records))
	for _, rec := range s.records {
		parts = append(parts, strings.TrimSpace(rec.PGN))
	}
	return strings.Join(parts, exportSeparator)
}

// ExportToFile writes the export to path.
func (s *Store) ExportToFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("export history: %w", err)
	}
	if err := os.WriteFile(path, []byte(s.Export()), 0664); err != nil {
		return fmt.Errorf("export history: %w", err)
	}
	return nil
}

func (s *Store) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0664); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}
