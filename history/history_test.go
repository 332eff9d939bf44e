package history

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func testRecord(n int) Record {
	return Record{
		PGN:    fmt.Sprintf("[Event \"Game %d\"]\n\n1. e4 e5 *", n),
		Date:   time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(n) * time.Hour),
		Result: "*",
	}
}

func TestOpenMissingFile(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "history.json"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("fresh store should be empty, got %d records", s.Len())
	}
}

func TestAppendAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	for n := 0; n < 3; n++ {
		if err := s.Append(testRecord(n)); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	// Most recent first.
	recs := s.Records()
	if len(recs) != 3 {
		t.Fatalf("got %d records, want 3", len(recs))
	}
	if !strings.Contains(recs[0].PGN, "Game 2") {
		t.Errorf("newest record should be first, got %q", recs[0].PGN)
	}

	s2, err := Open(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if s2.Len() != 3 {
		t.Fatalf("reload lost records: got %d", s2.Len())
	}
	if s2.Records()[0].PGN != recs[0].PGN {
		t.Error("reload changed record order")
	}
	if !s2.Records()[0].Date.Equal(recs[0].Date) {
		t.Error("reload changed record dates")
	}
}

func TestAppendDropsOldestPastCap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	for n := 0; n < MaxRecords+5; n++ {
		if err := s.Append(testRecord(n)); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}
	if s.Len() != MaxRecords {
		t.Fatalf("got %d records, want %d", s.Len(), MaxRecords)
	}
	recs := s.Records()
	if !strings.Contains(recs[0].PGN, fmt.Sprintf("Game %d", MaxRecords+4)) {
		t.Errorf("newest record missing, got %q", recs[0].PGN)
	}
	if !strings.Contains(recs[MaxRecords-1].PGN, "Game 5") {
		t.Errorf("oldest surviving record should be game 5, got %q", recs[MaxRecords-1].PGN)
	}
}

func TestOpenTruncatesOversizedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	var parts []string
	for n := 0; n < MaxRecords+3; n++ {
		parts = append(parts, fmt.Sprintf(`{"pgn": "Game %d", "date": "2024-01-01T12:00:00Z", "result": "*"}`, n))
	}
	data := "[" + strings.Join(parts, ",") + "]"
	if err := os.WriteFile(path, []byte(data), 0664); err != nil {
		t.Fatal(err)
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.Len() != MaxRecords {
		t.Fatalf("got %d records, want %d", s.Len(), MaxRecords)
	}
}

func TestClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Append(testRecord(0)); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("store not empty after clear: %d", s.Len())
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("clear should remove the file")
	}

	// Clearing an already empty store is fine.
	if err := s.Clear(); err != nil {
		t.Fatalf("second Clear: %v", err)
	}
}

func TestExport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	for n := 0; n < 3; n++ {
		if err := s.Append(testRecord(n)); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	// Records contain a blank line between tags and movetext, so the
	// separator split must still yield exactly one segment per record.
	out := s.Export()
	segments := strings.Split(out, exportSeparator)
	if len(segments) != s.Len() {
		t.Fatalf("export split into %d segments, want %d", len(segments), s.Len())
	}
	for i, seg := range segments {
		if !strings.Contains(seg, "[Event") || !strings.Contains(seg, "1. e4 e5 *") {
			t.Errorf("segment %d is not a whole game record: %q", i, seg)
		}
	}

	exportPath := filepath.Join(t.TempDir(), "sub", "games.pgn")
	if err := s.ExportToFile(exportPath); err != nil {
		t.Fatalf("ExportToFile: %v", err)
	}
	data, err := os.ReadFile(exportPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != out {
		t.Error("file export differs from Export()")
	}
}
