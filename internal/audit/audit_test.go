package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestLog(t *testing.T) *Log {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "audit.jsonl"))
}

func TestAppend_CreatesFile(t *testing.T) {
	l := newTestLog(t)

	err := l.Append(Entry{
		DocumentID: "doc-1",
		IdentityID: "u-1",
		Email:      "test@example.com",
		Type:       EventRasterView,
		Page:       1,
	})
	if err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	if _, err := os.Stat(l.Path()); os.IsNotExist(err) {
		t.Fatal("Audit log file was not created")
	}
}

func TestAppend_AppendsEntries(t *testing.T) {
	l := newTestLog(t)

	for _, email := range []string{"alice@example.com", "bob@example.com", "charlie@example.com"} {
		if err := l.Append(Entry{DocumentID: "doc-1", Email: email, Type: EventRasterView}); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	data, err := os.ReadFile(l.Path())
	if err != nil {
		t.Fatalf("Failed to read audit log: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Errorf("Expected 3 lines, got %d", len(lines))
	}
}

func TestAppend_ValidJSONWithTimestamp(t *testing.T) {
	l := newTestLog(t)

	entry := Entry{
		DocumentID: "doc-1",
		IdentityID: "u-1",
		Email:      "test@example.com",
		Type:       EventOriginalDownload,
		ClientIP:   "10.0.0.1",
		UserAgent:  "test-agent",
	}
	if err := l.Append(entry); err != nil {
		t.Fatalf("Append failed: %v", err)
	}

	data, err := os.ReadFile(l.Path())
	if err != nil {
		t.Fatalf("Failed to read audit log: %v", err)
	}

	var parsed Entry
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(data))), &parsed); err != nil {
		t.Fatalf("Entry is not valid JSON: %v", err)
	}
	if parsed.Timestamp == "" {
		t.Error("Expected the timestamp to be set on append")
	}
	if parsed.ClientIP != "10.0.0.1" || parsed.UserAgent != "test-agent" {
		t.Error("Client fields were not persisted")
	}
}

func TestCountByType(t *testing.T) {
	l := newTestLog(t)

	entries := []Entry{
		{DocumentID: "doc-1", Type: EventRasterView, Page: 1},
		{DocumentID: "doc-1", Type: EventRasterView, Page: 2},
		{DocumentID: "doc-1", Type: EventOriginalDownload},
		{DocumentID: "doc-2", Type: EventRasterView, Page: 1},
	}
	for _, e := range entries {
		if err := l.Append(e); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	counts, err := l.CountByType("doc-1")
	if err != nil {
		t.Fatalf("CountByType failed: %v", err)
	}
	if counts[EventRasterView] != 2 {
		t.Errorf("Expected 2 raster views, got %d", counts[EventRasterView])
	}
	if counts[EventOriginalDownload] != 1 {
		t.Errorf("Expected 1 download, got %d", counts[EventOriginalDownload])
	}
}

func TestReadEntries_MissingFile(t *testing.T) {
	l := newTestLog(t)

	entries, err := l.ReadEntries()
	if err != nil {
		t.Fatalf("ReadEntries failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected no entries, got %d", len(entries))
	}
}

func TestParseEntries_SkipsMalformedLines(t *testing.T) {
	data := []byte(`{"ts":"2024-01-01T00:00:00.000000Z","doc":"doc-1","uid":"u-1","user":"a@example.com","type":"RASTER_VIEW"}
not json
{"ts":"2024-01-01T00:00:01.000000Z","doc":"doc-1","uid":"u-1","user":"a@example.com","type":"ORIGINAL_DOWNLOAD"}
`)

	entries, err := ParseEntries(data)
	if err != nil {
		t.Fatalf("ParseEntries failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[1].Type != EventOriginalDownload {
		t.Errorf("Unexpected second entry type: %s", entries[1].Type)
	}
}
