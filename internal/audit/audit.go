package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// EventType classifies an access event.
type EventType string

const (
	// EventRasterView records a watermarked page view.
	EventRasterView EventType = "RASTER_VIEW"

	// EventOriginalDownload records a decrypted original download.
	EventOriginalDownload EventType = "ORIGINAL_DOWNLOAD"
)

// Entry represents a single access event. Entries are immutable once
// written; the log is append-only.
type Entry struct {
	Timestamp  string    `json:"ts"`   // RFC3339 with microseconds.
	DocumentID string    `json:"doc"`  // Document being accessed.
	IdentityID string    `json:"uid"`  // ID of the accessing identity.
	Email      string    `json:"user"` // Email of the accessing identity.
	Type       EventType `json:"type"` // RASTER_VIEW or ORIGINAL_DOWNLOAD.

	// Optional fields depending on event type.
	Page      int    `json:"page,omitempty"`       // For raster views.
	ClientIP  string `json:"client_ip,omitempty"`  // For downloads.
	UserAgent string `json:"user_agent,omitempty"` // For downloads.
}

// Log is an append-only JSON Lines access log.
type Log struct {
	path string
	mu   sync.Mutex
}

// New returns a Log writing to the given file path. The file is created on
// first append.
func New(path string) *Log {
	return &Log{path: path}
}

// Path returns the log file path.
func (l *Log) Path() string {
	return l.path
}

// Append writes an entry to the log. The timestamp is set if unset.
func (l *Log) Append(entry Entry) error {
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format("2006-01-02T15:04:05.000000Z")
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal audit entry: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0700); err != nil {
		return fmt.Errorf("failed to create audit log directory: %w", err)
	}

	// #nosec G306 -- the audit log is read by reporting tooling.
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}

	return nil
}

// ReadEntries reads all entries from the log.
// Returns an empty slice if the log doesn't exist yet.
func (l *Log) ReadEntries() ([]Entry, error) {
	data, err := os.ReadFile(l.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return ParseEntries(data)
}

// EntriesForDocument returns all entries for one document, in log order.
func (l *Log) EntriesForDocument(documentID string) ([]Entry, error) {
	entries, err := l.ReadEntries()
	if err != nil {
		return nil, err
	}

	var matched []Entry
	for _, entry := range entries {
		if entry.DocumentID == documentID {
			matched = append(matched, entry)
		}
	}
	return matched, nil
}

// CountByType aggregates a document's entries by event type.
func (l *Log) CountByType(documentID string) (map[EventType]int, error) {
	entries, err := l.EntriesForDocument(documentID)
	if err != nil {
		return nil, err
	}

	counts := make(map[EventType]int)
	for _, entry := range entries {
		counts[entry.Type]++
	}
	return counts, nil
}

// ParseEntries parses JSON Lines data into audit entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var entries []Entry
	start := 0

	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			line := data[start:i]
			start = i + 1

			if len(line) == 0 {
				continue
			}

			var entry Entry
			if err := json.Unmarshal(line, &entry); err != nil {
				// Skip malformed entries.
				continue
			}
			entries = append(entries, entry)
		}
	}

	return entries, nil
}
