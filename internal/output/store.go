package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// CommentRecord is one collected review comment as persisted in the output
// collection. Date carries the ISO-8601 UTC string exactly as the remote
// service emitted it; re-parsing and re-formatting it would rewrite records
// collected by earlier runs.
type CommentRecord struct {
	ReviewerName string `json:"reviewer_name"`
	Comment      string `json:"comment"`
	Date         string `json:"date"`
}

// Store persists the comment collection as a single JSON array file.
// Accumulation is non-destructive: callers load the existing collection,
// append the new records, and save the combined result in one atomic write.
type Store struct {
	path string
}

// NewStore creates a store for the collection at path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the collection file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the existing collection. A missing file yields an empty
// collection. A file that is not valid JSON also yields an empty collection
// so a damaged or foreign file does not wedge every subsequent run; the
// caller may want to warn when that happens, so it is signalled separately.
func (s *Store) Load() (records []CommentRecord, reset bool, err error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read collection %s: %w", s.path, err)
	}

	if err := json.Unmarshal(data, &records); err != nil {
		return nil, true, nil
	}
	return records, false, nil
}

// Save writes the full collection atomically using a write-to-temp-and-rename
// pattern, so a crash mid-write never corrupts previously collected records.
// Output is a pretty-printed UTF-8 JSON array with HTML escaping disabled,
// keeping comment text byte-identical to what reviewers typed.
func (s *Store) Save(records []CommentRecord) error {
	if records == nil {
		records = []CommentRecord{}
	}

	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(records); err != nil {
		return fmt.Errorf("failed to marshal collection: %w", err)
	}

	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	tempFile := s.path + ".tmp"
	if err := os.WriteFile(tempFile, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write temporary collection file: %w", err)
	}

	// Sync to ensure data is flushed to disk
	file, err := os.Open(tempFile)
	if err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to open temp file for sync: %w", err)
	}
	if err := file.Sync(); err != nil {
		_ = file.Close()
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tempFile, s.path); err != nil {
		_ = os.Remove(tempFile)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// Merge appends incoming records to existing, preserving both orders.
// With dedupe set, incoming records whose (reviewer_name, comment, date)
// triple already appears in the existing collection or earlier in the batch
// are skipped. Dedupe is opt-in: the default accumulation behavior appends
// unconditionally, so repeated runs over the same PRs duplicate records.
func Merge(existing, incoming []CommentRecord, dedupe bool) []CommentRecord {
	if !dedupe {
		return append(existing, incoming...)
	}

	seen := make(map[CommentRecord]struct{}, len(existing)+len(incoming))
	for _, r := range existing {
		seen[r] = struct{}{}
	}

	merged := existing
	for _, r := range incoming {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		merged = append(merged, r)
	}
	return merged
}
