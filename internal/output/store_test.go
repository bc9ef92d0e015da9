package output

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func sampleRecords() []CommentRecord {
	return []CommentRecord{
		{ReviewerName: "Deniz KALKAN", Comment: "Should this retry on 409?", Date: "2024-03-02T10:00:00Z"},
		{ReviewerName: "Ahmet Atar", Comment: "Good catch, fixed.", Date: "2024-03-02T10:30:00Z"},
	}
}

func TestStore_LoadMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "pr_comments.json"))

	records, reset, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if reset {
		t.Error("reset = true for missing file, want false")
	}
	if len(records) != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
}

func TestStore_SaveAndLoad(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "pr_comments.json"))
	want := sampleRecords()

	if err := store.Save(want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, reset, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if reset {
		t.Error("reset = true for valid file, want false")
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, want)
	}
}

func TestStore_AppendOnlyAccumulation(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "pr_comments.json"))

	first := sampleRecords()
	if err := store.Save(first); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Second run: load, merge, save.
	existing, _, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	incoming := []CommentRecord{
		{ReviewerName: "Carol", Comment: "New round of feedback", Date: "2024-04-01T08:00:00Z"},
	}
	if err := store.Save(Merge(existing, incoming, false)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, _, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got) != len(first)+len(incoming) {
		t.Fatalf("collection size = %d, want %d", len(got), len(first)+len(incoming))
	}
	// Prior entries are preserved untouched and in order.
	if !reflect.DeepEqual(got[:len(first)], first) {
		t.Errorf("first %d records changed:\ngot  %+v\nwant %+v", len(first), got[:len(first)], first)
	}
	if got[len(first)] != incoming[0] {
		t.Errorf("appended record = %+v, want %+v", got[len(first)], incoming[0])
	}
}

func TestStore_InvalidJSONStartsFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pr_comments.json")
	if err := os.WriteFile(path, []byte("not json at all"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	store := NewStore(path)
	records, reset, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reset {
		t.Error("reset = false for invalid JSON, want true")
	}
	if len(records) != 0 {
		t.Errorf("got %d records, want 0", len(records))
	}
}

func TestStore_SaveEmptyWritesArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pr_comments.json")
	store := NewStore(path)

	if err := store.Save(nil); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read file: %v", err)
	}
	if strings.TrimSpace(string(data)) != "[]" {
		t.Errorf("empty collection = %q, want []", strings.TrimSpace(string(data)))
	}
}

func TestStore_SaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(filepath.Join(dir, "pr_comments.json"))

	if err := store.Save(sampleRecords()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read dir: %v", err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file %s left behind", e.Name())
		}
	}
}

func TestStore_SaveDoesNotEscapeHTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pr_comments.json")
	store := NewStore(path)

	records := []CommentRecord{
		{ReviewerName: "Alice", Comment: "use x < y && y > 0 here", Date: "2024-01-01T00:00:00Z"},
	}
	if err := store.Save(records); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read file: %v", err)
	}
	if !strings.Contains(string(data), "x < y && y > 0") {
		t.Errorf("comment text was escaped: %s", data)
	}
}

func TestStore_OutputIsValidJSONArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pr_comments.json")
	store := NewStore(path)

	if err := store.Save(sampleRecords()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read file: %v", err)
	}
	var generic []map[string]string
	if err := json.Unmarshal(data, &generic); err != nil {
		t.Fatalf("output is not a valid JSON array: %v", err)
	}
	if generic[0]["reviewer_name"] != "Deniz KALKAN" {
		t.Errorf("reviewer_name = %q, want Deniz KALKAN", generic[0]["reviewer_name"])
	}
	for _, key := range []string{"reviewer_name", "comment", "date"} {
		if _, ok := generic[0][key]; !ok {
			t.Errorf("record missing %q field", key)
		}
	}
}

func TestMerge(t *testing.T) {
	a := CommentRecord{ReviewerName: "Alice", Comment: "first", Date: "2024-01-01T00:00:00Z"}
	b := CommentRecord{ReviewerName: "Bob", Comment: "second", Date: "2024-01-02T00:00:00Z"}
	c := CommentRecord{ReviewerName: "Carol", Comment: "third", Date: "2024-01-03T00:00:00Z"}

	tests := []struct {
		name     string
		existing []CommentRecord
		incoming []CommentRecord
		dedupe   bool
		want     []CommentRecord
	}{
		{
			name:     "plain append keeps duplicates",
			existing: []CommentRecord{a, b},
			incoming: []CommentRecord{b, c},
			dedupe:   false,
			want:     []CommentRecord{a, b, b, c},
		},
		{
			name:     "dedupe drops exact triple matches",
			existing: []CommentRecord{a, b},
			incoming: []CommentRecord{b, c},
			dedupe:   true,
			want:     []CommentRecord{a, b, c},
		},
		{
			name:     "dedupe drops duplicates within incoming",
			existing: nil,
			incoming: []CommentRecord{a, a, b},
			dedupe:   true,
			want:     []CommentRecord{a, b},
		},
		{
			name:     "dedupe keeps near-misses",
			existing: []CommentRecord{a},
			incoming: []CommentRecord{{ReviewerName: "Alice", Comment: "first", Date: "2024-06-01T00:00:00Z"}},
			dedupe:   true,
			want:     []CommentRecord{a, {ReviewerName: "Alice", Comment: "first", Date: "2024-06-01T00:00:00Z"}},
		},
		{
			name:     "empty incoming leaves collection unchanged",
			existing: []CommentRecord{a, b},
			incoming: nil,
			dedupe:   false,
			want:     []CommentRecord{a, b},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge(tt.existing, tt.incoming, tt.dedupe)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Merge() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
