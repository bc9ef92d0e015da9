// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metadata

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func testParams() RunParams {
	return RunParams{
		Organization: "contoso",
		Project:      "payments",
		Repository:   "payments-service",
		User:         "Ahmet Atar",
		PageSize:     10000,
	}
}

func TestTrackerGenerate(t *testing.T) {
	tracker := New()
	tracker.RecordPRs(5, []int{12078})
	tracker.RecordComments(42, 17)

	md := tracker.Generate("1.2.3", testParams(), nil)

	if md.RelayVersion != "1.2.3" {
		t.Errorf("RelayVersion = %q, want 1.2.3", md.RelayVersion)
	}
	if md.RunID == "" {
		t.Error("RunID is empty")
	}
	if md.Results.PRsProcessed != 5 {
		t.Errorf("PRsProcessed = %d, want 5", md.Results.PRsProcessed)
	}
	if md.Results.PRsFailed != 1 || !reflect.DeepEqual(md.Results.FailedPRIDs, []int{12078}) {
		t.Errorf("failed PRs = %d %v, want 1 [12078]", md.Results.PRsFailed, md.Results.FailedPRIDs)
	}
	if md.Results.CommentsFound != 42 || md.Results.CommentsAppended != 17 {
		t.Errorf("comments = %d/%d, want 42/17", md.Results.CommentsFound, md.Results.CommentsAppended)
	}
	if md.Results.CompletedAt.Before(md.Results.StartedAt) {
		t.Error("CompletedAt precedes StartedAt")
	}
	if md.PreviousRun != nil {
		t.Errorf("PreviousRun = %+v, want nil", md.PreviousRun)
	}
}

func TestTrackerGenerate_UniqueRunIDs(t *testing.T) {
	first := New().Generate("dev", testParams(), nil)
	second := New().Generate("dev", testParams(), nil)
	if first.RunID == second.RunID {
		t.Errorf("two runs share RunID %q", first.RunID)
	}
}

func TestSaveAndLoadMetadata(t *testing.T) {
	stateDir := t.TempDir()

	tracker := New()
	tracker.RecordPRs(2, nil)
	tracker.RecordComments(3, 3)
	md := tracker.Generate("dev", testParams(), nil)

	if err := SaveMetadata(md, stateDir); err != nil {
		t.Fatalf("SaveMetadata failed: %v", err)
	}

	// No temp residue.
	entries, err := os.ReadDir(stateDir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}

	loaded, err := LoadLatestMetadata(stateDir, "contoso", "payments", "payments-service")
	if err != nil {
		t.Fatalf("LoadLatestMetadata failed: %v", err)
	}
	if loaded == nil {
		t.Fatal("LoadLatestMetadata returned nil for existing record")
	}
	if loaded.RunID != md.RunID {
		t.Errorf("RunID = %q, want %q", loaded.RunID, md.RunID)
	}
	if loaded.Results.CommentsFound != 3 {
		t.Errorf("CommentsFound = %d, want 3", loaded.Results.CommentsFound)
	}
}

func TestSaveMetadata_CreatesStateDir(t *testing.T) {
	stateDir := filepath.Join(t.TempDir(), "nested", "state")

	md := New().Generate("dev", testParams(), nil)
	if err := SaveMetadata(md, stateDir); err != nil {
		t.Fatalf("SaveMetadata failed: %v", err)
	}
	if _, err := os.Stat(stateDir); err != nil {
		t.Errorf("state directory not created: %v", err)
	}
}

func TestLoadLatestMetadata_NoRecords(t *testing.T) {
	md, err := LoadLatestMetadata(t.TempDir(), "contoso", "payments", "payments-service")
	if err != nil {
		t.Fatalf("LoadLatestMetadata failed: %v", err)
	}
	if md != nil {
		t.Errorf("metadata = %+v, want nil", md)
	}
}

func TestLoadLatestMetadata_SkipsOtherRepositories(t *testing.T) {
	stateDir := t.TempDir()

	other := New().Generate("dev", RunParams{
		Organization: "contoso",
		Project:      "payments",
		Repository:   "billing-service",
	}, nil)
	if err := SaveMetadata(other, stateDir); err != nil {
		t.Fatalf("SaveMetadata failed: %v", err)
	}

	md, err := LoadLatestMetadata(stateDir, "contoso", "payments", "payments-service")
	if err != nil {
		t.Fatalf("LoadLatestMetadata failed: %v", err)
	}
	if md != nil {
		t.Errorf("metadata = %+v, want nil for unmatched repository", md)
	}
}

func TestRunChaining(t *testing.T) {
	stateDir := t.TempDir()

	first := New().Generate("dev", testParams(), nil)
	if err := SaveMetadata(first, stateDir); err != nil {
		t.Fatalf("SaveMetadata failed: %v", err)
	}

	previous, err := LoadLatestMetadata(stateDir, "contoso", "payments", "payments-service")
	if err != nil {
		t.Fatalf("LoadLatestMetadata failed: %v", err)
	}
	if previous == nil {
		t.Fatal("expected a previous run record")
	}

	second := New().Generate("dev", testParams(), &RunRef{
		RunID:       previous.RunID,
		CompletedAt: previous.Results.CompletedAt,
	})
	if second.PreviousRun == nil || second.PreviousRun.RunID != first.RunID {
		t.Errorf("PreviousRun = %+v, want link to %q", second.PreviousRun, first.RunID)
	}

	// Same start second collides on filename; nudge the timestamp.
	second.Results.StartedAt = first.Results.StartedAt.Add(time.Second)
	if err := SaveMetadata(second, stateDir); err != nil {
		t.Fatalf("SaveMetadata failed: %v", err)
	}
}
