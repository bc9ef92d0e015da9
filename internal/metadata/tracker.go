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

// Package metadata records an audit trail for accumulation runs. Each run
// produces one JSON record in the state directory describing the request
// parameters and the counters of the result, linked to the previous run
// against the same repository.
//
// Metadata is strictly best-effort: a run that collected comments
// successfully must not fail because its audit record could not be
// written.
package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Tracker collects counters during an accumulation run and generates the
// metadata record at the end. Create one at the start of a run.
type Tracker struct {
	startTime time.Time

	prsProcessed     int
	failedPRs        []int
	commentsFound    int
	commentsAppended int
}

// New creates a Tracker stamped with the current time.
func New() *Tracker {
	return &Tracker{
		startTime: time.Now(),
	}
}

// RecordPRs records how many pull requests were processed and which ones
// were skipped after a failed comment fetch.
func (t *Tracker) RecordPRs(processed int, failed []int) {
	t.prsProcessed = processed
	t.failedPRs = failed
}

// RecordComments records how many qualifying comments the run found and
// how many of them were actually appended to the output file. The two
// differ when de-duplication drops already-present records.
func (t *Tracker) RecordComments(found, appended int) {
	t.commentsFound = found
	t.commentsAppended = appended
}

// Generate produces the final metadata record. previousRun links the
// record to the last run against the same repository and may be nil.
func (t *Tracker) Generate(relayVersion string, params RunParams, previousRun *RunRef) *RunMetadata {
	completedAt := time.Now()

	return &RunMetadata{
		RelayVersion: relayVersion,
		RunID:        uuid.NewString(),
		Parameters:   params,
		Results: RunResults{
			PRsProcessed:     t.prsProcessed,
			PRsFailed:        len(t.failedPRs),
			FailedPRIDs:      t.failedPRs,
			CommentsFound:    t.commentsFound,
			CommentsAppended: t.commentsAppended,
			Duration:         completedAt.Sub(t.startTime).String(),
			StartedAt:        t.startTime,
			CompletedAt:      completedAt,
		},
		PreviousRun: previousRun,
	}
}

// SaveMetadata persists a run record to the state directory as
// run-metadata-{unix}.json. The write goes through a temporary file and a
// rename so a crash never leaves a truncated record behind.
func SaveMetadata(md *RunMetadata, stateDir string) error {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	filename := fmt.Sprintf("run-metadata-%d.json", md.Results.StartedAt.Unix())
	finalPath := filepath.Join(stateDir, filename)

	tmpPath := finalPath + ".tmp"
	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("failed to create metadata file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(md); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write metadata: %w", err)
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to close metadata file: %w", err)
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		return fmt.Errorf("failed to save metadata file: %w", err)
	}

	return nil
}

// LoadLatestMetadata loads the most recent run record for the given
// repository from the state directory, identified by modification time.
// Returns nil without error when no matching record exists.
func LoadLatestMetadata(stateDir, organization, project, repository string) (*RunMetadata, error) {
	pattern := filepath.Join(stateDir, "run-metadata-*.json")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to list metadata files: %w", err)
	}

	// Walk candidates newest-first by modification time until one matches
	// the repository. Records for other repositories share the directory.
	candidates := files
	for {
		latest := ""
		var latestTime time.Time
		idx := -1
		for i, file := range candidates {
			info, statErr := os.Stat(file)
			if statErr != nil {
				continue
			}
			if info.ModTime().After(latestTime) {
				latestTime = info.ModTime()
				latest = file
				idx = i
			}
		}
		if latest == "" {
			return nil, nil
		}
		candidates = append(candidates[:idx], candidates[idx+1:]...)

		md, readErr := readMetadata(latest)
		if readErr != nil {
			return nil, readErr
		}
		p := md.Parameters
		if p.Organization == organization && p.Project == project && p.Repository == repository {
			return md, nil
		}
	}
}

func readMetadata(path string) (*RunMetadata, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open metadata file: %w", err)
	}
	defer file.Close()

	var md RunMetadata
	if err := json.NewDecoder(file).Decode(&md); err != nil {
		return nil, fmt.Errorf("failed to parse metadata: %w", err)
	}
	return &md, nil
}
