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
	"time"
)

// RunMetadata is the complete audit record of one accumulation run. It
// captures what was requested, what was collected, and how long it took,
// and links back to the previous run against the same repository so the
// run history forms a chain.
type RunMetadata struct {
	RelayVersion string     `json:"relay_version"`
	RunID        string     `json:"run_id"`
	Parameters   RunParams  `json:"parameters"`
	Results      RunResults `json:"results"`
	PreviousRun  *RunRef    `json:"previous_run,omitempty"`
}

// RunParams captures the inputs of a run. Preserving them makes a run
// reproducible and makes it obvious why two runs produced different
// output files.
type RunParams struct {
	Organization string `json:"organization"`
	Project      string `json:"project"`
	Repository   string `json:"repository"`
	User         string `json:"user"`
	PageSize     int    `json:"page_size"`
	Dedupe       bool   `json:"dedupe"`
}

// RunResults holds the outcome counters of a completed run.
type RunResults struct {
	PRsProcessed     int       `json:"prs_processed"`
	PRsFailed        int       `json:"prs_failed"`
	FailedPRIDs      []int     `json:"failed_pr_ids,omitempty"`
	CommentsFound    int       `json:"comments_found"`
	CommentsAppended int       `json:"comments_appended"`
	Duration         string    `json:"run_duration"`
	StartedAt        time.Time `json:"started_at"`
	CompletedAt      time.Time `json:"completed_at"`
}

// RunRef is a lightweight pointer to an earlier run, used to chain a new
// record to its predecessor.
type RunRef struct {
	RunID       string    `json:"run_id"`
	CompletedAt time.Time `json:"completed_at"`
}
