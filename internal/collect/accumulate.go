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

package collect

import (
	"context"
	"fmt"
	"io"

	"github.com/sirseerhq/ado-relay/internal/azdevops"
	"github.com/sirseerhq/ado-relay/internal/filter"
	"github.com/sirseerhq/ado-relay/internal/output"
)

// Accumulator fetches the comment threads of each pull request in turn,
// filters out system-generated entries, and maps the survivors to comment
// records ready to be merged into the output collection.
type Accumulator struct {
	client   azdevops.Client
	rules    filter.RuleSet
	progress io.Writer
}

// NewAccumulator creates an Accumulator. Progress and warnings are written
// to progress, which is the diagnostics stream and never the data output.
func NewAccumulator(client azdevops.Client, rules filter.RuleSet, progress io.Writer) *Accumulator {
	return &Accumulator{
		client:   client,
		rules:    rules,
		progress: progress,
	}
}

// Result summarizes one accumulation pass.
type Result struct {
	// Records holds the qualifying comments of every successfully fetched
	// pull request, in processing order.
	Records []output.CommentRecord

	// Processed counts pull requests whose threads were fetched.
	Processed int

	// Failed lists the pull request IDs whose comment fetch failed and was
	// skipped.
	Failed []int
}

// Collect processes the pull requests in order, one blocking remote call at
// a time. A pull request whose fetch fails is skipped with a warning; the
// run only aborts when the context is cancelled.
func (a *Accumulator) Collect(ctx context.Context, repoID string, prIDs []int) (*Result, error) {
	result := &Result{}

	fmt.Fprintf(a.progress, "Found %d PRs to process...\n", len(prIDs))

	for i, prID := range prIDs {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		fmt.Fprintf(a.progress, "Processing PR %d (%d/%d)...\n", prID, i+1, len(prIDs))

		threads, err := a.client.ListThreads(ctx, repoID, prID)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			fmt.Fprintf(a.progress, "Warning: Failed to get comments for PR %d: %v\n", prID, err)
			result.Failed = append(result.Failed, prID)
			continue
		}

		result.Records = append(result.Records, a.recordsFromThreads(threads)...)
		result.Processed++
	}

	return result, nil
}

// recordsFromThreads flattens threads into individual comments, applies the
// filter rules, and maps the survivors to records. Relative comment order
// within and across threads is preserved. Deleted threads are skipped; the
// service keeps returning them after a reviewer retracts a conversation.
func (a *Accumulator) recordsFromThreads(threads []azdevops.Thread) []output.CommentRecord {
	var records []output.CommentRecord
	for _, thread := range threads {
		if thread.IsDeleted {
			continue
		}
		for _, comment := range thread.Comments {
			if !a.rules.Qualifies(comment) {
				continue
			}
			reviewer := comment.Author.DisplayName
			if reviewer == "" {
				reviewer = "Unknown"
			}
			records = append(records, output.CommentRecord{
				ReviewerName: reviewer,
				Comment:      comment.Content,
				Date:         comment.PublishedDate,
			})
		}
	}
	return records
}
