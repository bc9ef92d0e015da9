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

	"github.com/sirseerhq/ado-relay/internal/azdevops"
)

// Enumerator produces the ordered list of pull request IDs a user authored
// in a repository. Only active and completed pull requests qualify;
// abandoned and draft ones never appear regardless of author.
type Enumerator struct {
	client azdevops.Client
}

// NewEnumerator creates an Enumerator backed by the given client.
func NewEnumerator(client azdevops.Client) *Enumerator {
	return &Enumerator{client: client}
}

// qualifyingStatuses are the pull request states worth mining for review
// comments: still under review, or reviewed and merged.
var qualifyingStatuses = map[string]bool{
	azdevops.StatusActive:    true,
	azdevops.StatusCompleted: true,
}

// PullRequestIDs lists pull requests in the repository identified by repoID
// and returns the IDs of those created by user, in the order the service
// returned them. The user match is exact and case-sensitive against the
// stored display name; there is no fuzzy fallback.
//
// The listing is one request bounded by top. Any query failure aborts the
// enumeration; an empty result is a successful outcome, not an error.
func (e *Enumerator) PullRequestIDs(ctx context.Context, repoID, user string, top int) ([]int, error) {
	prs, err := e.client.ListPullRequests(ctx, repoID, azdevops.ListOptions{Top: top})
	if err != nil {
		return nil, fmt.Errorf("failed to list pull requests: %w", err)
	}

	ids := make([]int, 0, len(prs))
	for _, pr := range prs {
		if !qualifyingStatuses[pr.Status] {
			continue
		}
		if pr.CreatedBy.DisplayName != user {
			continue
		}
		ids = append(ids, pr.ID)
	}

	return ids, nil
}
