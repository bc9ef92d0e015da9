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

package azdevops

import "context"

// Client defines the interface for interacting with the Azure DevOps API.
// This interface allows for easy mocking in tests.
type Client interface {
	// GetRepository resolves a repository name to its metadata, including
	// the repository GUID required by the other endpoints.
	GetRepository(ctx context.Context, name string) (*Repository, error)

	// ListPullRequests retrieves pull requests for the repository identified
	// by repoID. The listing is a single request; opts.Top bounds how many
	// PRs it can return.
	ListPullRequests(ctx context.Context, repoID string, opts ListOptions) ([]PullRequest, error)

	// ListThreads retrieves all comment threads for one pull request.
	ListThreads(ctx context.Context, repoID string, prID int) ([]Thread, error)
}
