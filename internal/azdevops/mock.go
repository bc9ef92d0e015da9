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

import (
	"context"
	"fmt"

	relayerrors "github.com/sirseerhq/ado-relay/internal/errors"
)

// MockClient is a mock implementation of the Azure DevOps Client interface for testing.
type MockClient struct {
	// Data to return
	Repository   *Repository
	PullRequests []PullRequest
	Threads      map[int][]Thread

	// Error to return from any call
	Error error

	// ThreadErrs returns an error for specific pull request IDs,
	// simulating partial failures mid-run.
	ThreadErrs map[int]error

	// Behavior flags
	ShouldFailAuth     bool
	ShouldFailNetwork  bool
	ShouldFailNotFound bool

	// Track calls for verification
	CallCount    int
	LastRepoName string
	LastRepoID   string
	LastOpts     ListOptions
	ThreadsFor   []int
}

// NewMockClient creates a new mock client with default test data
func NewMockClient() *MockClient {
	repo, prs, threads := generateTestData()
	return &MockClient{
		Repository:   repo,
		PullRequests: prs,
		Threads:      threads,
	}
}

// GetRepository implements the Client interface
func (m *MockClient) GetRepository(ctx context.Context, name string) (*Repository, error) {
	m.CallCount++
	m.LastRepoName = name

	if err := m.simulatedFailure(ctx); err != nil {
		return nil, err
	}

	if m.Repository == nil {
		return nil, fmt.Errorf("'%s' not found: %w", name, relayerrors.ErrRepoNotFound)
	}
	return m.Repository, nil
}

// ListPullRequests implements the Client interface
func (m *MockClient) ListPullRequests(ctx context.Context, repoID string, opts ListOptions) ([]PullRequest, error) {
	m.CallCount++
	m.LastRepoID = repoID
	m.LastOpts = opts

	if err := m.simulatedFailure(ctx); err != nil {
		return nil, err
	}

	return m.PullRequests, nil
}

// ListThreads implements the Client interface
func (m *MockClient) ListThreads(ctx context.Context, repoID string, prID int) ([]Thread, error) {
	m.CallCount++
	m.LastRepoID = repoID
	m.ThreadsFor = append(m.ThreadsFor, prID)

	if err := m.simulatedFailure(ctx); err != nil {
		return nil, err
	}

	if err, ok := m.ThreadErrs[prID]; ok {
		return nil, err
	}

	return m.Threads[prID], nil
}

// simulatedFailure applies the mock's failure configuration in order.
func (m *MockClient) simulatedFailure(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if m.ShouldFailAuth {
		return fmt.Errorf("authentication failed: %w", relayerrors.ErrNotAuthenticated)
	}
	if m.ShouldFailNetwork {
		return fmt.Errorf("network timeout: %w", relayerrors.ErrNetworkFailure)
	}
	if m.ShouldFailNotFound {
		return fmt.Errorf("resource not found: %w", relayerrors.ErrRepoNotFound)
	}
	return m.Error
}

// generateTestData creates sample repository, PR, and thread data for testing
func generateTestData() (*Repository, []PullRequest, map[int][]Thread) {
	repo := &Repository{
		ID:   "11111111-2222-3333-4444-555555555555",
		Name: "payments-service",
	}

	prs := []PullRequest{
		{
			ID:           12891,
			Title:        "Add idempotency keys to charge API",
			Status:       StatusCompleted,
			CreatedBy:    IdentityRef{DisplayName: "Ahmet Atar"},
			CreationDate: "2024-03-01T09:12:00Z",
		},
		{
			ID:           12078,
			Title:        "Fix rounding in settlement report",
			Status:       StatusActive,
			CreatedBy:    IdentityRef{DisplayName: "Ahmet Atar"},
			CreationDate: "2024-02-11T15:40:00Z",
		},
		{
			ID:           11544,
			Title:        "Retire legacy webhook handler",
			Status:       StatusAbandoned,
			CreatedBy:    IdentityRef{DisplayName: "Ahmet Atar"},
			CreationDate: "2024-01-20T08:05:00Z",
		},
	}

	threads := map[int][]Thread{
		12891: {
			{
				ID: 1,
				Comments: []Comment{
					{
						ID:            1,
						Author:        IdentityRef{DisplayName: "Deniz KALKAN"},
						Content:       "Should this retry on 409?",
						PublishedDate: "2024-03-02T10:00:00Z",
						CommentType:   "text",
					},
					{
						ID:            2,
						Author:        IdentityRef{DisplayName: "Ahmet Atar"},
						Content:       "Good catch, fixed in the next push.",
						PublishedDate: "2024-03-02T10:30:00Z",
						CommentType:   "text",
					},
				},
			},
			{
				ID: 2,
				Comments: []Comment{
					{
						ID:            3,
						Author:        IdentityRef{DisplayName: "Microsoft.VisualStudio.Services.TFS"},
						Content:       "Deniz KALKAN voted 10",
						PublishedDate: "2024-03-02T11:00:00Z",
						CommentType:   "system",
					},
					{
						ID:            4,
						Author:        IdentityRef{DisplayName: "Deniz KALKAN"},
						Content:       "LGTM",
						PublishedDate: "2024-03-02T11:05:00Z",
						CommentType:   "text",
					},
				},
			},
		},
		12078: {},
	}

	return repo, prs, threads
}

// MockClientOption allows configuring the mock client
type MockClientOption func(*MockClient)

// WithPullRequests sets specific pull requests to return
func WithPullRequests(prs []PullRequest) MockClientOption {
	return func(m *MockClient) {
		m.PullRequests = prs
	}
}

// WithThreads sets the threads returned per pull request ID
func WithThreads(threads map[int][]Thread) MockClientOption {
	return func(m *MockClient) {
		m.Threads = threads
	}
}

// WithError makes the client return a specific error
func WithError(err error) MockClientOption {
	return func(m *MockClient) {
		m.Error = err
	}
}

// WithAuthFailure makes the client simulate authentication failure
func WithAuthFailure() MockClientOption {
	return func(m *MockClient) {
		m.ShouldFailAuth = true
	}
}

// NewMockClientWithOptions creates a mock client with options
func NewMockClientWithOptions(opts ...MockClientOption) *MockClient {
	mock := NewMockClient()
	for _, opt := range opts {
		opt(mock)
	}
	return mock
}
