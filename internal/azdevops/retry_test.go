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
	"errors"
	"fmt"
	"testing"
	"time"

	relayerrors "github.com/sirseerhq/ado-relay/internal/errors"
)

// flakyClient fails a configurable number of times before succeeding.
type flakyClient struct {
	failures  int
	err       error
	calls     int
	threadSet []Thread
}

func (f *flakyClient) GetRepository(ctx context.Context, name string) (*Repository, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, f.err
	}
	return &Repository{ID: "abc", Name: name}, nil
}

func (f *flakyClient) ListPullRequests(ctx context.Context, repoID string, opts ListOptions) ([]PullRequest, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, f.err
	}
	return []PullRequest{{ID: 1}}, nil
}

func (f *flakyClient) ListThreads(ctx context.Context, repoID string, prID int) ([]Thread, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, f.err
	}
	return f.threadSet, nil
}

func fastRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:        3,
		InitialBackoff:    1 * time.Millisecond,
		MaxBackoff:        5 * time.Millisecond,
		BackoffMultiplier: 2.0,
	}
}

func TestRetryClient_RetriesTransientErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"throttling", fmt.Errorf("blocked: %w", errors.New("429 Too Many Requests"))},
		{"network", errors.New("dial tcp: connection refused")},
		{"classified throttle", fmt.Errorf("please wait: %w", relayerrors.ErrRateLimit)},
		{"classified network failure", fmt.Errorf("check your connection: %w", relayerrors.ErrNetworkFailure)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flaky := &flakyClient{failures: 2, err: tt.err}
			client := NewRetryClient(flaky, fastRetryConfig())

			repo, err := client.GetRepository(context.Background(), "repo")
			if err != nil {
				t.Fatalf("GetRepository failed after retries: %v", err)
			}
			if repo.ID != "abc" {
				t.Errorf("repo.ID = %q, want abc", repo.ID)
			}
			if flaky.calls != 3 {
				t.Errorf("calls = %d, want 3 (2 failures + 1 success)", flaky.calls)
			}
		})
	}
}

func TestRetryClient_DoesNotRetryFatalErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"auth failure", fmt.Errorf("bad token: %w", relayerrors.ErrNotAuthenticated)},
		{"not found", fmt.Errorf("missing: %w", errors.New("404 Not Found"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flaky := &flakyClient{failures: 10, err: tt.err}
			client := NewRetryClient(flaky, fastRetryConfig())

			_, err := client.ListPullRequests(context.Background(), "abc", ListOptions{})
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if flaky.calls != 1 {
				t.Errorf("calls = %d, want 1 (no retries)", flaky.calls)
			}
		})
	}
}

func TestRetryClient_ExhaustsRetries(t *testing.T) {
	netErr := errors.New("dial tcp: connection refused")
	flaky := &flakyClient{failures: 100, err: netErr}
	client := NewRetryClient(flaky, fastRetryConfig())

	_, err := client.ListThreads(context.Background(), "abc", 42)
	if err == nil {
		t.Fatal("expected error after exhausting retries, got nil")
	}
	if !errors.Is(err, netErr) {
		t.Errorf("error = %v, want wrapped %v", err, netErr)
	}
	// MaxRetries retries plus the initial attempt.
	if flaky.calls != 4 {
		t.Errorf("calls = %d, want 4", flaky.calls)
	}
}

func TestRetryClient_ContextCancellation(t *testing.T) {
	flaky := &flakyClient{failures: 100, err: errors.New("timeout")}
	config := &RetryConfig{
		MaxRetries:        5,
		InitialBackoff:    500 * time.Millisecond,
		MaxBackoff:        time.Second,
		BackoffMultiplier: 2.0,
	}
	client := NewRetryClient(flaky, config)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.GetRepository(ctx, "repo")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want context.DeadlineExceeded", err)
	}
}

func TestCalculateBackoff(t *testing.T) {
	r := &RetryClient{config: &RetryConfig{
		InitialBackoff:    time.Second,
		MaxBackoff:        10 * time.Second,
		BackoffMultiplier: 2.0,
	}}

	for attempt := 0; attempt < 6; attempt++ {
		backoff := r.calculateBackoff(attempt)
		if backoff <= 0 {
			t.Errorf("backoff for attempt %d = %v, want positive", attempt, backoff)
		}
		// Max plus 10% jitter headroom.
		if backoff > 11*time.Second {
			t.Errorf("backoff for attempt %d = %v, exceeds max with jitter", attempt, backoff)
		}
	}
}
