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
	"math"
	"os"
	"time"

	"github.com/sirseerhq/ado-relay/internal/adoerror"
	relayerrors "github.com/sirseerhq/ado-relay/internal/errors"
)

// RetryConfig configures the retry behavior for API calls
type RetryConfig struct {
	// MaxRetries is the maximum number of retry attempts
	MaxRetries int
	// InitialBackoff is the initial backoff duration
	InitialBackoff time.Duration
	// MaxBackoff is the maximum backoff duration
	MaxBackoff time.Duration
	// BackoffMultiplier is the multiplier for exponential backoff
	BackoffMultiplier float64
}

// DefaultRetryConfig returns the default retry configuration
func DefaultRetryConfig() *RetryConfig {
	return &RetryConfig{
		MaxRetries:        3,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 2.0,
	}
}

// RetryClient wraps an Azure DevOps client with automatic retry logic for
// throttling and transient network errors using exponential backoff.
// Auth and not-found failures are never retried.
type RetryClient struct {
	client    Client
	config    *RetryConfig
	inspector adoerror.Inspector
}

// NewRetryClient creates a new RetryClient with the given configuration
func NewRetryClient(client Client, config *RetryConfig) Client {
	if config == nil {
		config = DefaultRetryConfig()
	}
	return &RetryClient{
		client:    client,
		config:    config,
		inspector: adoerror.NewInspector(),
	}
}

// GetRepository implements the Client interface with retry logic
func (r *RetryClient) GetRepository(ctx context.Context, name string) (*Repository, error) {
	var repo *Repository
	err := r.retry(ctx, func() error {
		var callErr error
		repo, callErr = r.client.GetRepository(ctx, name)
		return callErr
	})
	return repo, err
}

// ListPullRequests implements the Client interface with retry logic
func (r *RetryClient) ListPullRequests(ctx context.Context, repoID string, opts ListOptions) ([]PullRequest, error) {
	var prs []PullRequest
	err := r.retry(ctx, func() error {
		var callErr error
		prs, callErr = r.client.ListPullRequests(ctx, repoID, opts)
		return callErr
	})
	return prs, err
}

// ListThreads implements the Client interface with retry logic
func (r *RetryClient) ListThreads(ctx context.Context, repoID string, prID int) ([]Thread, error) {
	var threads []Thread
	err := r.retry(ctx, func() error {
		var callErr error
		threads, callErr = r.client.ListThreads(ctx, repoID, prID)
		return callErr
	})
	return threads, err
}

// retry runs fn up to MaxRetries+1 times, backing off between attempts.
func (r *RetryClient) retry(ctx context.Context, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}

		lastErr = err

		// Don't retry on non-retryable errors
		if !r.shouldRetry(err) {
			return err
		}

		// Don't retry if context is cancelled
		if ctx.Err() != nil {
			return ctx.Err()
		}

		backoff := r.calculateBackoff(attempt)

		if r.isThrottle(err) {
			fmt.Fprintf(os.Stderr, "\nThrottled by Azure DevOps. Waiting %v before retry (attempt %d/%d)...\n",
				backoff, attempt+1, r.config.MaxRetries)
		} else {
			fmt.Fprintf(os.Stderr, "\nNetwork error. Retrying in %v (attempt %d/%d)...\n",
				backoff, attempt+1, r.config.MaxRetries)
		}

		// Wait with context cancellation support
		select {
		case <-time.After(backoff):
			// Continue to next retry
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return fmt.Errorf("failed after %d retries: %w", r.config.MaxRetries, lastErr)
}

// shouldRetry determines if an error is retryable. Errors coming from the
// RESTClient are already classified into sentinels; raw errors fall back to
// message inspection.
func (r *RetryClient) shouldRetry(err error) bool {
	// Retry on throttling and network errors
	if errors.Is(err, relayerrors.ErrRateLimit) || errors.Is(err, relayerrors.ErrNetworkFailure) {
		return true
	}

	// Don't retry on other classified errors (auth, not found)
	if errors.Is(err, relayerrors.ErrNotAuthenticated) || errors.Is(err, relayerrors.ErrRepoNotFound) {
		return false
	}

	return r.inspector.IsRateLimitError(err) || r.inspector.IsNetworkError(err)
}

// isThrottle reports whether the error is a rate-limit rather than a
// network failure, for the wait message only.
func (r *RetryClient) isThrottle(err error) bool {
	return errors.Is(err, relayerrors.ErrRateLimit) || r.inspector.IsRateLimitError(err)
}

// calculateBackoff calculates the backoff duration for the given attempt
func (r *RetryClient) calculateBackoff(attempt int) time.Duration {
	backoff := float64(r.config.InitialBackoff) * math.Pow(r.config.BackoffMultiplier, float64(attempt))

	if backoff > float64(r.config.MaxBackoff) {
		backoff = float64(r.config.MaxBackoff)
	}

	// Add jitter (±10%) to prevent thundering herd
	jitter := backoff * 0.1 * (2*float64(time.Now().UnixNano()%100)/100 - 1)
	backoff += jitter

	return time.Duration(backoff)
}
