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
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirseerhq/ado-relay/internal/adoerror"
	relayerrors "github.com/sirseerhq/ado-relay/internal/errors"
	"github.com/sirseerhq/ado-relay/pkg/version"
)

// apiVersion is the Azure DevOps REST API version requested on every call.
const apiVersion = "7.0"

// ClientConfig configures a RESTClient.
type ClientConfig struct {
	// Endpoint is the service base URL, e.g. "https://dev.azure.com" or an
	// on-premises Azure DevOps Server URL.
	Endpoint string

	// Organization and Project scope every API call.
	Organization string
	Project      string

	// Token is a personal access token. Azure DevOps accepts it as the
	// password half of basic auth with an empty username.
	Token string

	// Timeout bounds each individual API call. Defaults to 30 seconds.
	Timeout time.Duration
}

// RESTClient implements the Client interface against the Azure DevOps REST API.
// It provides authenticated access with per-call timeouts, response size
// limiting, and error classification into the application's sentinel errors.
type RESTClient struct {
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
	inspector  adoerror.Inspector
}

// NewRESTClient creates a new Azure DevOps REST client.
// The client is configured with:
//   - Basic authentication via the provided personal access token
//   - Custom endpoint URL (e.g., for Azure DevOps Server)
//   - A per-call timeout applied to every request
//   - Response size limiting to prevent memory issues
//   - User-Agent header for API compliance
//   - Optimized connection pooling for API performance
func NewRESTClient(cfg ClientConfig) *RESTClient {
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		MaxConnsPerHost:     10,
		IdleConnTimeout:     90 * time.Second,
		DisableCompression:  false,
		ForceAttemptHTTP2:   true,
	}

	httpClient := &http.Client{
		Transport: &authTransport{
			token: cfg.Token,
			base:  transport,
		},
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	baseURL := fmt.Sprintf("%s/%s/%s/_apis",
		strings.TrimRight(cfg.Endpoint, "/"),
		url.PathEscape(cfg.Organization),
		url.PathEscape(cfg.Project))

	return &RESTClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		timeout:    timeout,
		inspector:  adoerror.NewInspector(),
	}
}

// GetRepository resolves a repository name to its metadata. The returned
// GUID is what the pull request and thread endpoints key on.
func (c *RESTClient) GetRepository(ctx context.Context, name string) (*Repository, error) {
	var repo Repository
	path := "git/repositories/" + url.PathEscape(name)
	if err := c.get(ctx, path, nil, &repo); err != nil {
		return nil, c.mapError(err, name)
	}
	return &repo, nil
}

// prListResponse is the envelope the listing endpoints wrap results in.
type prListResponse struct {
	Count int           `json:"count"`
	Value []PullRequest `json:"value"`
}

// threadListResponse is the envelope for the thread listing endpoint.
type threadListResponse struct {
	Count int      `json:"count"`
	Value []Thread `json:"value"`
}

// ListPullRequests retrieves pull requests for the repository identified by
// repoID in the order the service returns them. A single request is made;
// opts.Top (default 10000) serves as the practical upper bound instead of
// real pagination.
func (c *RESTClient) ListPullRequests(ctx context.Context, repoID string, opts ListOptions) ([]PullRequest, error) {
	top := opts.Top
	if top <= 0 {
		top = defaultTop
	}
	status := opts.Status
	if status == "" {
		status = defaultStatus
	}

	query := url.Values{}
	query.Set("searchCriteria.status", status)
	query.Set("$top", strconv.Itoa(top))

	var resp prListResponse
	path := fmt.Sprintf("git/repositories/%s/pullrequests", url.PathEscape(repoID))
	if err := c.get(ctx, path, query, &resp); err != nil {
		return nil, c.mapError(err, repoID)
	}
	return resp.Value, nil
}

// ListThreads retrieves all comment threads for one pull request.
func (c *RESTClient) ListThreads(ctx context.Context, repoID string, prID int) ([]Thread, error) {
	var resp threadListResponse
	path := fmt.Sprintf("git/repositories/%s/pullRequests/%d/threads", url.PathEscape(repoID), prID)
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return nil, c.mapError(err, fmt.Sprintf("pull request %d", prID))
	}
	return resp.Value, nil
}

// get executes a single GET request against the API and decodes the JSON
// response into out. Every call carries its own timeout.
func (c *RESTClient) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if query == nil {
		query = url.Values{}
	}
	query.Set("api-version", apiVersion)

	reqURL := c.baseURL + "/" + path + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Include a snippet of the body; Azure DevOps puts its TF/VS error
		// codes in the response message.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// mapError maps REST errors to our domain errors with actionable messages
func (c *RESTClient) mapError(err error, resource string) error {
	if err == nil {
		return nil
	}

	// Check rate limit first, as 403 can be both auth and throttling
	if c.inspector.IsRateLimitError(err) {
		return fmt.Errorf("Azure DevOps is throttling requests. Please wait before retrying: %w", relayerrors.ErrRateLimit)
	}

	// Not-found before auth: TF401019 bodies contain "401" and would
	// otherwise read as an authentication failure
	if c.inspector.IsNotFoundError(err) {
		return fmt.Errorf("'%s' not found. Please check the name and your access permissions: %w", resource, relayerrors.ErrRepoNotFound)
	}

	if c.inspector.IsAuthError(err) {
		return fmt.Errorf("Azure DevOps authentication failed. Please provide a valid personal access token via --token flag or the AZURE_DEVOPS_TOKEN environment variable: %w", relayerrors.ErrNotAuthenticated)
	}

	if c.inspector.IsNetworkError(err) {
		return fmt.Errorf("network error connecting to Azure DevOps. Please check your internet connection and try again: %w", relayerrors.ErrNetworkFailure)
	}

	return fmt.Errorf("azure devops request failed: %w", err)
}

// limitedReader wraps a ReadCloser with a size limit to prevent excessive memory usage.
type limitedReader struct {
	io.ReadCloser
	limit int64
	read  int64
}

// Read implements io.Reader with size limit enforcement.
func (lr *limitedReader) Read(p []byte) (n int, err error) {
	if lr.read >= lr.limit {
		return 0, fmt.Errorf("response size exceeded limit of %d bytes", lr.limit)
	}

	remaining := lr.limit - lr.read
	if int64(len(p)) > remaining {
		p = p[:remaining]
	}

	n, err = lr.ReadCloser.Read(p)
	lr.read += int64(n)

	return n, err
}

// authTransport adds authentication headers and safety limits to HTTP requests
type authTransport struct {
	token string
	base  http.RoundTripper
}

// RoundTrip implements http.RoundTripper
func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid modifying the original
	req = req.Clone(req.Context())

	// PATs ride as the password half of basic auth with an empty username
	basic := base64.StdEncoding.EncodeToString([]byte(":" + t.token))
	req.Header.Set("Authorization", "Basic "+basic)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", fmt.Sprintf("ado-relay/%s", version.Version))

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	// Apply response size limit (10MB)
	if resp.Body != nil {
		resp.Body = &limitedReader{
			ReadCloser: resp.Body,
			limit:      10 * 1024 * 1024, // 10MB
		}
	}

	return resp, nil
}
