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

// Package azdevops provides a client for the Azure DevOps REST API, covering
// the three operations the extractor needs: resolving a repository name to
// its GUID, listing pull requests, and listing the comment threads of a
// single pull request.
//
// The package includes:
//   - A Client interface so callers can swap implementations
//   - A REST implementation with per-call timeouts and error classification
//   - A retry decorator with exponential backoff for transient failures
//   - Mock client for testing
//
// Basic usage:
//
//	client := azdevops.NewRESTClient(azdevops.ClientConfig{
//	    Endpoint:     "https://dev.azure.com",
//	    Organization: "my-org",
//	    Project:      "my-project",
//	    Token:        os.Getenv("AZURE_DEVOPS_TOKEN"),
//	})
//	repo, err := client.GetRepository(ctx, "payments-service")
//	if err != nil {
//	    // Handle error
//	}
//	prs, err := client.ListPullRequests(ctx, repo.ID, azdevops.ListOptions{Top: 10000})
package azdevops
