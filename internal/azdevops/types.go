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

// Package azdevops provides types and interfaces for interacting with the Azure DevOps REST API.
package azdevops

// Repository represents an Azure DevOps git repository. The REST API
// addresses pull requests and threads by repository GUID, not by name,
// so the ID is resolved once per run and reused for every call.
type Repository struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// IdentityRef identifies a user or service account as Azure DevOps
// represents it in API payloads. DisplayName is the human-readable name
// shown in the web UI; matching against it is exact and case-sensitive.
type IdentityRef struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	UniqueName  string `json:"uniqueName"`
}

// PullRequest represents a pull request as returned by the pull request
// listing endpoint. Only the fields the extractor inspects are mapped;
// the service returns considerably more.
type PullRequest struct {
	ID           int         `json:"pullRequestId"`
	Title        string      `json:"title"`
	Status       string      `json:"status"`
	CreatedBy    IdentityRef `json:"createdBy"`
	CreationDate string      `json:"creationDate"`
}

// Pull request status values used by the listing endpoint.
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusAbandoned = "abandoned"
)

// Thread represents a comment thread attached to a pull request.
// A thread groups one or more comments around a location or topic.
type Thread struct {
	ID        int       `json:"id"`
	Comments  []Comment `json:"comments"`
	IsDeleted bool      `json:"isDeleted"`
}

// Comment represents a single comment inside a thread. CommentType
// distinguishes human-authored comments ("text") from platform-generated
// entries ("system"); PublishedDate is the ISO-8601 UTC timestamp string
// exactly as the service emits it.
type Comment struct {
	ID            int         `json:"id"`
	Author        IdentityRef `json:"author"`
	Content       string      `json:"content"`
	PublishedDate string      `json:"publishedDate"`
	CommentType   string      `json:"commentType"`
}

// ListOptions configures how pull requests are listed.
type ListOptions struct {
	// Top controls how many PRs the single listing request asks for.
	// The extractor deliberately requests one large page instead of
	// paginating; defaults to 10000 if not specified.
	Top int

	// Status restricts the listing server-side. Defaults to "all" so the
	// caller can apply its own status filtering.
	Status string
}

// Default values for list operations
const (
	defaultTop    = 10000
	defaultStatus = "all"
)
