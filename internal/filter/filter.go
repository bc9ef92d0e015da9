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

// Package filter decides which pull request comments count as human review
// feedback. Hosted services mix automated entries (vote notices, policy
// updates, build bot chatter) into the same threads as reviewer comments;
// the rule set here identifies and drops them.
//
// The rules are configuration, not code: the marker conventions differ
// between services and drift over time, so deployments override them in the
// config file without touching the accumulation logic.
package filter

import (
	"strings"

	"github.com/sirseerhq/ado-relay/internal/azdevops"
)

// RuleSet describes which comments to exclude. A comment is dropped when its
// type matches ExcludeCommentTypes (case-insensitive) or its author display
// name contains any of ExcludeAuthorPatterns (case-insensitive substring
// match). Comments with empty content are always dropped; an empty body is
// not review feedback.
type RuleSet struct {
	ExcludeCommentTypes   []string `yaml:"exclude_comment_types"`
	ExcludeAuthorPatterns []string `yaml:"exclude_author_patterns"`
}

// DefaultRuleSet returns the rules matching Azure DevOps conventions:
// "system" typed comments plus the service accounts and bots that post
// into review threads.
func DefaultRuleSet() RuleSet {
	return RuleSet{
		ExcludeCommentTypes: []string{"system"},
		ExcludeAuthorPatterns: []string{
			"Microsoft.VisualStudio.Services.TFS",
			"Project Collection Build Service",
			"[bot]",
		},
	}
}

// Qualifies reports whether a comment is human review feedback under the
// rule set.
func (r RuleSet) Qualifies(c azdevops.Comment) bool {
	if c.Content == "" {
		return false
	}

	for _, excluded := range r.ExcludeCommentTypes {
		if strings.EqualFold(c.CommentType, excluded) {
			return false
		}
	}

	author := strings.ToLower(c.Author.DisplayName)
	for _, pattern := range r.ExcludeAuthorPatterns {
		if pattern == "" {
			continue
		}
		if strings.Contains(author, strings.ToLower(pattern)) {
			return false
		}
	}

	return true
}

// Apply returns the comments that qualify, preserving their relative order.
func (r RuleSet) Apply(comments []azdevops.Comment) []azdevops.Comment {
	kept := make([]azdevops.Comment, 0, len(comments))
	for _, c := range comments {
		if r.Qualifies(c) {
			kept = append(kept, c)
		}
	}
	return kept
}
