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

package filter

import (
	"testing"

	"github.com/sirseerhq/ado-relay/internal/azdevops"
)

func comment(author, content, commentType string) azdevops.Comment {
	return azdevops.Comment{
		Author:      azdevops.IdentityRef{DisplayName: author},
		Content:     content,
		CommentType: commentType,
	}
}

func TestRuleSet_Qualifies(t *testing.T) {
	rules := DefaultRuleSet()

	tests := []struct {
		name    string
		comment azdevops.Comment
		want    bool
	}{
		{
			name:    "human text comment",
			comment: comment("Deniz KALKAN", "Should this retry on 409?", "text"),
			want:    true,
		},
		{
			name:    "system comment type",
			comment: comment("Deniz KALKAN", "Deniz KALKAN voted 10", "system"),
			want:    false,
		},
		{
			name:    "system type case-insensitive",
			comment: comment("Deniz KALKAN", "policy updated", "System"),
			want:    false,
		},
		{
			name:    "empty content",
			comment: comment("Deniz KALKAN", "", "text"),
			want:    false,
		},
		{
			name:    "TFS service account",
			comment: comment("Microsoft.VisualStudio.Services.TFS", "Branch policy requires a reviewer", "text"),
			want:    false,
		},
		{
			name:    "build service account",
			comment: comment("Project Collection Build Service (lhg)", "Build succeeded", "text"),
			want:    false,
		},
		{
			name:    "bot author",
			comment: comment("dependency-checker[bot]", "3 vulnerable packages", "text"),
			want:    false,
		},
		{
			name:    "author pattern case-insensitive",
			comment: comment("microsoft.visualstudio.services.tfs", "notice", "text"),
			want:    false,
		},
		{
			name:    "unknown comment type kept",
			comment: comment("Ahmet Atar", "Good point", "codeChange"),
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rules.Qualifies(tt.comment); got != tt.want {
				t.Errorf("Qualifies() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRuleSet_Apply_PreservesOrder(t *testing.T) {
	rules := DefaultRuleSet()

	comments := []azdevops.Comment{
		comment("Alice", "first", "text"),
		comment("TFS Bot", "vote notice", "system"),
		comment("Bob", "second", "text"),
		comment("Carol", "", "text"),
		comment("Dave", "third", "text"),
	}

	kept := rules.Apply(comments)
	if len(kept) != 3 {
		t.Fatalf("kept %d comments, want 3", len(kept))
	}
	want := []string{"first", "second", "third"}
	for i, w := range want {
		if kept[i].Content != w {
			t.Errorf("kept[%d].Content = %q, want %q", i, kept[i].Content, w)
		}
	}
}

func TestRuleSet_CustomRules(t *testing.T) {
	rules := RuleSet{
		ExcludeCommentTypes:   []string{"system", "codeChange"},
		ExcludeAuthorPatterns: []string{"automation"},
	}

	if rules.Qualifies(comment("Alice", "refactored", "codeChange")) {
		t.Error("codeChange should be excluded by custom rules")
	}
	if rules.Qualifies(comment("release-automation", "tagged v1.2", "text")) {
		t.Error("automation author should be excluded by custom rules")
	}
	if !rules.Qualifies(comment("dependency-checker[bot]", "update available", "text")) {
		t.Error("custom rules replace the defaults; [bot] is no longer excluded")
	}
}

func TestRuleSet_EmptyRuleSetKeepsNonEmptyComments(t *testing.T) {
	rules := RuleSet{}

	if !rules.Qualifies(comment("TFS", "anything", "system")) {
		t.Error("empty rule set should keep typed comments")
	}
	if rules.Qualifies(comment("TFS", "", "text")) {
		t.Error("empty content is always dropped")
	}
}
