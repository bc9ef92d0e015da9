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

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirseerhq/ado-relay/internal/collect"
	"github.com/sirseerhq/ado-relay/internal/output"
	"github.com/spf13/cobra"
)

// prsCmd represents the prs command
func newPrsCommand() *cobra.Command {
	var opts commonOptions

	cmd := &cobra.Command{
		Use:   "prs",
		Short: "List the pull request IDs a user created in a repository",
		Long: `List the IDs of pull requests a user created in a repository and write
them to a file, one ID per line.

Only active and completed pull requests are listed. The user match is
exact against the Azure DevOps display name.

Authentication is required via a personal access token:
  - Use --token flag to provide the token directly
  - Or set the AZURE_DEVOPS_TOKEN environment variable`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrs(cmd.Context(), &opts)
		},
	}

	addCommonFlags(cmd, &opts, "user_prs.json")

	return cmd
}

// runPrs executes the prs command
func runPrs(ctx context.Context, opts *commonOptions) error {
	cfg, err := resolveConfig(opts)
	if err != nil {
		return err
	}

	token := getToken(opts.token, cfg.AzureDevOps.TokenEnv)
	if token == "" {
		return fmt.Errorf("Azure DevOps token not found. Set %s or use --token flag", cfg.AzureDevOps.TokenEnv)
	}

	client := newClient(cfg, token)

	fmt.Fprintf(os.Stderr, "Fetching PRs for user: %s...\n", opts.user)

	repo, err := client.GetRepository(ctx, opts.repository)
	if err != nil {
		return err
	}

	ids, err := collect.NewEnumerator(client).PullRequestIDs(ctx, repo.ID, opts.user, cfg.Defaults.PageSize)
	if err != nil {
		return err
	}

	if err := output.WriteIDList(opts.outputFile, ids); err != nil {
		return err
	}

	// An empty list is a successful outcome; the file is still written so a
	// later comments run sees an explicit empty hand-off.
	if len(ids) == 0 {
		fmt.Fprintf(os.Stderr, "No pull requests found for %s in %s\n", opts.user, opts.repository)
	} else {
		fmt.Fprintf(os.Stderr, "Found %d PRs created by %s\n", len(ids), opts.user)
	}
	fmt.Fprintf(os.Stderr, "Saved PR IDs to %s\n", opts.outputFile)

	return nil
}
