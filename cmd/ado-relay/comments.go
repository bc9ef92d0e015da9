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
	"github.com/sirseerhq/ado-relay/internal/config"
	"github.com/sirseerhq/ado-relay/internal/metadata"
	"github.com/sirseerhq/ado-relay/internal/output"
	"github.com/sirseerhq/ado-relay/pkg/version"
	"github.com/spf13/cobra"
)

// commentsCmd represents the comments command
func newCommentsCommand() *cobra.Command {
	var (
		opts    commonOptions
		dedupe  bool
		idsFile string
	)

	cmd := &cobra.Command{
		Use:   "comments",
		Short: "Accumulate review comments from a user's pull requests",
		Long: `Fetch the comment threads of every pull request a user created in a
repository, drop system-generated comments, and append the human review
comments to a JSON collection file.

The collection file grows across runs: existing records are never
modified or removed, new records are appended at the end. Pass --dedupe
to skip records already present in the file.

By default the pull requests are enumerated in-process. Pass --ids-file
to read a previously saved ID list instead; the file is deleted after a
successful run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runComments(cmd.Context(), &opts, dedupe, idsFile)
		},
	}

	addCommonFlags(cmd, &opts, "pr_comments.json")
	cmd.Flags().BoolVar(&dedupe, "dedupe", false, "Skip comments already present in the output file")
	cmd.Flags().StringVar(&idsFile, "ids-file", "", "Read pull request IDs from this file instead of enumerating")

	return cmd
}

// runComments executes the comments command
func runComments(ctx context.Context, opts *commonOptions, dedupe bool, idsFile string) error {
	cfg, err := resolveConfig(opts)
	if err != nil {
		return err
	}

	token := getToken(opts.token, cfg.AzureDevOps.TokenEnv)
	if token == "" {
		return fmt.Errorf("Azure DevOps token not found. Set %s or use --token flag", cfg.AzureDevOps.TokenEnv)
	}

	client := newClient(cfg, token)
	tracker := metadata.New()

	repo, err := client.GetRepository(ctx, opts.repository)
	if err != nil {
		return err
	}

	var prIDs []int
	if idsFile != "" {
		prIDs, err = output.ReadIDList(idsFile)
		if err != nil {
			return err
		}
	} else {
		fmt.Fprintf(os.Stderr, "Fetching PRs for user: %s...\n", opts.user)
		prIDs, err = collect.NewEnumerator(client).PullRequestIDs(ctx, repo.ID, opts.user, cfg.Defaults.PageSize)
		if err != nil {
			return err
		}
	}

	store := output.NewStore(opts.outputFile)
	existing, reset, err := store.Load()
	if err != nil {
		return err
	}
	if reset {
		fmt.Fprintf(os.Stderr, "Warning: %s is not a valid comment collection, starting fresh\n", opts.outputFile)
	}

	accumulator := collect.NewAccumulator(client, cfg.Filter, os.Stderr)
	result, err := accumulator.Collect(ctx, repo.ID, prIDs)
	if err != nil {
		return err
	}

	merged := output.Merge(existing, result.Records, dedupe)
	appended := len(merged) - len(existing)

	if err := store.Save(merged); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Successfully saved %d new comments to %s\n", appended, opts.outputFile)
	fmt.Fprintf(os.Stderr, "Total comments in file: %d\n", len(merged))

	tracker.RecordPRs(result.Processed, result.Failed)
	tracker.RecordComments(len(result.Records), appended)
	saveRunMetadata(cfg, opts, tracker, dedupe)

	// The ID list is a transient hand-off; clean it up once the comments
	// landed safely.
	if idsFile != "" {
		if err := output.RemoveIDList(idsFile); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	return nil
}

// saveRunMetadata writes the audit record for this run. Metadata is
// best-effort: a failure here must not fail a run whose comments were
// already saved.
func saveRunMetadata(cfg *config.Config, opts *commonOptions, tracker *metadata.Tracker, dedupe bool) {
	var previousRun *metadata.RunRef
	previous, err := metadata.LoadLatestMetadata(cfg.Defaults.StateDir,
		cfg.AzureDevOps.Organization, cfg.AzureDevOps.Project, opts.repository)
	if err == nil && previous != nil {
		previousRun = &metadata.RunRef{
			RunID:       previous.RunID,
			CompletedAt: previous.Results.CompletedAt,
		}
	}

	md := tracker.Generate(version.Version, metadata.RunParams{
		Organization: cfg.AzureDevOps.Organization,
		Project:      cfg.AzureDevOps.Project,
		Repository:   opts.repository,
		User:         opts.user,
		PageSize:     cfg.Defaults.PageSize,
		Dedupe:       dedupe,
	}, previousRun)

	if err := metadata.SaveMetadata(md, cfg.Defaults.StateDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to save run metadata: %v\n", err)
	}
}
