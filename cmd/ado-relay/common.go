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
	"fmt"
	"os"
	"time"

	"github.com/sirseerhq/ado-relay/internal/azdevops"
	"github.com/sirseerhq/ado-relay/internal/config"
	"github.com/spf13/cobra"
)

// commonOptions holds the flags shared by both subcommands.
type commonOptions struct {
	configPath   string
	organization string
	project      string
	token        string
	repository   string
	user         string
	outputFile   string
	timeoutSecs  int
	top          int
}

// addCommonFlags registers the shared flag set. Repository and user are
// required; everything else falls back to config file, environment, or
// built-in defaults.
func addCommonFlags(cmd *cobra.Command, opts *commonOptions, defaultOutput string) {
	cmd.Flags().StringVar(&opts.configPath, "config", "", "Path to config file (default: auto-discover)")
	cmd.Flags().StringVar(&opts.organization, "organization", "", "Azure DevOps organization (overrides config and ADO_ORGANIZATION)")
	cmd.Flags().StringVar(&opts.project, "project", "", "Azure DevOps project (overrides config and ADO_PROJECT)")
	cmd.Flags().StringVar(&opts.token, "token", "", "Personal access token (overrides the token environment variable)")
	cmd.Flags().StringVar(&opts.repository, "repository", "", "Repository name within the project")
	cmd.Flags().StringVar(&opts.user, "user", "", "Display name of the pull request author")
	cmd.Flags().StringVar(&opts.outputFile, "output", defaultOutput, "Output file path")
	cmd.Flags().IntVar(&opts.timeoutSecs, "timeout", 0, "Per-call timeout in seconds (overrides config)")
	cmd.Flags().IntVar(&opts.top, "top", 0, "Maximum pull requests to list in one request (overrides config)")

	_ = cmd.MarkFlagRequired("repository")
	_ = cmd.MarkFlagRequired("user")
}

// resolveConfig loads configuration and applies the flag overrides on top,
// completing the flags > env > file > defaults precedence chain.
func resolveConfig(opts *commonOptions) (*config.Config, error) {
	cfg, err := config.LoadConfigForRepo(opts.configPath, opts.repository)
	if err != nil {
		return nil, err
	}

	if opts.organization != "" {
		cfg.AzureDevOps.Organization = opts.organization
	}
	if opts.project != "" {
		cfg.AzureDevOps.Project = opts.project
	}
	if opts.timeoutSecs > 0 {
		cfg.Defaults.TimeoutSeconds = opts.timeoutSecs
	}
	if opts.top > 0 {
		cfg.Defaults.PageSize = opts.top
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.AzureDevOps.Organization == "" {
		return nil, fmt.Errorf("organization not set. Use --organization, ADO_ORGANIZATION, or the config file")
	}
	if cfg.AzureDevOps.Project == "" {
		return nil, fmt.Errorf("project not set. Use --project, ADO_PROJECT, or the config file")
	}

	return cfg, nil
}

// getToken returns the personal access token from the flag or from the
// configured environment variable.
func getToken(flagToken, tokenEnv string) string {
	if flagToken != "" {
		return flagToken
	}
	return os.Getenv(tokenEnv)
}

// newClient builds the REST client wrapped with retry, configured from the
// resolved settings.
func newClient(cfg *config.Config, token string) azdevops.Client {
	rest := azdevops.NewRESTClient(azdevops.ClientConfig{
		Endpoint:     cfg.AzureDevOps.APIEndpoint,
		Organization: cfg.AzureDevOps.Organization,
		Project:      cfg.AzureDevOps.Project,
		Token:        token,
		Timeout:      time.Duration(cfg.Defaults.TimeoutSeconds) * time.Second,
	})

	return azdevops.NewRetryClient(rest, &azdevops.RetryConfig{
		MaxRetries:        cfg.Retry.MaxRetries,
		InitialBackoff:    time.Duration(cfg.Retry.InitialBackoffMS) * time.Millisecond,
		MaxBackoff:        time.Duration(cfg.Retry.MaxBackoffMS) * time.Millisecond,
		BackoffMultiplier: 2.0,
	})
}
