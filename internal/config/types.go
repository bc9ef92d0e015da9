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

// Package config types define the configuration structures used throughout
// ado-relay. These types represent settings that can be loaded from YAML
// configuration files, environment variables, or command-line flags.
package config

import "github.com/sirseerhq/ado-relay/internal/filter"

// Config represents the complete configuration for ado-relay.
// It consolidates settings from various sources and provides a unified
// interface for accessing configuration values throughout the application.
type Config struct {
	AzureDevOps  AzureDevOpsConfig     `yaml:"azure_devops"`
	Defaults     DefaultsConfig        `yaml:"defaults"`
	Filter       filter.RuleSet        `yaml:"filter"`
	Repositories map[string]RepoConfig `yaml:"repositories"`
	Retry        RetryConfig           `yaml:"retry"`
}

// AzureDevOpsConfig contains Azure DevOps specific settings: the target
// organization and project, the API endpoint, and the name of the
// environment variable holding the personal access token. A custom endpoint
// supports on-premises Azure DevOps Server deployments.
type AzureDevOpsConfig struct {
	Organization string `yaml:"organization"`
	Project      string `yaml:"project"`
	APIEndpoint  string `yaml:"api_endpoint"`
	TokenEnv     string `yaml:"token_env"`
}

// DefaultsConfig contains default settings that apply to all runs unless
// overridden by repository-specific settings or command-line flags.
type DefaultsConfig struct {
	// PageSize is the single-request upper bound on how many pull requests
	// the listing call asks for. The extractor does not paginate; this
	// stands in for "the whole history".
	PageSize int `yaml:"page_size"`

	// TimeoutSeconds bounds each individual remote call.
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// StateDir is where run metadata records are written.
	StateDir string `yaml:"state_dir"`
}

// RepoConfig contains repository-specific overrides that allow fine-tuning
// behavior for individual repositories.
type RepoConfig struct {
	PageSize int `yaml:"page_size"`
}

// RetryConfig controls the bounded retry applied to throttled and
// transiently failing remote calls.
type RetryConfig struct {
	MaxRetries       int `yaml:"max_retries"`
	InitialBackoffMS int `yaml:"initial_backoff_ms"`
	MaxBackoffMS     int `yaml:"max_backoff_ms"`
}

// DefaultConfig returns a Config with sensible defaults suitable for most
// use cases. These defaults target the hosted dev.azure.com service but can
// be overridden for Azure DevOps Server or special requirements.
func DefaultConfig() *Config {
	return &Config{
		AzureDevOps: AzureDevOpsConfig{
			APIEndpoint: "https://dev.azure.com",
			TokenEnv:    "AZURE_DEVOPS_TOKEN",
		},
		Defaults: DefaultsConfig{
			PageSize:       10000,
			TimeoutSeconds: 30,
			StateDir:       "~/.ado-relay/state",
		},
		Filter:       filter.DefaultRuleSet(),
		Repositories: make(map[string]RepoConfig),
		Retry: RetryConfig{
			MaxRetries:       3,
			InitialBackoffMS: 1000,
			MaxBackoffMS:     30000,
		},
	}
}
