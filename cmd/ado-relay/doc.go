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

// Package main implements the ado-relay command-line interface.
// This tool extracts human review comments from Azure DevOps pull
// requests and accumulates them into a JSON collection file.
//
// The CLI supports:
//   - Listing the pull request IDs a user created (prs command)
//   - Accumulating review comments into a growing file (comments command)
//   - Two-stage operation via a saved ID list (--ids-file)
//   - Token authentication via flag or environment variable
//   - Configuration via YAML file, environment variables, and flags
//   - Graceful error handling with appropriate exit codes
//
// Usage:
//
//	ado-relay prs --repository <repo> --user <display name> [flags]
//	ado-relay comments --repository <repo> --user <display name> [flags]
//
// Example:
//
//	export AZURE_DEVOPS_TOKEN=your_token
//	ado-relay comments --organization contoso --project payments \
//	    --repository payments-service --user "Ahmet Atar"
//
// Exit codes:
//   - 0: Success
//   - 1: General error
//   - 2: Authentication/authorization error
//   - 3: Network error
package main
