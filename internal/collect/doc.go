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

// Package collect implements the two stages of the extraction pipeline:
// enumerating the pull requests a user authored, and accumulating the
// human review comments left on them.
//
// The Enumerator returns IDs directly to the caller, so an in-process
// pipeline needs no intermediate file; the CLI still materializes the list
// when the stages run as separate invocations.
//
// The Accumulator is strictly sequential: one remote call per pull request,
// in enumeration order. A failed pull request is skipped with a warning on
// the diagnostics stream rather than aborting the run; enumeration
// failures, by contrast, abort before anything is written.
package collect
