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

// Package output persists the two artifacts the extractor produces: the
// durable comment collection (a JSON array file that grows across runs)
// and the transient pull request ID list used to hand off between the
// enumeration and accumulation stages.
//
// The collection file is the only durable state in the system. Every save
// rewrites it atomically (write-to-temp-and-rename) so a failed run can
// never corrupt records collected by earlier runs.
//
// Example usage:
//
//	store := output.NewStore("pr_comments.json")
//	existing, reset, err := store.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	merged := output.Merge(existing, newRecords, false)
//	if err := store.Save(merged); err != nil {
//	    log.Fatal(err)
//	}
package output
