package output

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// The PR-ID artifact is the transient hand-off between the enumeration and
// accumulation stages when they run as separate invocations. The format is
// one ID per line with a trailing comma, which is what earlier tooling
// produced; the reader is tolerant so hand-edited lists also work.

// WriteIDList writes pull request IDs to path, one per line.
func WriteIDList(path string, ids []int) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create ID list %s: %w", path, err)
	}

	w := bufio.NewWriter(file)
	for _, id := range ids {
		fmt.Fprintf(w, "%d,\n", id)
	}
	if err := w.Flush(); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to write ID list: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close ID list: %w", err)
	}
	return nil
}

// ReadIDList reads pull request IDs from path, preserving order. Blank lines
// and trailing commas are ignored; anything else that fails to parse as an
// integer is an error.
func ReadIDList(path string) ([]int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ID list %s: %w", path, err)
	}

	var ids []int
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(line), ","))
		if line == "" {
			continue
		}
		id, err := strconv.Atoi(line)
		if err != nil {
			return nil, fmt.Errorf("invalid pull request ID %q in %s: %w", line, path, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// RemoveIDList deletes the transient artifact. A missing file is not an
// error; the artifact may never have been materialized.
func RemoveIDList(path string) error {
	err := os.Remove(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete ID list: %w", err)
	}
	return nil
}
