// Package ui renders video listings and download progress, and wraps fzf
// for interactive selection. Items are piped to fzf via stdin as plain
// text; no preview commands are built from remote data.
package ui

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Pick presents items via fzf with multi-select enabled and returns the
// indexes of the chosen items in list order.
func Pick(prompt string, items []string) ([]int, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("no items to select from")
	}

	fzfPath, err := exec.LookPath("fzf")
	if err != nil {
		return nil, fmt.Errorf("fzf not found in PATH: %w", err)
	}

	cmd := exec.Command(fzfPath,
		"--prompt", prompt+" > ",
		"--height", "40%",
		"--reverse",
		"--with-nth", "2..", // hide the index column
		"--delimiter", "\t",
		"--multi",
		"--bind", "ctrl-a:select-all",
		"--cycle",
	)

	cmd.Stdin = strings.NewReader(numbered(items))
	cmd.Stderr = os.Stderr

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && exitErr.ExitCode() == 130 {
			return nil, fmt.Errorf("selection cancelled")
		}
		return nil, fmt.Errorf("fzf failed: %w", err)
	}

	return parseSelection(stdout.String(), len(items))
}

// numbered prefixes each item with its index and a tab.
func numbered(items []string) string {
	var b strings.Builder
	for i, item := range items {
		fmt.Fprintf(&b, "%d\t%s\n", i, strings.ReplaceAll(item, "\n", " "))
	}
	return b.String()
}

// parseSelection extracts item indexes from fzf output lines, sorted and
// without duplicates.
func parseSelection(out string, n int) ([]int, error) {
	seen := make([]bool, n)
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		field := strings.SplitN(line, "\t", 2)[0]
		var idx int
		if _, err := fmt.Sscanf(field, "%d", &idx); err != nil {
			return nil, fmt.Errorf("parsing selection index: %w", err)
		}
		if idx < 0 || idx >= n {
			return nil, fmt.Errorf("selection index %d out of range", idx)
		}
		seen[idx] = true
	}

	var picked []int
	for i, ok := range seen {
		if ok {
			picked = append(picked, i)
		}
	}
	if len(picked) == 0 {
		return nil, fmt.Errorf("no selection made")
	}
	return picked, nil
}
