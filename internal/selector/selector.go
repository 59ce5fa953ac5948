// internal/selector/selector.go
// Package selector resolves which models and prompts a benchmark run will
// use, either from flags or by gathering choices interactively. The parsing
// and resolution logic is kept in pure functions so the interactive shell
// stays a thin input gatherer.
package selector

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// PromptSeparator delimits prompts when several are entered on one line.
const PromptSeparator = "|"

// Selection is the fully resolved configuration for one benchmark run.
type Selection struct {
	Models  []string
	Prompts []string
	Verbose bool
}

// ErrConflictingFilters is returned when both a use list and a skip list are
// supplied; the two are mutually exclusive.
var ErrConflictingFilters = errors.New("cannot provide both models to use and models to skip at the same time")

// InputFormatError reports interactive selection input that could not be used.
type InputFormatError struct {
	Input  string
	Reason string
}

func (e *InputFormatError) Error() string {
	return fmt.Sprintf("invalid selection %q: %s", e.Input, e.Reason)
}

var indexInputPattern = regexp.MustCompile(`^[0-9,]+$`)

// NormalizeIndexInput strips spaces from a comma-separated index list and
// verifies it contains only digits and commas.
func NormalizeIndexInput(input string) (string, error) {
	normalized := strings.ReplaceAll(input, " ", "")
	if !indexInputPattern.MatchString(normalized) {
		return "", &InputFormatError{Input: input, Reason: "only digits and commas are allowed"}
	}
	return normalized, nil
}

// ParseIndexSelection parses a comma-separated list of 1-based indices and
// checks every entry against [1, max].
func ParseIndexSelection(input string, max int) ([]int, error) {
	normalized, err := NormalizeIndexInput(input)
	if err != nil {
		return nil, err
	}

	var indices []int
	for _, part := range strings.Split(normalized, ",") {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, &InputFormatError{Input: input, Reason: fmt.Sprintf("%q is not a number", part)}
		}
		if n < 1 || n > max {
			return nil, &InputFormatError{Input: input, Reason: fmt.Sprintf("selection %d is out of range [1, %d]", n, max)}
		}
		indices = append(indices, n)
	}
	return indices, nil
}

// ResolveModels applies the use/skip filters to the full model list,
// preserving the order of all. An empty use and skip keeps every model.
func ResolveModels(all, use, skip []string) ([]string, error) {
	if len(use) > 0 && len(skip) > 0 {
		return nil, ErrConflictingFilters
	}

	selected := make([]string, 0, len(all))
	switch {
	case len(use) > 0:
		wanted := make(map[string]struct{}, len(use))
		for _, m := range use {
			wanted[m] = struct{}{}
		}
		for _, m := range all {
			if _, ok := wanted[m]; ok {
				selected = append(selected, m)
			}
		}
	case len(skip) > 0:
		unwanted := make(map[string]struct{}, len(skip))
		for _, m := range skip {
			unwanted[m] = struct{}{}
		}
		for _, m := range all {
			if _, ok := unwanted[m]; !ok {
				selected = append(selected, m)
			}
		}
	default:
		selected = append(selected, all...)
	}
	return selected, nil
}

// ParseCustomPrompts splits one line of user input on the prompt separator,
// trims whitespace, strips surrounding double quotes, and drops empty
// segments.
func ParseCustomPrompts(input string) []string {
	var prompts []string
	for _, part := range strings.Split(input, PromptSeparator) {
		prompt := strings.Trim(strings.TrimSpace(part), `"`)
		if prompt != "" {
			prompts = append(prompts, prompt)
		}
	}
	return prompts
}
