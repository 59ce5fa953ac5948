// internal/selector/shell.go
package selector

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
)

var (
	modelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	errorText  = color.New(color.FgRed).SprintFunc()
)

// Shell gathers benchmark selections from a line-oriented terminal.
type Shell struct {
	in  *bufio.Reader
	out io.Writer
}

// NewShell wraps the given reader and writer, normally os.Stdin and os.Stdout.
func NewShell(in io.Reader, out io.Writer) *Shell {
	return &Shell{in: bufio.NewReader(in), out: out}
}

func (s *Shell) readLine() (string, error) {
	line, err := s.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Choose prints promptText and loops until the user enters one of the
// allowed choices (case-insensitive).
func (s *Shell) Choose(choices []string, promptText string) (string, error) {
	for {
		fmt.Fprint(s.out, promptText)
		line, err := s.readLine()
		if err != nil {
			return "", err
		}
		choice := strings.ToUpper(line)
		if slices.Contains(choices, choice) {
			return choice, nil
		}
		fmt.Fprintln(s.out, "\nInvalid choice. Please try again.")
	}
}

// ShowModels prints a numbered model list.
func (s *Shell) ShowModels(models []string) {
	fmt.Fprintln(s.out, "\nAvailable models:")
	fmt.Fprintln(s.out)
	for i, name := range models {
		fmt.Fprintln(s.out, modelStyle.Render(fmt.Sprintf("%d. %s", i+1, name)))
	}
}

// Gather runs the interactive selection flow: a three-way menu (pick models,
// pick models to skip, or run all), an optional numbered-index entry, a
// verbosity question when the flag was not set, and a default-vs-custom
// prompt choice. A malformed or out-of-range index entry aborts the whole
// run rather than re-prompting.
func (s *Shell) Gather(models []string, verboseSet, verbose bool, prompts, defaultPrompts []string) (Selection, error) {
	fmt.Fprintln(s.out, "\nWhat would you like to do?")
	choice, err := s.Choose(
		[]string{"A", "B", "C"},
		"A) Select models to benchmark\nB) Select models to skip in benchmark\nC) Run benchmark on all models\n\n>> ",
	)
	if err != nil {
		return Selection{}, err
	}

	var use, skip []string
	if choice == "A" || choice == "B" {
		verb := "use"
		if choice == "B" {
			verb = "skip"
		}
		s.ShowModels(models)
		fmt.Fprintf(s.out, "\nEnter a comma separated list of model numbers to %s (e.g., 1,2,3):\n\n>> ", verb)
		line, err := s.readLine()
		if err != nil {
			return Selection{}, err
		}
		indices, err := ParseIndexSelection(line, len(models))
		if err != nil {
			return Selection{}, err
		}
		picked := make([]string, 0, len(indices))
		for _, i := range indices {
			picked = append(picked, models[i-1])
		}
		if choice == "A" {
			use = picked
		} else {
			skip = picked
		}
	}

	if !verboseSet {
		fmt.Fprint(s.out, "\nVerbose? [y/n] : ")
		line, err := s.readLine()
		if err != nil {
			return Selection{}, err
		}
		verbose = strings.EqualFold(line, "y")
	}

	if len(prompts) == 0 {
		prompts = append([]string(nil), defaultPrompts...)
	}
	label := "Default"
	if !slices.Equal(prompts, defaultPrompts) {
		label = "Currently set"
	}
	promptChoice, err := s.Choose([]string{"A", "B"}, fmt.Sprintf("\nA) Use %s prompts\nB) Use Custom prompts\n\n>> ", label))
	if err != nil {
		return Selection{}, err
	}
	if promptChoice == "B" {
		prompts, err = s.customPrompts()
		if err != nil {
			return Selection{}, err
		}
	}

	selected, err := ResolveModels(models, use, skip)
	if err != nil {
		return Selection{}, err
	}
	return Selection{Models: selected, Prompts: prompts, Verbose: verbose}, nil
}

// customPrompts keeps asking until at least one non-empty prompt is entered.
func (s *Shell) customPrompts() ([]string, error) {
	fmt.Fprintf(s.out, "\nCustom prompts should be separated by %s. Quotes are optional. e.g.: prompt1 %s \"prompt 2\" %s prompt3\n", PromptSeparator, PromptSeparator, PromptSeparator)
	for {
		fmt.Fprintf(s.out, "Enter custom prompts (%s-separated):\n\n>> ", PromptSeparator)
		line, err := s.readLine()
		if err != nil {
			return nil, err
		}
		if prompts := ParseCustomPrompts(line); len(prompts) > 0 {
			return prompts, nil
		}
		fmt.Fprintln(s.out, errorText("\nError: No valid prompts entered. Please try again."))
	}
}
