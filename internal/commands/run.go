// internal/commands/run.go
package ollamabench

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"

	"github.com/mwiater/ollamabench/internal/appconfig"
	"github.com/mwiater/ollamabench/internal/benchmark"
	"github.com/mwiater/ollamabench/internal/logging"
	"github.com/mwiater/ollamabench/internal/ollama"
	"github.com/mwiater/ollamabench/internal/selector"
)

var (
	runVerbose bool
	runAll     bool
	runSkip    []string
	runUse     []string
	runPrompts []string
)

// runCmd benchmarks the selected models against the selected prompts and
// prints per-model average throughput reports.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Benchmark models served by the configured Ollama host",
	Long: `The 'run' subcommand sends each selected prompt to each selected model,
one request at a time, and reports tokens-per-second statistics per model.
With no selection flags it walks through an interactive menu.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBenchmark(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "stream tokens as they are generated and print per-response stats")
	runCmd.Flags().BoolVarP(&runAll, "all", "a", false, "benchmark every available model")
	runCmd.Flags().StringSliceVarP(&runSkip, "skip-models", "s", nil, "model names to exclude from the benchmark")
	runCmd.Flags().StringSliceVarP(&runUse, "use-models", "u", nil, "model names to benchmark exclusively")
	runCmd.Flags().StringSliceVarP(&runPrompts, "prompts", "p", nil, "prompts to send to each model (default: two built-in prompts)")
}

func runBenchmark(cmd *cobra.Command) error {
	// Conflicting filters abort before any request is sent.
	if len(runUse) > 0 && len(runSkip) > 0 {
		return selector.ErrConflictingFilters
	}

	cfg := GetConfig()
	client := ollama.NewClient(cfg.Host(), cfg.RequestTimeout(), cfg.Debug)
	ctx := context.Background()

	models, err := client.ListModels(ctx)
	if err != nil {
		return err
	}
	if len(models) == 0 {
		fmt.Println("\nNo models found with ollama. Pull some models first")
		return nil
	}

	prompts := runPrompts
	if len(prompts) == 0 {
		prompts = cfg.BenchmarkPrompts()
	}

	var sel selector.Selection
	if !runAll && len(runUse) == 0 && len(runSkip) == 0 {
		shell := selector.NewShell(os.Stdin, os.Stdout)
		sel, err = shell.Gather(models, cmd.Flags().Changed("verbose"), runVerbose, prompts, appconfig.DefaultPrompts())
		if err != nil {
			return err
		}
	} else {
		// Explicit use/skip lists take precedence over --all.
		selected, err := selector.ResolveModels(models, runUse, runSkip)
		if err != nil {
			return err
		}
		sel = selector.Selection{Models: selected, Prompts: prompts, Verbose: runVerbose}
	}

	if len(sel.Models) == 0 {
		fmt.Println("No models selected.")
		return nil
	}

	if cfg.Debug {
		pp.Println(sel)
	}
	fmt.Printf("\nVerbose: %t\nModels: %s\nPrompts: %d\n", sel.Verbose, strings.Join(sel.Models, ", "), len(sel.Prompts))
	if len(sel.Models) == len(models) {
		fmt.Println("\nRunning benchmark on all available models")
	}

	run := benchmark.Run(ctx, client, sel, benchmark.Options{Unload: cfg.Unload, Out: os.Stdout})
	benchmark.Report(run, os.Stdout)

	if dir := strings.TrimSpace(cfg.ResultsDir); dir != "" {
		fileName, err := benchmark.WriteResults(run, dir)
		if err != nil {
			return err
		}
		logging.LogEvent("Benchmark results written to %s", fileName)
	}
	return nil
}
