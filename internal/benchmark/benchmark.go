// internal/benchmark/benchmark.go
// Package benchmark drives benchmark runs and derives throughput statistics
// from the timing metadata Ollama reports with each response.
package benchmark

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/mwiater/ollamabench/internal/ollama"
	"github.com/mwiater/ollamabench/internal/selector"
	"github.com/mwiater/ollamabench/internal/util"
)

var (
	errorText = color.New(color.FgRed).SprintFunc()
	warnText  = color.New(color.FgYellow).SprintFunc()
)

// ChatClient is the subset of the ollama client the driver needs.
type ChatClient interface {
	Chat(ctx context.Context, model, prompt string, stream bool, onChunk func(ollama.ChatMessage) error) (ollama.ChatResponse, error)
	Unload(ctx context.Context, model string) error
}

// Options control a benchmark run.
type Options struct {
	// Unload evicts each model from host memory before its first request so
	// load time is measured cold.
	Unload bool
	Out    io.Writer
}

// Run benchmarks each selected model against each prompt, one request at a
// time. Requests are strictly sequential: overlapping them would contend
// for the model host and skew every throughput number being measured. A
// request that fails or returns no final response is reported and skipped;
// the rest of the run continues and the pair is simply absent from that
// model's sequence.
func Run(ctx context.Context, client ChatClient, sel selector.Selection, opts Options) *BenchmarkRun {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	run := NewBenchmarkRun()
	for _, model := range sel.Models {
		run.Track(model)

		if opts.Unload {
			if err := client.Unload(ctx, model); err != nil {
				fmt.Fprintln(out, warnText(fmt.Sprintf("Warning: could not unload %s: %v", model, err)))
			}
		}

		for _, prompt := range sel.Prompts {
			if sel.Verbose {
				fmt.Fprintf(out, "\n\nBenchmarking: %s\nPrompt: %s\nResponse:\n", model, util.TruncateRunes(prompt, 80))
			}

			resp, err := runOne(ctx, client, model, prompt, sel.Verbose, out)
			if err != nil {
				fmt.Fprintln(out, errorText(fmt.Sprintf("\nError benchmarking %s: %v (skipping)", model, err)))
				continue
			}
			run.Add(model, resp)

			if sel.Verbose {
				fmt.Fprintln(out)
				fmt.Fprintln(out, RenderStats(resp))
			}
		}
	}
	return run
}

func runOne(ctx context.Context, client ChatClient, model, prompt string, verbose bool, out io.Writer) (ollama.ChatResponse, error) {
	if !verbose {
		return client.Chat(ctx, model, prompt, false, nil)
	}
	return client.Chat(ctx, model, prompt, true, func(msg ollama.ChatMessage) error {
		fmt.Fprint(out, msg.Content)
		return nil
	})
}

// Report prints the per-model average statistics for a completed run. A
// model with no successful responses gets an informational notice instead
// of a report.
func Report(run *BenchmarkRun, out io.Writer) {
	for _, model := range run.Models {
		agg, ok := Aggregate(run.Responses[model])
		if !ok {
			fmt.Fprintf(out, "\nNo stats to average for %s\n", model)
			continue
		}
		fmt.Fprintln(out, "\nAverage stats:")
		fmt.Fprintln(out, RenderStats(agg))
	}
}
