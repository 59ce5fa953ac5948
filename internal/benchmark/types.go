// internal/benchmark/types.go
package benchmark

import (
	"github.com/mwiater/ollamabench/internal/ollama"
)

// BenchmarkRun accumulates responses per model. Models preserves selection
// order so reports print in the order models were benchmarked; Responses
// holds one entry per completed prompt, in prompt order.
type BenchmarkRun struct {
	Models    []string
	Responses map[string][]ollama.ChatResponse
}

// NewBenchmarkRun returns an empty run accumulator.
func NewBenchmarkRun() *BenchmarkRun {
	return &BenchmarkRun{Responses: make(map[string][]ollama.ChatResponse)}
}

// Track registers a model so it appears in reports even if every request
// for it fails.
func (r *BenchmarkRun) Track(model string) {
	if _, ok := r.Responses[model]; ok {
		return
	}
	r.Models = append(r.Models, model)
	r.Responses[model] = nil
}

// Add appends a response to the model's sequence.
func (r *BenchmarkRun) Add(model string, resp ollama.ChatResponse) {
	r.Track(model)
	r.Responses[model] = append(r.Responses[model], resp)
}
