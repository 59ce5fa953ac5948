// internal/benchmark/aggregate.go
package benchmark

import (
	"fmt"
	"time"

	"github.com/mwiater/ollamabench/internal/ollama"
)

// Aggregate sums the numeric fields of one model's responses into a single
// synthetic response, so the usual throughput math yields averages weighted
// by actual token counts. The inputs are never mutated. ok is false when
// there is nothing to aggregate.
func Aggregate(responses []ollama.ChatResponse) (ollama.ChatResponse, bool) {
	if len(responses) == 0 {
		return ollama.ChatResponse{}, false
	}

	agg := ollama.ChatResponse{
		Model:     responses[0].Model,
		CreatedAt: time.Now(),
		Message: ollama.ChatMessage{
			Role:    "system",
			Content: fmt.Sprintf("Average stats across %d runs", len(responses)),
		},
		Done: true,
	}
	for _, r := range responses {
		agg.TotalDuration += r.TotalDuration
		agg.LoadDuration += r.LoadDuration
		agg.PromptEvalCount += r.PromptEvalCount
		agg.PromptEvalDuration += r.PromptEvalDuration
		agg.EvalCount += r.EvalCount
		agg.EvalDuration += r.EvalDuration
	}
	return agg, true
}
