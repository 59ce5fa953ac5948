// internal/benchmark/stats.go
package benchmark

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mwiater/ollamabench/internal/ollama"
)

var (
	reportStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 2)
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
)

// ThroughputStats holds the derived token rates for a single response.
type ThroughputStats struct {
	PromptTokensPerSec   float64 `json:"promptTokensPerSec"`
	ResponseTokensPerSec float64 `json:"responseTokensPerSec"`
	TotalTokensPerSec    float64 `json:"totalTokensPerSec"`
}

// Throughput derives token rates from the server-reported counts and
// durations. A zero or negative duration yields a rate of 0 rather than
// dividing by zero: a response that reports no elapsed time carries no
// usable rate.
func Throughput(resp ollama.ChatResponse) ThroughputStats {
	return ThroughputStats{
		PromptTokensPerSec:   rate(resp.PromptEvalCount, resp.PromptEvalDuration),
		ResponseTokensPerSec: rate(resp.EvalCount, resp.EvalDuration),
		TotalTokensPerSec:    rate(resp.PromptEvalCount+resp.EvalCount, resp.PromptEvalDuration+resp.EvalDuration),
	}
}

func rate(tokens int, durationNs int64) float64 {
	if durationNs <= 0 {
		return 0
	}
	return float64(tokens) / nanosecToSec(durationNs)
}

func nanosecToSec(ns int64) float64 {
	return float64(ns) / 1e9
}

// RenderStats formats the throughput report block for a single response.
func RenderStats(resp ollama.ChatResponse) string {
	stats := Throughput(resp)

	var b strings.Builder
	b.WriteString(titleStyle.Render(resp.Model))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  Prompt eval: %.2f t/s\n", stats.PromptTokensPerSec)
	fmt.Fprintf(&b, "  Response:    %.2f t/s\n", stats.ResponseTokensPerSec)
	fmt.Fprintf(&b, "  Total:       %.2f t/s\n", stats.TotalTokensPerSec)
	b.WriteString("\nStats:\n")
	fmt.Fprintf(&b, "  Prompt tokens:    %d\n", resp.PromptEvalCount)
	fmt.Fprintf(&b, "  Response tokens:  %d\n", resp.EvalCount)
	fmt.Fprintf(&b, "  Model load time:  %.2fs\n", nanosecToSec(resp.LoadDuration))
	fmt.Fprintf(&b, "  Prompt eval time: %.2fs\n", nanosecToSec(resp.PromptEvalDuration))
	fmt.Fprintf(&b, "  Response time:    %.2fs\n", nanosecToSec(resp.EvalDuration))
	fmt.Fprintf(&b, "  Total time:       %.2fs", nanosecToSec(resp.TotalDuration))

	return reportStyle.Render(b.String())
}
