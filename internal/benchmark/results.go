// internal/benchmark/results.go
package benchmark

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mwiater/ollamabench/internal/ollama"
	"github.com/mwiater/ollamabench/internal/util"
)

// ExportedResult is the per-model payload written by WriteResults.
type ExportedResult struct {
	ModelName string                `json:"modelName"`
	Runs      int                   `json:"runs"`
	Responses []ollama.ChatResponse `json:"responses"`
	Average   *ThroughputStats      `json:"average,omitempty"`
}

// WriteResults writes the raw responses and aggregate throughput for every
// benchmarked model to a JSON file under dir, named after the models in the
// run. It returns the path of the written file.
func WriteResults(run *BenchmarkRun, dir string) (string, error) {
	results := make(map[string]ExportedResult, len(run.Models))
	for _, model := range run.Models {
		responses := run.Responses[model]
		result := ExportedResult{
			ModelName: model,
			Runs:      len(responses),
			Responses: responses,
		}
		if agg, ok := Aggregate(responses); ok {
			stats := Throughput(agg)
			result.Average = &stats
		}
		results[model] = result
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating results directory: %w", err)
	}
	fileName := filepath.Join(dir, fmt.Sprintf("%s-%d.json", util.Slugify(strings.Join(run.Models, "-")), len(run.Models)))

	file, err := os.Create(fileName)
	if err != nil {
		return "", fmt.Errorf("error creating result file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(results); err != nil {
		return "", fmt.Errorf("error writing results to file: %w", err)
	}

	return fileName, nil
}
