package benchmark

import (
	"testing"

	"github.com/mwiater/ollamabench/internal/ollama"
)

func TestAggregateEmpty(t *testing.T) {
	t.Parallel()

	if _, ok := Aggregate(nil); ok {
		t.Fatal("expected ok=false for empty input")
	}
	if _, ok := Aggregate([]ollama.ChatResponse{}); ok {
		t.Fatal("expected ok=false for empty slice")
	}
}

func TestAggregateSumsFields(t *testing.T) {
	t.Parallel()

	responses := []ollama.ChatResponse{
		{
			Model:              "m1",
			TotalDuration:      100,
			LoadDuration:       10,
			PromptEvalCount:    5,
			PromptEvalDuration: 50,
			EvalCount:          20,
			EvalDuration:       40,
		},
		{
			Model:              "m1",
			TotalDuration:      200,
			LoadDuration:       20,
			PromptEvalCount:    7,
			PromptEvalDuration: 70,
			EvalCount:          30,
			EvalDuration:       60,
		},
		{
			Model:              "m1",
			TotalDuration:      300,
			LoadDuration:       30,
			PromptEvalCount:    9,
			PromptEvalDuration: 90,
			EvalCount:          40,
			EvalDuration:       80,
		},
	}

	agg, ok := Aggregate(responses)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if agg.Model != "m1" {
		t.Fatalf("model: %s", agg.Model)
	}
	if !agg.Done {
		t.Fatal("expected done=true")
	}
	if agg.Message.Role != "system" || agg.Message.Content != "Average stats across 3 runs" {
		t.Fatalf("message: %+v", agg.Message)
	}
	if agg.TotalDuration != 600 || agg.LoadDuration != 60 {
		t.Fatalf("durations: %d %d", agg.TotalDuration, agg.LoadDuration)
	}
	if agg.PromptEvalCount != 21 || agg.PromptEvalDuration != 210 {
		t.Fatalf("prompt fields: %d %d", agg.PromptEvalCount, agg.PromptEvalDuration)
	}
	if agg.EvalCount != 90 || agg.EvalDuration != 180 {
		t.Fatalf("eval fields: %d %d", agg.EvalCount, agg.EvalDuration)
	}

	// The inputs must be untouched.
	if responses[0].TotalDuration != 100 || responses[2].EvalCount != 40 {
		t.Fatalf("inputs mutated: %+v", responses)
	}
}
