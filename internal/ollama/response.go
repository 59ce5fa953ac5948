// internal/ollama/response.go
package ollama

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/xeipuuv/gojsonschema"
)

// ChatMessage represents a single message in a chat exchange.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatResponse is the validated form of a final chat response from the
// Ollama API. Duration fields are reported by the server in nanoseconds.
// Instances are never mutated after construction; aggregation produces a
// new value.
type ChatResponse struct {
	Model              string      `json:"model"`
	CreatedAt          time.Time   `json:"created_at"`
	Message            ChatMessage `json:"message"`
	Done               bool        `json:"done"`
	TotalDuration      int64       `json:"total_duration"`
	LoadDuration       int64       `json:"load_duration"`
	PromptEvalCount    int         `json:"prompt_eval_count"`
	PromptEvalDuration int64       `json:"prompt_eval_duration"`
	EvalCount          int         `json:"eval_count"`
	EvalDuration       int64       `json:"eval_duration"`
}

// ValidationError reports a chat response that failed schema validation.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid chat response: %s", strings.Join(e.Problems, "; "))
}

// responseSchema describes the final chat response contract. load_duration
// may be omitted (defaults to 0) and prompt_eval_count may be omitted or -1
// (the prompt-cache sentinel); everything else is required.
const responseSchema = `{
  "type": "object",
  "required": ["model", "created_at", "message", "done", "total_duration", "prompt_eval_duration", "eval_count", "eval_duration"],
  "properties": {
    "model": {"type": "string"},
    "created_at": {"type": "string"},
    "message": {
      "type": "object",
      "required": ["role", "content"],
      "properties": {
        "role": {"type": "string"},
        "content": {"type": "string"}
      }
    },
    "done": {"type": "boolean"},
    "total_duration": {"type": "integer", "minimum": 0},
    "load_duration": {"type": "integer", "minimum": 0},
    "prompt_eval_count": {"type": "integer", "minimum": -1},
    "prompt_eval_duration": {"type": "integer", "minimum": 0},
    "eval_count": {"type": "integer", "minimum": 0},
    "eval_duration": {"type": "integer", "minimum": 0}
  }
}`

var responseSchemaLoader = gojsonschema.NewStringLoader(responseSchema)

// warnMissingPromptCount is indirected so tests can count warning emissions.
var warnMissingPromptCount = func() {
	warn := color.New(color.FgYellow).SprintFunc()
	fmt.Fprintln(os.Stderr, warn("\nWarning: prompt token count was not provided, potentially due to prompt caching. For more info, see https://github.com/ollama/ollama/issues/2068"))
}

// ValidateResponse validates a raw final chat response and normalizes it
// into a ChatResponse. A missing prompt_eval_count, or the -1 sentinel the
// server sends on prompt-cache hits, is replaced with 0 after emitting
// exactly one warning.
func ValidateResponse(raw []byte) (ChatResponse, error) {
	result, err := gojsonschema.Validate(responseSchemaLoader, gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return ChatResponse{}, &ValidationError{Problems: []string{err.Error()}}
	}
	if !result.Valid() {
		var problems []string
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return ChatResponse{}, &ValidationError{Problems: problems}
	}

	var decoded struct {
		Model              string      `json:"model"`
		CreatedAt          time.Time   `json:"created_at"`
		Message            ChatMessage `json:"message"`
		Done               bool        `json:"done"`
		TotalDuration      int64       `json:"total_duration"`
		LoadDuration       int64       `json:"load_duration"`
		PromptEvalCount    *int        `json:"prompt_eval_count"`
		PromptEvalDuration int64       `json:"prompt_eval_duration"`
		EvalCount          int         `json:"eval_count"`
		EvalDuration       int64       `json:"eval_duration"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return ChatResponse{}, &ValidationError{Problems: []string{err.Error()}}
	}

	promptEvalCount := 0
	if decoded.PromptEvalCount == nil || *decoded.PromptEvalCount == -1 {
		warnMissingPromptCount()
	} else {
		promptEvalCount = *decoded.PromptEvalCount
	}

	return ChatResponse{
		Model:              decoded.Model,
		CreatedAt:          decoded.CreatedAt,
		Message:            decoded.Message,
		Done:               decoded.Done,
		TotalDuration:      decoded.TotalDuration,
		LoadDuration:       decoded.LoadDuration,
		PromptEvalCount:    promptEvalCount,
		PromptEvalDuration: decoded.PromptEvalDuration,
		EvalCount:          decoded.EvalCount,
		EvalDuration:       decoded.EvalDuration,
	}, nil
}
