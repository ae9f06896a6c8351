package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/invopop/jsonschema"
)

// ErrNoPayload is returned when a model reply contains no JSON value.
var ErrNoPayload = errors.New("no JSON payload in model output")

// Completion is a single-turn text completion.
type Completion interface {
	Name() string
	Complete(ctx context.Context, prompt string) (string, error)
}

// ExtractJSON returns the JSON object or array embedded in a model reply,
// tolerating markdown code fences and surrounding prose. When prose holds
// brackets of its own, the first span that is valid JSON wins.
func ExtractJSON(text string) (string, error) {
	candidates, err := Payloads(text)
	if err != nil {
		return "", err
	}
	return candidates[0], nil
}

// Payloads lists the JSON spans of a model reply that are valid JSON, the
// earliest-starting first. It fails when there are none.
func Payloads(text string) ([]string, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return nil, io.ErrUnexpectedEOF
	}
	if json.Valid([]byte(s)) {
		return []string{s}, nil
	}

	type span struct{ start, end int }
	var spans []span
	for _, d := range []struct{ open, close byte }{{'{', '}'}, {'[', ']'}} {
		start := strings.IndexByte(s, d.open)
		end := strings.LastIndexByte(s, d.close)
		if start != -1 && end > start {
			spans = append(spans, span{start, end})
		}
	}
	if len(spans) == 2 && spans[1].start < spans[0].start {
		spans[0], spans[1] = spans[1], spans[0]
	}

	var out []string
	for _, sp := range spans {
		if candidate := s[sp.start : sp.end+1]; json.Valid([]byte(candidate)) {
			out = append(out, candidate)
		}
	}
	if len(out) == 0 {
		return nil, ErrNoPayload
	}
	return out, nil
}

// DecodeJSON unmarshals the first payload of a model reply that fits v.
func DecodeJSON(text string, v any) error {
	candidates, err := Payloads(text)
	if err != nil {
		return err
	}
	for _, payload := range candidates {
		if err = json.Unmarshal([]byte(payload), v); err == nil {
			return nil
		}
	}
	return fmt.Errorf("unmarshal model output: %w", err)
}

// Schema renders the JSON schema of T for embedding into prompts.
func Schema[T any]() string {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: false,
	}
	var v T
	b, err := json.MarshalIndent(reflector.Reflect(v), "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}
