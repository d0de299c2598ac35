package gen

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

//go:embed prompts/day_advance.txt
var dayAdvancePrompt string

// GenerationError wraps any remote-path failure (network, timeout,
// malformed or out-of-contract output).
type GenerationError struct {
	Stage string // "call", "empty", "parse"
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("remote generation failed at %s: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Remote asks a generative model for the day-advancement change set.
type Remote struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	validator *Validator
	timeout   time.Duration
	tmpl      *template.Template
}

func NewRemote(ctx context.Context, apiKey, model, schemaPath string, timeout time.Duration) (*Remote, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}

	validator, err := NewValidator(schemaPath)
	if err != nil {
		client.Close()
		return nil, err
	}

	tmpl, err := template.New("day_advance").Parse(dayAdvancePrompt)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("prompt template: %w", err)
	}

	m := client.GenerativeModel(model)
	m.ResponseMIMEType = "application/json"

	return &Remote{
		client:    client,
		model:     m,
		validator: validator,
		timeout:   timeout,
		tmpl:      tmpl,
	}, nil
}

func (r *Remote) Close() { r.client.Close() }

func (r *Remote) Generate(ctx context.Context, snap Snapshot, days int) (ChangeSet, error) {
	var cs ChangeSet

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, struct {
		Snap Snapshot
		Days int
	}{Snap: snap, Days: days}); err != nil {
		return cs, &GenerationError{Stage: "call", Err: err}
	}

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	resp, err := r.model.GenerateContent(callCtx, genai.Text(buf.String()))
	if err != nil {
		return cs, &GenerationError{Stage: "call", Err: err}
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return cs, &GenerationError{Stage: "empty", Err: fmt.Errorf("no candidates returned")}
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return cs, &GenerationError{Stage: "empty", Err: fmt.Errorf("unexpected part type %T", resp.Candidates[0].Content.Parts[0])}
	}

	raw := stripFences(string(text))
	cs, err = r.validator.Parse([]byte(raw))
	if err != nil {
		return cs, &GenerationError{Stage: "parse", Err: err}
	}
	return cs, nil
}

// stripFences tolerates models that wrap JSON in markdown fences
// despite the instructions.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
