package grader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lfreitas/redator/internal/correction"
	"github.com/lfreitas/redator/internal/llm"
)

// Config controls the behavior of the Grader.
type Config struct {
	// MaxTokens is the token budget for the correction response.
	// Per-competency feedback is verbose, so the budget is generous.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0). Grading
	// should be consistent, so it defaults low.
	Temperature float64
}

// DefaultConfig returns a Config with recommended defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   4096,
		Temperature: 0.2,
	}
}

// RequestError indicates the correction request never produced a usable
// response: transport failure, rate limit, provider outage.
type RequestError struct {
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("correction request failed: %v", e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// ResponseError indicates the provider responded but the payload could
// not be turned into a valid correction.
type ResponseError struct {
	Err error
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("invalid correction response: %v", e.Err)
}

func (e *ResponseError) Unwrap() error { return e.Err }

// Grader produces structured ENEM corrections from essay text using
// the LLM provider.
type Grader struct {
	provider llm.Provider
	config   Config
}

// New creates a new Grader with the given provider and config.
func New(provider llm.Provider, cfg Config) *Grader {
	return &Grader{provider: provider, config: cfg}
}

// Grade submits the essay for correction and returns the structured
// result. The essay text is sent as-is; callers are responsible for
// rejecting empty submissions before reaching the provider.
func (g *Grader) Grade(ctx context.Context, essayText, proposedTheme string) (*correction.Result, error) {
	ctx = llm.WithPurpose(ctx, "essay-correction")

	req := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(essayText, proposedTheme)},
		},
		Schema:      CorrectionSchema,
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		// Schema violations and truncated payloads are both malformed
		// responses; everything else is a failed request.
		var invalid *llm.ErrInvalidResponse
		var truncated *llm.ErrMaxTokensExceeded
		if errors.As(err, &invalid) || errors.As(err, &truncated) {
			return nil, &ResponseError{Err: err}
		}
		return nil, &RequestError{Err: err}
	}

	var result correction.Result
	if err := json.Unmarshal(resp.Content, &result); err != nil {
		return nil, &ResponseError{Err: fmt.Errorf("parse correction: %w", err)}
	}

	if err := validateResult(&result); err != nil {
		return nil, &ResponseError{Err: err}
	}

	return &result, nil
}

// validateResult checks the decoded correction against the scoring
// contract before it is shown or stored.
func validateResult(r *correction.Result) error {
	if r.FinalScore < 0 || r.FinalScore > correction.MaxFinalScore {
		return fmt.Errorf("final score %d out of range [0, %d]", r.FinalScore, correction.MaxFinalScore)
	}
	if len(r.Competencies) != correction.CompetencyCount {
		return fmt.Errorf("expected %d competencies, got %d", correction.CompetencyCount, len(r.Competencies))
	}
	for i, c := range r.Competencies {
		if c.Score < 0 || c.Score > correction.MaxCompetencyScore {
			return fmt.Errorf("competency %d score %d out of range [0, %d]", i+1, c.Score, correction.MaxCompetencyScore)
		}
		if c.Name == "" {
			return fmt.Errorf("competency %d has no name", i+1)
		}
	}
	return nil
}
