package service

import (
	"context"
	"fmt"

	"github.com/shulman33/careerchat/internal/domain"
	"github.com/shulman33/careerchat/internal/profile"
)

// Evaluator is the secondary judge that scores a produced reply. It runs
// on a separate model (Gemini through its OpenAI-compatible endpoint) so
// the generating model does not grade its own work.
type Evaluator struct {
	llm  JSONCompleter
	prof *profile.Profile
}

func NewEvaluator(llm JSONCompleter, prof *profile.Profile) *Evaluator {
	return &Evaluator{llm: llm, prof: prof}
}

// Evaluate scores the reply against the persona's quality criteria.
// Wire contract: {"is_acceptable": bool, "feedback": string}.
func (e *Evaluator) Evaluate(ctx context.Context, reply, message string, history []domain.Turn) (*domain.Evaluation, error) {
	var eval domain.Evaluation
	err := e.llm.CompleteJSON(ctx,
		e.prof.EvaluatorSystemPrompt(),
		profile.EvaluatorUserPrompt(reply, message, history),
		&eval,
	)
	if err != nil {
		return nil, fmt.Errorf("evaluator call failed: %w", err)
	}
	return &eval, nil
}

// AcceptAll is an Evaluator substitute used when no evaluator credentials
// are configured: every reply passes.
type AcceptAll struct{}

func (AcceptAll) Evaluate(ctx context.Context, reply, message string, history []domain.Turn) (*domain.Evaluation, error) {
	return &domain.Evaluation{IsAcceptable: true}, nil
}
