package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shulman33/careerchat/internal/domain"
)

// JSONCompleter is the single model-call surface the classification
// services depend on. *llm.Client satisfies it.
type JSONCompleter interface {
	CompleteJSON(ctx context.Context, system, user string, out any) error
}

// MatcherStore is the slice of the repository the matcher needs.
type MatcherStore interface {
	FetchAll(ctx context.Context) ([]*domain.QAEntry, error)
}

// MatchResult is the matcher's wire contract.
type MatchResult struct {
	Found  bool    `json:"found"`
	Answer *string `json:"answer"`
}

// Matcher decides whether a free-form question is already answered by a
// stored entry. Equivalence is judged at topic level by a single model
// call over all answered pairs; rows holding the sentinel answer are
// never part of the context.
type Matcher struct {
	store MatcherStore
	llm   JSONCompleter
}

func NewMatcher(store MatcherStore, llm JSONCompleter) *Matcher {
	return &Matcher{store: store, llm: llm}
}

const matcherSystemPrompt = `You are a helpful assistant that matches user questions to a database of Q&A pairs.
Given a user's question and a database of Q&A pairs, determine if there's a semantically similar question in the database.
If there is a good match (the question is asking about the same topic, even if worded differently), respond with JSON in this format:
{"found": true, "answer": "<the answer from the database>"}

If there is no good match, respond with JSON in this format:
{"found": false, "answer": null}

Only match questions that are truly asking about the same information. Don't match if the topics are different.

Here is the Q&A database:
%s`

// Match returns the stored answer for a semantically equivalent question,
// if one exists. An empty store, or a store holding only unanswered
// sentinel rows, short-circuits to found=false without an upstream call.
func (m *Matcher) Match(ctx context.Context, question string) (*MatchResult, error) {
	entries, err := m.store.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load Q&A entries: %w", err)
	}
	if len(entries) == 0 {
		return &MatchResult{Found: false}, nil
	}

	answered := domain.AnsweredOnly(entries)
	if len(answered) == 0 {
		return &MatchResult{Found: false}, nil
	}

	blocks := make([]string, 0, len(answered))
	for _, e := range answered {
		blocks = append(blocks, fmt.Sprintf("Q: %s\nA: %s", e.Question, e.Answer))
	}
	system := fmt.Sprintf(matcherSystemPrompt, strings.Join(blocks, "\n\n"))
	user := fmt.Sprintf("Does this question match any in the database? Question: %s", question)

	var result MatchResult
	if err := m.llm.CompleteJSON(ctx, system, user, &result); err != nil {
		return nil, fmt.Errorf("matcher call failed: %w", err)
	}
	if result.Found && result.Answer == nil {
		return nil, domain.ErrMalformedModelOutput
	}

	return &result, nil
}
