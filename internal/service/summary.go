package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shulman33/careerchat/internal/domain"
)

// Summarizer condenses a conversation transcript into the structured
// digest rendered into the follow-up email.
type Summarizer struct {
	llm JSONCompleter
}

func NewSummarizer(llm JSONCompleter) *Summarizer {
	return &Summarizer{llm: llm}
}

const summarySystemPrompt = `You summarize a conversation between a website visitor and a career assistant chatbot.
Produce a JSON object with exactly these fields:
{"user_name": "<name if provided, otherwise 'Visitor'>",
 "user_email": "<the user's email address>",
 "topics_discussed": ["<main topics covered>"],
 "user_interests": "<what the user seems interested in>",
 "conversation_sentiment": "<overall tone: positive, neutral, curious, etc.>",
 "notable_questions": ["<key questions the user asked>"]}`

// Summarize builds a ChatSummary for the given transcript. The email and
// optional name/notes supplied by the user override whatever the model
// infers for those fields.
func (s *Summarizer) Summarize(ctx context.Context, email, name, notes string, transcript []domain.Turn) (*domain.ChatSummary, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "User email: %s\n", email)
	if name != "" {
		fmt.Fprintf(&b, "User name: %s\n", name)
	}
	if notes != "" {
		fmt.Fprintf(&b, "User notes: %s\n", notes)
	}
	b.WriteString("\nTranscript:\n")
	for _, t := range transcript {
		fmt.Fprintf(&b, "%s: %s\n", t.Role, t.Content)
	}

	var summary domain.ChatSummary
	if err := s.llm.CompleteJSON(ctx, summarySystemPrompt, b.String(), &summary); err != nil {
		return nil, fmt.Errorf("summary call failed: %w", err)
	}

	summary.UserEmail = email
	if name != "" {
		summary.UserName = name
	}
	if summary.UserName == "" {
		summary.UserName = "Visitor"
	}

	return &summary, nil
}
