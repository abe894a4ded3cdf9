package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/shulman33/careerchat/internal/domain"
	"github.com/shulman33/careerchat/internal/notify"
)

type transcriptKey struct{}

// WithTranscript attaches the current conversation history to the context
// for the duration of one tool-dispatch phase. The email tool reads it
// back; the model never carries the transcript through tool arguments.
func WithTranscript(ctx context.Context, transcript []domain.Turn) context.Context {
	return context.WithValue(ctx, transcriptKey{}, transcript)
}

// TranscriptFrom returns the conversation history attached to ctx, if any.
func TranscriptFrom(ctx context.Context) []domain.Turn {
	transcript, _ := ctx.Value(transcriptKey{}).([]domain.Turn)
	return transcript
}

// ConversationSummarizer condenses a transcript for the email hand-off.
type ConversationSummarizer interface {
	Summarize(ctx context.Context, email, name, notes string, transcript []domain.Turn) (*domain.ChatSummary, error)
}

// RegisterEmailTool wires the follow-up email tool into the registry.
// The prompt instructs the model to call it only after the user has shared
// an email address; that contract is instruction-enforced, matching the
// reference behavior.
func RegisterEmailTool(r *Registry, summarizer ConversationSummarizer, sender notify.EmailSender) {
	type args struct {
		Email string `json:"email"`
		Name  string `json:"name"`
		Notes string `json:"notes"`
	}

	r.Register(Tool{
		Definition: functionTool(
			"send_followup_email",
			"Send a follow-up email to the site owner with the visitor's contact details and a summary of this conversation. Use this tool only AFTER the user has provided their email address.",
			map[string]any{
				"email": map[string]any{"type": "string", "description": "The user's email address"},
				"name":  map[string]any{"type": "string", "description": "The user's name, if they provided it"},
				"notes": map[string]any{"type": "string", "description": "Any additional context or message from the user"},
			},
			[]string{"email"},
		),
		Handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
			var a args
			if err := json.Unmarshal(raw, &a); err != nil {
				return nil, fmt.Errorf("invalid arguments: %w", err)
			}
			if a.Email == "" {
				return nil, fmt.Errorf("email is required")
			}

			summary, err := summarizer.Summarize(ctx, a.Email, a.Name, a.Notes, TranscriptFrom(ctx))
			if err != nil {
				// The contact details are in the model's hands and in the
				// logs; a summarization failure downgrades to a minimal
				// digest rather than losing the hand-off.
				log.Printf("email_summary_failed: %v", err)
				summary = &domain.ChatSummary{UserName: a.Name, UserEmail: a.Email, UserInterests: a.Notes}
				if summary.UserName == "" {
					summary.UserName = "Visitor"
				}
			}

			subject, body := notify.RenderSummaryEmail(summary)
			if err := sender.Send(ctx, subject, body); err != nil {
				// Delivery failures stay internal: the visitor is told their
				// details were passed along, which they were, via the logs and
				// any configured alerting.
				log.Printf("followup_email_failed: %v", err)
				return map[string]any{
					"status":  "error",
					"message": "Your details have been passed along. The owner will be in touch soon.",
				}, nil
			}

			return map[string]any{
				"status":  "sent",
				"message": "Email sent. The owner will follow up with you directly.",
			}, nil
		},
	})
}
