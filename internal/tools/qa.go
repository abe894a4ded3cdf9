package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/shulman33/careerchat/internal/domain"
	"github.com/shulman33/careerchat/internal/notify"
	"github.com/shulman33/careerchat/internal/service"
)

// QAStore is the slice of the repository the knowledge tools need.
type QAStore interface {
	FetchAll(ctx context.Context) ([]*domain.QAEntry, error)
	Insert(ctx context.Context, question, answer string) error
	UpdateAnswer(ctx context.Context, question, newAnswer string) (bool, error)
}

// QuestionMatcher answers "is this question already covered?".
type QuestionMatcher interface {
	Match(ctx context.Context, question string) (*service.MatchResult, error)
}

// RegisterQATools wires the five knowledge-store tools into the registry.
func RegisterQATools(r *Registry, store QAStore, matcher QuestionMatcher, pusher notify.Pusher) {
	r.Register(searchTool(matcher))
	r.Register(recordUnknownTool(store, pusher))
	r.Register(addTool(store))
	r.Register(listRecentTool(store))
	r.Register(updateTool(store))
}

func searchTool(matcher QuestionMatcher) Tool {
	type args struct {
		Question string `json:"question"`
	}
	return Tool{
		Definition: functionTool(
			"search_qa_database",
			"Search the Q&A database for semantically similar questions. Use this BEFORE answering any question to check if there's already a stored answer. This helps provide consistent, accurate responses.",
			map[string]any{
				"question": map[string]any{"type": "string", "description": "The user's question to search for in the database"},
			},
			[]string{"question"},
		),
		Handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
			var a args
			if err := json.Unmarshal(raw, &a); err != nil {
				return nil, fmt.Errorf("invalid arguments: %w", err)
			}

			result, err := matcher.Match(ctx, a.Question)
			if err != nil {
				return nil, err
			}

			message := "No matching answer in database"
			if result.Found {
				message = "Found a matching answer"
			}
			return map[string]any{
				"found":   result.Found,
				"answer":  result.Answer,
				"message": message,
			}, nil
		},
	}
}

func recordUnknownTool(store QAStore, pusher notify.Pusher) Tool {
	type args struct {
		Question string `json:"question"`
	}
	return Tool{
		Definition: functionTool(
			"record_unknown_question",
			"Record any question that couldn't be answered because the answer is not known. Use this when you don't have information to answer a user's question.",
			map[string]any{
				"question": map[string]any{"type": "string", "description": "The question that couldn't be answered"},
			},
			[]string{"question"},
		),
		Handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
			var a args
			if err := json.Unmarshal(raw, &a); err != nil {
				return nil, fmt.Errorf("invalid arguments: %w", err)
			}

			if err := store.Insert(ctx, a.Question, domain.SentinelAnswer); err != nil {
				return nil, fmt.Errorf("failed to record question: %w", err)
			}

			// Notification is best-effort; a push failure must not undo
			// the recorded gap.
			if err := pusher.Push(ctx, fmt.Sprintf("Question needs answer: %s", a.Question)); err != nil {
				log.Printf("push_notification_failed: %v", err)
			}

			return map[string]any{
				"recorded":          "ok",
				"added_to_database": true,
				"message":           "Question recorded for the owner to answer later",
			}, nil
		},
	}
}

func addTool(store QAStore) Tool {
	type args struct {
		Question string `json:"question"`
		Answer   string `json:"answer"`
	}
	return Tool{
		Definition: functionTool(
			"add_qa_to_database",
			"Add a new question and answer pair to the database. Use this to store commonly asked questions and their answers for future reference.",
			map[string]any{
				"question": map[string]any{"type": "string", "description": "The question to store"},
				"answer":   map[string]any{"type": "string", "description": "The answer to the question"},
			},
			[]string{"question", "answer"},
		),
		Handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
			var a args
			if err := json.Unmarshal(raw, &a); err != nil {
				return nil, fmt.Errorf("invalid arguments: %w", err)
			}

			if err := store.Insert(ctx, a.Question, a.Answer); err != nil {
				return nil, fmt.Errorf("failed to add Q&A pair: %w", err)
			}
			return map[string]any{
				"added":   true,
				"message": "Successfully added Q&A pair to database",
			}, nil
		},
	}
}

func listRecentTool(store QAStore) Tool {
	type args struct {
		Limit int `json:"limit"`
	}
	type entry struct {
		Question    string `json:"question"`
		Answer      string `json:"answer"`
		NeedsAnswer bool   `json:"needs_answer"`
	}
	return Tool{
		Definition: functionTool(
			"list_recent_qa",
			"List recent Q&A pairs from the database. Useful for showing what questions have been answered before.",
			map[string]any{
				"limit": map[string]any{"type": "integer", "description": "Maximum number of Q&A pairs to retrieve (default: 5)"},
			},
			nil,
		),
		Handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
			a := args{Limit: 5}
			if len(raw) > 0 {
				if err := json.Unmarshal(raw, &a); err != nil {
					return nil, fmt.Errorf("invalid arguments: %w", err)
				}
			}
			if a.Limit <= 0 {
				a.Limit = 5
			}

			entries, err := store.FetchAll(ctx)
			if err != nil {
				return nil, fmt.Errorf("failed to list Q&A pairs: %w", err)
			}
			if len(entries) > a.Limit {
				entries = entries[:a.Limit]
			}

			recent := make([]entry, 0, len(entries))
			for _, e := range entries {
				recent = append(recent, entry{
					Question:    e.Question,
					Answer:      e.Answer,
					NeedsAnswer: e.NeedsAnswer(),
				})
			}

			return map[string]any{
				"count":    len(recent),
				"qa_pairs": recent,
				"message":  fmt.Sprintf("Retrieved %d recent Q&A pairs", len(recent)),
			}, nil
		},
	}
}

func updateTool(store QAStore) Tool {
	type args struct {
		Question  string `json:"question"`
		NewAnswer string `json:"new_answer"`
	}
	return Tool{
		Definition: functionTool(
			"update_qa_answer",
			"Update the answer for an existing question in the database. Useful for replacing placeholder answers or correcting existing answers.",
			map[string]any{
				"question":   map[string]any{"type": "string", "description": "The exact question text to update"},
				"new_answer": map[string]any{"type": "string", "description": "The new answer to store for this question"},
			},
			[]string{"question", "new_answer"},
		),
		Handler: func(ctx context.Context, raw json.RawMessage) (any, error) {
			var a args
			if err := json.Unmarshal(raw, &a); err != nil {
				return nil, fmt.Errorf("invalid arguments: %w", err)
			}

			updated, err := store.UpdateAnswer(ctx, a.Question, a.NewAnswer)
			if err != nil {
				return nil, fmt.Errorf("failed to update answer: %w", err)
			}

			if updated {
				return map[string]any{
					"updated": true,
					"message": fmt.Sprintf("Successfully updated answer for: %s", a.Question),
				}, nil
			}
			return map[string]any{
				"updated": false,
				"message": fmt.Sprintf("Question not found: %s", a.Question),
			}, nil
		},
	}
}
