// Package chat implements the conversation control loop: safety filtering,
// the tool-augmented generation loop, streamed reply emission, and the
// single evaluation-triggered retry.
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	openai "github.com/sashabaranov/go-openai"

	"github.com/shulman33/careerchat/internal/domain"
	"github.com/shulman33/careerchat/internal/profile"
	"github.com/shulman33/careerchat/internal/telemetry"
	"github.com/shulman33/careerchat/internal/tools"
)

// DefaultMaxToolIterations bounds the tool-call/generation loop. The
// reference behavior has no bound, which is a latent resource-exhaustion
// risk under adversarial input.
const DefaultMaxToolIterations = 6

// Generator is the model surface the orchestrator drives. *llm.Client
// satisfies it.
type Generator interface {
	Complete(ctx context.Context, messages []openai.ChatCompletionMessage, tools []openai.Tool) (*openai.ChatCompletionChoice, error)
	Stream(ctx context.Context, messages []openai.ChatCompletionMessage, tools []openai.Tool, onDelta func(delta string)) (string, error)
}

// FilterRunner runs the input safety filters.
type FilterRunner interface {
	Check(ctx context.Context, message string) ([]domain.FilterVerdict, error)
}

// ReplyEvaluator judges a candidate reply.
type ReplyEvaluator interface {
	Evaluate(ctx context.Context, reply, message string, history []domain.Turn) (*domain.Evaluation, error)
}

// ToolDispatcher is the registry surface the generation loop uses.
type ToolDispatcher interface {
	Definitions() []openai.Tool
	Dispatch(ctx context.Context, name string, args json.RawMessage) string
}

// Orchestrator runs one conversation turn end to end. It owns the turn
// history only for the duration of a single exchange and hands it back in
// the result.
type Orchestrator struct {
	prof              *profile.Profile
	llm               Generator
	guardrails        FilterRunner
	evaluator         ReplyEvaluator
	tools             ToolDispatcher
	maxToolIterations int
}

func NewOrchestrator(prof *profile.Profile, llm Generator, guardrails FilterRunner, evaluator ReplyEvaluator, registry ToolDispatcher) *Orchestrator {
	return &Orchestrator{
		prof:              prof,
		llm:               llm,
		guardrails:        guardrails,
		evaluator:         evaluator,
		tools:             registry,
		maxToolIterations: DefaultMaxToolIterations,
	}
}

// SetMaxToolIterations overrides the tool-loop bound (for testing).
func (o *Orchestrator) SetMaxToolIterations(n int) {
	if n > 0 {
		o.maxToolIterations = n
	}
}

// Result is what one completed turn hands back to the caller.
type Result struct {
	Reply    string
	Blocked  bool
	Retried  bool
	Verdicts []domain.FilterVerdict
	History  []domain.Turn
}

// Chat processes one user message. emit is invoked with the cumulative
// partial reply after every streamed increment: every emission is a prefix
// of the next, and the caller displays each one as a replacement, not an
// append. A nil emit is allowed.
func (o *Orchestrator) Chat(ctx context.Context, message string, history []domain.Turn, emit func(partial string)) (*Result, error) {
	if message == "" {
		return nil, domain.ErrEmptyMessage
	}
	if emit == nil {
		emit = func(string) {}
	}

	ctx, span := telemetry.StartSpan(ctx, "Orchestrator.Chat", telemetry.SpanAttributes{Operation: "chat"})
	defer span.End()

	verdicts, err := o.guardrails.Check(ctx, message)
	if err != nil {
		return nil, fmt.Errorf("safety filtering failed: %w", err)
	}

	for _, v := range verdicts {
		if v.Blocking() {
			log.Printf("blocking_filter_fired: kind=%s detail=%q", v.Kind, v.Detail)
			reply := o.prof.RedirectReply()
			emit(reply)
			return &Result{
				Reply:    reply,
				Blocked:  true,
				Verdicts: verdicts,
				History:  appendExchange(history, message, reply),
			}, nil
		}
	}

	messages := o.buildMessages(o.prof.SystemPrompt(), history, message)

	toolCtx := tools.WithTranscript(ctx, appendExchange(history, message, ""))
	messages, err = o.runToolLoop(toolCtx, messages)
	if err != nil {
		return nil, err
	}

	// The final reply is produced by re-submitting the accumulated history
	// as a streamed request, so the caller sees tokens as they arrive.
	var partial string
	reply, err := o.llm.Stream(ctx, messages, nil, func(delta string) {
		partial += delta
		emit(partial)
	})
	if err != nil {
		return nil, fmt.Errorf("streaming failed: %w", err)
	}

	eval, err := o.evaluator.Evaluate(ctx, reply, message, history)
	if err != nil {
		return nil, fmt.Errorf("evaluation failed: %w", err)
	}
	logEvaluation(eval)

	retried := false
	if !eval.IsAcceptable {
		retried = true
		reply, err = o.retry(ctx, reply, message, history, eval.Feedback, emit)
		if err != nil {
			return nil, err
		}
	}

	return &Result{
		Reply:    reply,
		Retried:  retried,
		Verdicts: verdicts,
		History:  appendExchange(history, message, reply),
	}, nil
}

// runToolLoop submits the conversation with tool definitions and executes
// requested invocations until the model is ready to answer directly, or
// the iteration bound is hit.
func (o *Orchestrator) runToolLoop(ctx context.Context, messages []openai.ChatCompletionMessage) ([]openai.ChatCompletionMessage, error) {
	defs := o.tools.Definitions()

	for i := 0; ; i++ {
		if i >= o.maxToolIterations {
			return nil, fmt.Errorf("tool loop exceeded %d iterations", o.maxToolIterations)
		}

		choice, err := o.llm.Complete(ctx, messages, defs)
		if err != nil {
			return nil, fmt.Errorf("generation failed: %w", err)
		}

		if choice.FinishReason != openai.FinishReasonToolCalls || len(choice.Message.ToolCalls) == 0 {
			return messages, nil
		}

		messages = append(messages, choice.Message)
		for _, call := range choice.Message.ToolCalls {
			telemetry.AddBreadcrumb(ctx, "tool", call.Function.Name)
			result := o.tools.Dispatch(ctx, call.Function.Name, json.RawMessage(call.Function.Arguments))
			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				Content:    result,
				ToolCallID: call.ID,
			})
		}
	}
}

// retry restreams exactly once with the rejected reply and the evaluator's
// feedback folded into the system context. The retried reply is returned
// regardless of its own quality; the user is never blocked indefinitely on
// quality control.
func (o *Orchestrator) retry(ctx context.Context, rejectedReply, message string, history []domain.Turn, feedback string, emit func(string)) (string, error) {
	log.Printf("reply_rejected: feedback=%q", feedback)

	messages := o.buildMessages(o.prof.RetrySystemPrompt(rejectedReply, feedback), history, message)

	var partial string
	reply, err := o.llm.Stream(ctx, messages, o.tools.Definitions(), func(delta string) {
		partial += delta
		emit(partial)
	})
	if err != nil {
		return "", fmt.Errorf("retry streaming failed: %w", err)
	}
	return reply, nil
}

func (o *Orchestrator) buildMessages(systemPrompt string, history []domain.Turn, message string) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: systemPrompt,
	})
	for _, t := range history {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    string(t.Role),
			Content: t.Content,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: message,
	})
	return messages
}

func appendExchange(history []domain.Turn, message, reply string) []domain.Turn {
	out := make([]domain.Turn, 0, len(history)+2)
	out = append(out, history...)
	out = append(out, domain.Turn{Role: domain.RoleUser, Content: message})
	if reply != "" {
		out = append(out, domain.Turn{Role: domain.RoleAssistant, Content: reply})
	}
	return out
}

func logEvaluation(eval *domain.Evaluation) {
	payload, err := json.Marshal(eval)
	if err != nil {
		log.Printf("evaluation_marshal_error: %v", err)
		return
	}
	log.Printf("evaluation: %s", payload)
}
