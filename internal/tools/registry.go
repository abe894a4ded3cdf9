// Package tools exposes the named side-effecting operations the generation
// loop may invoke mid-conversation. Tools are held in an explicit static
// table and dispatched by name lookup; a tool failure is encoded into its
// structured result and never aborts the conversation.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	openai "github.com/sashabaranov/go-openai"
)

// Handler executes one tool invocation. Returned errors are converted into
// structured error results by Dispatch, not propagated.
type Handler func(ctx context.Context, args json.RawMessage) (any, error)

// Tool pairs a model-facing definition with its handler.
type Tool struct {
	Definition openai.Tool
	Handler    Handler
}

// Registry is the static name→tool table.
type Registry struct {
	tools map[string]Tool
	order []string
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool. Registering the same name twice is a programming
// error and panics at startup rather than shadowing silently.
func (r *Registry) Register(t Tool) {
	name := t.Definition.Function.Name
	if _, exists := r.tools[name]; exists {
		panic(fmt.Sprintf("tool %q registered twice", name))
	}
	r.tools[name] = t
	r.order = append(r.order, name)
}

// Definitions returns the tool definitions in registration order, for
// inclusion in generation requests.
func (r *Registry) Definitions() []openai.Tool {
	defs := make([]openai.Tool, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].Definition)
	}
	return defs
}

// Dispatch executes the named tool and returns its result serialized as
// JSON. Handler errors and unknown names become structured error payloads;
// the conversation always continues.
func (r *Registry) Dispatch(ctx context.Context, name string, args json.RawMessage) string {
	t, ok := r.tools[name]
	if !ok {
		log.Printf("tool_dispatch_unknown: %s", name)
		return marshalResult(map[string]any{"status": "error", "message": fmt.Sprintf("unknown tool: %s", name)})
	}

	log.Printf("tool_dispatch: %s", name)
	result, err := t.Handler(ctx, args)
	if err != nil {
		log.Printf("tool_dispatch_error: %s: %v", name, err)
		return marshalResult(map[string]any{"status": "error", "message": err.Error()})
	}

	return marshalResult(result)
}

// Has reports whether a tool with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.tools[name]
	return ok
}

func marshalResult(result any) string {
	payload, err := json.Marshal(result)
	if err != nil {
		return `{"status":"error","message":"failed to encode tool result"}`
	}
	return string(payload)
}

// functionTool is a small helper for building a function-type definition
// with an object schema.
func functionTool(name, description string, properties map[string]any, required []string) openai.Tool {
	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        name,
			Description: description,
			Parameters: map[string]any{
				"type":       "object",
				"properties": properties,
				"required":   required,
			},
		},
	}
}
