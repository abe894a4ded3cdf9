// Package llm wraps the OpenAI-compatible chat APIs used for generation,
// classification and evaluation. The evaluator talks to Gemini through its
// OpenAI-compatible endpoint, so one client type serves both providers.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/shulman33/careerchat/internal/domain"
)

const (
	// DefaultChatModel drives generation, the matcher and the filters.
	DefaultChatModel = openai.GPT4oMini
	// DefaultEvaluatorModel judges candidate replies.
	DefaultEvaluatorModel = "gemini-2.0-flash"

	// GeminiBaseURL is Google's OpenAI-compatible endpoint.
	GeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

	defaultCallTimeout = 60 * time.Second
)

var (
	// ErrNoAPIKey is returned when OPENAI_API_KEY is not set
	ErrNoAPIKey = errors.New("OPENAI_API_KEY environment variable not set")
	// ErrNoChoices is returned when the API responds without any choices
	ErrNoChoices = errors.New("no completion choices returned")
)

// ChatStream yields incremental chunks of a streamed completion.
type ChatStream interface {
	Recv() (openai.ChatCompletionStreamResponse, error)
	Close() error
}

// ChatAPI defines the upstream surface the client depends on.
type ChatAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
	CreateChatCompletionStream(ctx context.Context, req openai.ChatCompletionRequest) (ChatStream, error)
}

// Client wraps a chat API with a fixed model and per-call timeout.
type Client struct {
	api     ChatAPI
	model   string
	timeout time.Duration
}

// OpenAIAdapter adapts *openai.Client to the ChatAPI interface.
type OpenAIAdapter struct {
	client *openai.Client
}

func (a *OpenAIAdapter) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return a.client.CreateChatCompletion(ctx, req)
}

func (a *OpenAIAdapter) CreateChatCompletionStream(ctx context.Context, req openai.ChatCompletionRequest) (ChatStream, error) {
	return a.client.CreateChatCompletionStream(ctx, req)
}

// Config holds client construction options.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// NewClient creates a client for the OpenAI API with defaults.
func NewClient(apiKey string) *Client {
	return NewClientWithConfig(Config{APIKey: apiKey})
}

// NewClientWithConfig creates a client with explicit configuration.
func NewClientWithConfig(cfg Config) *Client {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = DefaultChatModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}

	return &Client{
		api:     &OpenAIAdapter{client: openai.NewClientWithConfig(clientCfg)},
		model:   model,
		timeout: timeout,
	}
}

// NewClientFromEnv creates a client using the OPENAI_API_KEY environment variable.
func NewClientFromEnv() (*Client, error) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	return NewClient(apiKey), nil
}

// NewGeminiClient creates a client for Gemini's OpenAI-compatible endpoint.
func NewGeminiClient(apiKey, model string, timeout time.Duration) *Client {
	if model == "" {
		model = DefaultEvaluatorModel
	}
	return NewClientWithConfig(Config{
		APIKey:  apiKey,
		BaseURL: GeminiBaseURL,
		Model:   model,
		Timeout: timeout,
	})
}

// NewClientWithAPI creates a client over a custom ChatAPI (for testing).
func NewClientWithAPI(api ChatAPI, model string) *Client {
	if model == "" {
		model = DefaultChatModel
	}
	return &Client{api: api, model: model, timeout: defaultCallTimeout}
}

// Complete submits the messages, optionally with tool definitions, and
// returns the first choice. The caller inspects FinishReason to decide
// whether tool calls were requested.
func (c *Client) Complete(ctx context.Context, messages []openai.ChatCompletionMessage, tools []openai.Tool) (*openai.ChatCompletionChoice, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
		Tools:    tools,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrNoChoices
	}
	return &resp.Choices[0], nil
}

// Stream submits the messages as a streamed completion and invokes onDelta
// for every content fragment, in order. Returns the full assembled text.
func (c *Client) Stream(ctx context.Context, messages []openai.ChatCompletionMessage, tools []openai.Tool, onDelta func(delta string)) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	stream, err := c.api.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:    c.model,
		Messages: messages,
		Tools:    tools,
		Stream:   true,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion stream failed: %w", err)
	}
	defer stream.Close()

	var full string
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("stream receive failed: %w", err)
		}
		if len(chunk.Choices) == 0 {
			continue
		}
		delta := chunk.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		full += delta
		if onDelta != nil {
			onDelta(delta)
		}
	}

	return full, nil
}

// CompleteJSON submits a system/user prompt pair in JSON mode and decodes
// the reply into out. A reply that is not valid JSON for out is a hard
// error, not a silent pass.
func (c *Client) CompleteJSON(ctx context.Context, system, user string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return fmt.Errorf("json completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return ErrNoChoices
	}

	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), out); err != nil {
		return domain.NewDomainErrorWithCause(domain.ErrCodeMalformedReply, "model returned non-conforming output", err)
	}
	return nil
}
