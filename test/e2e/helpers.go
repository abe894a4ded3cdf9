//go:build e2e

package e2e

import (
	"context"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/require"

	"github.com/shulman33/careerchat/internal/api/handlers"
	"github.com/shulman33/careerchat/internal/chat"
	"github.com/shulman33/careerchat/internal/llm"
	"github.com/shulman33/careerchat/internal/notify"
	"github.com/shulman33/careerchat/internal/profile"
	"github.com/shulman33/careerchat/internal/repository"
	"github.com/shulman33/careerchat/internal/server"
	"github.com/shulman33/careerchat/internal/service"
	"github.com/shulman33/careerchat/internal/testutil"
	"github.com/shulman33/careerchat/internal/tools"
)

const testSummary = `# Summary

### What do you do?
I build backend services in Go.

### Where are you based?
New York.
`

const cannedReply = "I build backend services in Go."

// scriptedModel stands in for the upstream model APIs. JSON-mode requests
// are answered according to the contract named in the system prompt;
// everything else gets a direct canned answer.
type scriptedModel struct{}

func (scriptedModel) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	content := "{}"
	if req.ResponseFormat != nil && len(req.Messages) > 0 {
		system := req.Messages[0].Content
		switch {
		case strings.Contains(system, "is_inappropriate"):
			content = `{"is_inappropriate": false, "reasoning": "fine"}`
		case strings.Contains(system, "is_injection_attempt"):
			content = `{"is_injection_attempt": false, "reasoning": "fine"}`
		case strings.Contains(system, "is_off_topic"):
			content = `{"is_off_topic": false, "reasoning": "fine"}`
		case strings.Contains(system, "mentions_competitor"):
			content = `{"mentions_competitor": false, "competitor_names": []}`
		case strings.Contains(system, "matches user questions"):
			content = `{"found": false, "answer": null}`
		case strings.Contains(system, "user_email"):
			content = `{"user_name": "Visitor", "user_email": "x@example.com", "topics_discussed": [], "user_interests": "", "conversation_sentiment": "neutral", "notable_questions": []}`
		}
		return textResponse(content), nil
	}

	// Tool-loop round: answer directly, no tool calls.
	return textResponse(cannedReply), nil
}

func (scriptedModel) CreateChatCompletionStream(ctx context.Context, req openai.ChatCompletionRequest) (llm.ChatStream, error) {
	return &scriptedStream{chunks: strings.SplitAfter(cannedReply, " ")}, nil
}

func textResponse(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{
				FinishReason: openai.FinishReasonStop,
				Message:      openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content},
			},
		},
	}
}

type scriptedStream struct {
	chunks []string
	pos    int
}

func (s *scriptedStream) Recv() (openai.ChatCompletionStreamResponse, error) {
	if s.pos >= len(s.chunks) {
		return openai.ChatCompletionStreamResponse{}, io.EOF
	}
	chunk := s.chunks[s.pos]
	s.pos++
	return openai.ChatCompletionStreamResponse{
		Choices: []openai.ChatCompletionStreamChoice{
			{Delta: openai.ChatCompletionStreamChoiceDelta{Content: chunk}},
		},
	}, nil
}

func (s *scriptedStream) Close() error { return nil }

// TestEnv holds the full stack wired over a scripted model.
type TestEnv struct {
	Pool   *pgxpool.Pool
	Server *httptest.Server
	Repo   *repository.QARepository
}

// SetupTestEnv boots a Postgres container, migrates, seeds from a temp
// profile, and serves the real router over the scripted model.
func SetupTestEnv(t *testing.T) *TestEnv {
	ctx := context.Background()

	pc := testutil.NewPostgresContainer(ctx, t)
	t.Cleanup(func() { pc.Terminate(ctx) })

	pool := testutil.NewTestPool(ctx, t, pc, "../../migrations")
	t.Cleanup(pool.Close)

	profileDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(profileDir, "summary.md"), []byte(testSummary), 0o644))
	prof, err := profile.Load(profileDir, "Sam Shulman")
	require.NoError(t, err)

	repo := repository.NewQARepository(pool)
	_, err = service.NewSeeder(repo, prof).Seed(ctx)
	require.NoError(t, err)

	client := llm.NewClientWithAPI(scriptedModel{}, "scripted")

	registry := tools.NewRegistry()
	tools.RegisterQATools(registry, repo, service.NewMatcher(repo, client), notify.NoopPusher{})
	tools.RegisterEmailTool(registry, service.NewSummarizer(client), notify.NoopEmailSender{})

	orchestrator := chat.NewOrchestrator(prof, client, service.NewGuardrails(client), service.AcceptAll{}, registry)

	router := server.NewRouter(server.RouterConfig{
		ChatHandler: handlers.NewChatHandler(orchestrator),
		QAHandler:   handlers.NewQAHandler(repo),
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &TestEnv{Pool: pool, Server: srv, Repo: repo}
}
