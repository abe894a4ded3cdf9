package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shulman33/careerchat/internal/chat"
	"github.com/shulman33/careerchat/internal/domain"
)

// stubConversationalist scripts one orchestrator turn.
type stubConversationalist struct {
	partials []string
	result   *chat.Result
	err      error

	gotMessage string
	gotHistory []domain.Turn
}

func (s *stubConversationalist) Chat(ctx context.Context, message string, history []domain.Turn, emit func(partial string)) (*chat.Result, error) {
	s.gotMessage = message
	s.gotHistory = history
	for _, p := range s.partials {
		emit(p)
	}
	return s.result, s.err
}

// parseSSE splits a server-sent event body into (event, data) pairs.
func parseSSE(t *testing.T, body string) [][2]string {
	t.Helper()
	var events [][2]string
	for _, block := range strings.Split(strings.TrimSpace(body), "\n\n") {
		lines := strings.SplitN(block, "\n", 2)
		require.Len(t, lines, 2)
		events = append(events, [2]string{
			strings.TrimPrefix(lines[0], "event: "),
			strings.TrimPrefix(lines[1], "data: "),
		})
	}
	return events
}

func postChat(t *testing.T, h *ChatHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	h.Stream(rec, req)
	return rec
}

func TestChatHandler_Stream(t *testing.T) {
	t.Run("streams deltas then the final turn", func(t *testing.T) {
		stub := &stubConversationalist{
			partials: []string{"I ", "I build ", "I build things."},
			result: &chat.Result{
				Reply: "I build things.",
				History: []domain.Turn{
					{Role: domain.RoleUser, Content: "What do you do?"},
					{Role: domain.RoleAssistant, Content: "I build things."},
				},
			},
		}

		rec := postChat(t, NewChatHandler(stub), `{"message": "What do you do?"}`)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))

		events := parseSSE(t, rec.Body.String())
		require.Len(t, events, 4)
		for _, ev := range events[:3] {
			assert.Equal(t, "delta", ev[0])
		}
		assert.Contains(t, events[2][1], "I build things.")
		assert.Equal(t, "done", events[3][0])
		assert.Contains(t, events[3][1], `"reply":"I build things."`)
		assert.Contains(t, events[3][1], `"history"`)
	})

	t.Run("history is forwarded to the orchestrator", func(t *testing.T) {
		stub := &stubConversationalist{result: &chat.Result{Reply: "ok"}}

		postChat(t, NewChatHandler(stub), `{"message": "next", "history": [
			{"role": "user", "content": "first"},
			{"role": "assistant", "content": "reply"}
		]}`)

		assert.Equal(t, "next", stub.gotMessage)
		require.Len(t, stub.gotHistory, 2)
		assert.Equal(t, domain.RoleAssistant, stub.gotHistory[1].Role)
	})

	t.Run("empty message is a 400 before any streaming", func(t *testing.T) {
		rec := postChat(t, NewChatHandler(&stubConversationalist{}), `{"message": ""}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid history role is a 400", func(t *testing.T) {
		rec := postChat(t, NewChatHandler(&stubConversationalist{}), `{"message": "hi", "history": [
			{"role": "system", "content": "sneaky"}
		]}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body is a 400", func(t *testing.T) {
		rec := postChat(t, NewChatHandler(&stubConversationalist{}), "not json")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("orchestrator failure degrades to an apology event", func(t *testing.T) {
		stub := &stubConversationalist{
			partials: []string{"partial draft"},
			err:      errors.New("upstream exploded"),
		}

		rec := postChat(t, NewChatHandler(stub), `{"message": "hi"}`)

		// Headers already sent; the failure shows up in-stream.
		assert.Equal(t, http.StatusOK, rec.Code)
		events := parseSSE(t, rec.Body.String())
		last := events[len(events)-1]
		assert.Equal(t, "error", last[0])
		assert.NotContains(t, last[1], "upstream exploded")
		assert.Contains(t, last[1], "sorry")
	})
}
