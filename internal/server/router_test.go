package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shulman33/careerchat/internal/api/handlers"
	"github.com/shulman33/careerchat/internal/chat"
	"github.com/shulman33/careerchat/internal/domain"
)

type stubOrchestrator struct{}

func (stubOrchestrator) Chat(ctx context.Context, message string, history []domain.Turn, emit func(partial string)) (*chat.Result, error) {
	emit("hello")
	return &chat.Result{
		Reply:   "hello",
		History: []domain.Turn{{Role: domain.RoleUser, Content: message}, {Role: domain.RoleAssistant, Content: "hello"}},
	}, nil
}

type stubQAStore struct{}

func (stubQAStore) FetchAll(ctx context.Context) ([]*domain.QAEntry, error) {
	return []*domain.QAEntry{{ID: 1, Question: "q", Answer: "a"}}, nil
}

func (stubQAStore) Insert(ctx context.Context, question, answer string) error { return nil }

func (stubQAStore) UpdateAnswer(ctx context.Context, question, newAnswer string) (bool, error) {
	return true, nil
}

func newTestRouter() http.Handler {
	return NewRouter(RouterConfig{
		ChatHandler: handlers.NewChatHandler(stubOrchestrator{}),
		QAHandler:   handlers.NewQAHandler(stubQAStore{}),
	})
}

func TestRouter(t *testing.T) {
	router := newTestRouter()

	t.Run("health endpoint", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"status":"ok"`)
	})

	t.Run("request IDs are assigned", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	})

	t.Run("chat endpoint streams events", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message": "hi"}`))
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Body.String(), "event: done")
	})

	t.Run("qa routes are wired", func(t *testing.T) {
		for _, tc := range []struct {
			method string
			path   string
			body   string
			status int
		}{
			{http.MethodGet, "/qa/", "", http.StatusOK},
			{http.MethodGet, "/qa/pending", "", http.StatusOK},
			{http.MethodPost, "/qa/", `{"question": "q", "answer": "a"}`, http.StatusCreated},
			{http.MethodPut, "/qa/", `{"question": "q", "new_answer": "b"}`, http.StatusOK},
		} {
			var body *strings.Reader
			if tc.body != "" {
				body = strings.NewReader(tc.body)
			} else {
				body = strings.NewReader("")
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, body))
			assert.Equal(t, tc.status, rec.Code, "%s %s", tc.method, tc.path)
		}
	})

	t.Run("oversized bodies are rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader("{}"))
		req.ContentLength = 2 * 1024 * 1024
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})

	t.Run("unknown route is a 404", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}
