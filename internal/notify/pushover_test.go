package notify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shulman33/careerchat/internal/domain"
)

func TestPushoverClient_Push(t *testing.T) {
	ctx := context.Background()

	t.Run("posts the form payload", func(t *testing.T) {
		var gotToken, gotUser, gotMessage string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			gotToken = r.FormValue("token")
			gotUser = r.FormValue("user")
			gotMessage = r.FormValue("message")
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		c := NewPushoverClientWithEndpoint("tok", "usr", srv.URL)
		require.NoError(t, c.Push(ctx, "Question needs answer: what is your favorite color?"))

		assert.Equal(t, "tok", gotToken)
		assert.Equal(t, "usr", gotUser)
		assert.Contains(t, gotMessage, "favorite color")
	})

	t.Run("non-200 status is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer srv.Close()

		c := NewPushoverClientWithEndpoint("tok", "usr", srv.URL)
		assert.Error(t, c.Push(ctx, "msg"))
	})

	t.Run("noop pusher always succeeds", func(t *testing.T) {
		assert.NoError(t, NoopPusher{}.Push(ctx, "msg"))
	})
}

func TestRenderSummaryEmail(t *testing.T) {
	subject, body := RenderSummaryEmail(&domain.ChatSummary{
		UserName:              "Jane",
		UserEmail:             "jane@example.com",
		TopicsDiscussed:       []string{"Go experience", "distributed systems"},
		UserInterests:         "backend roles",
		ConversationSentiment: "positive",
		NotableQuestions:      []string{"Are you open to relocation?"},
	})

	assert.Equal(t, "Website chat follow-up from Jane", subject)
	assert.Contains(t, body, "jane@example.com")
	assert.Contains(t, body, "- Go experience")
	assert.Contains(t, body, "- Are you open to relocation?")
	assert.Contains(t, body, "positive")
}

func TestRenderSummaryEmail_MinimalDigest(t *testing.T) {
	subject, body := RenderSummaryEmail(&domain.ChatSummary{
		UserName:  "Visitor",
		UserEmail: "x@example.com",
	})

	assert.Equal(t, "Website chat follow-up from Visitor", subject)
	assert.Contains(t, body, "x@example.com")
	assert.NotContains(t, body, "Topics discussed")
}
