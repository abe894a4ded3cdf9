package tools

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shulman33/careerchat/internal/domain"
)

// MockSummarizer is a mock implementation of ConversationSummarizer
type MockSummarizer struct {
	mock.Mock
}

func (m *MockSummarizer) Summarize(ctx context.Context, email, name, notes string, transcript []domain.Turn) (*domain.ChatSummary, error) {
	args := m.Called(ctx, email, name, notes, transcript)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatSummary), args.Error(1)
}

// MockEmailSender is a mock implementation of notify.EmailSender
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) Send(ctx context.Context, subject, body string) error {
	args := m.Called(ctx, subject, body)
	return args.Error(0)
}

func TestTranscriptContext(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, TranscriptFrom(ctx))

	transcript := []domain.Turn{{Role: domain.RoleUser, Content: "hi"}}
	ctx = WithTranscript(ctx, transcript)
	assert.Equal(t, transcript, TranscriptFrom(ctx))
}

func TestSendFollowupEmailTool(t *testing.T) {
	transcript := []domain.Turn{
		{Role: domain.RoleUser, Content: "Can you put me in touch?"},
	}
	summary := &domain.ChatSummary{
		UserName:  "Jane",
		UserEmail: "jane@example.com",
	}

	t.Run("summarizes the transcript from context and sends", func(t *testing.T) {
		summarizer := new(MockSummarizer)
		sender := new(MockEmailSender)
		summarizer.On("Summarize", mock.Anything, "jane@example.com", "Jane", "", transcript).
			Return(summary, nil)
		sender.On("Send", mock.Anything, mock.MatchedBy(func(subject string) bool {
			return subject == "Website chat follow-up from Jane"
		}), mock.Anything).Return(nil)

		r := NewRegistry()
		RegisterEmailTool(r, summarizer, sender)

		ctx := WithTranscript(context.Background(), transcript)
		out := r.Dispatch(ctx, "send_followup_email", []byte(`{"email": "jane@example.com", "name": "Jane"}`))
		require.Contains(t, out, `"status":"sent"`)
		sender.AssertExpectations(t)
	})

	t.Run("missing email is rejected", func(t *testing.T) {
		r := NewRegistry()
		RegisterEmailTool(r, new(MockSummarizer), new(MockEmailSender))

		out := r.Dispatch(context.Background(), "send_followup_email", []byte(`{"name": "Jane"}`))
		assert.Contains(t, out, `"status":"error"`)
	})

	t.Run("summary failure downgrades to a minimal digest", func(t *testing.T) {
		summarizer := new(MockSummarizer)
		sender := new(MockEmailSender)
		summarizer.On("Summarize", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(nil, errors.New("model down"))
		sender.On("Send", mock.Anything, mock.Anything, mock.MatchedBy(func(body string) bool {
			return strings.Contains(body, "x@example.com")
		})).Return(nil)

		r := NewRegistry()
		RegisterEmailTool(r, summarizer, sender)

		out := r.Dispatch(context.Background(), "send_followup_email", []byte(`{"email": "x@example.com"}`))
		assert.Contains(t, out, `"status":"sent"`)
		sender.AssertExpectations(t)
	})

	t.Run("delivery failure reassures the visitor", func(t *testing.T) {
		summarizer := new(MockSummarizer)
		sender := new(MockEmailSender)
		summarizer.On("Summarize", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(summary, nil)
		sender.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("ses down"))

		r := NewRegistry()
		RegisterEmailTool(r, summarizer, sender)

		out := r.Dispatch(context.Background(), "send_followup_email", []byte(`{"email": "jane@example.com"}`))
		assert.Contains(t, out, `"status":"error"`)
		assert.Contains(t, out, "passed along")
	})
}
