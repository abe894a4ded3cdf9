package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/shulman33/careerchat/internal/api"
	"github.com/shulman33/careerchat/internal/chat"
	"github.com/shulman33/careerchat/internal/domain"
)

// Conversationalist runs one conversation turn. *chat.Orchestrator
// satisfies it.
type Conversationalist interface {
	Chat(ctx context.Context, message string, history []domain.Turn, emit func(partial string)) (*chat.Result, error)
}

// ChatHandler serves the streaming chat endpoint.
type ChatHandler struct {
	orch Conversationalist
}

func NewChatHandler(orch Conversationalist) *ChatHandler {
	return &ChatHandler{orch: orch}
}

type chatRequest struct {
	Message string        `json:"message"`
	History []domain.Turn `json:"history"`
}

type chatDelta struct {
	Text string `json:"text"`
}

type chatDone struct {
	Reply    string                 `json:"reply"`
	Blocked  bool                   `json:"blocked"`
	Retried  bool                   `json:"retried"`
	Verdicts []domain.FilterVerdict `json:"verdicts"`
	History  []domain.Turn          `json:"history"`
}

// apologyReply is shown instead of internal error text when a turn fails
// after streaming has begun.
const apologyReply = "I'm sorry, something went wrong on my end. Please try again in a moment."

// Stream handles POST /chat. The response is a server-sent event stream:
// each "delta" event carries the cumulative partial reply (a prefix of the
// final text, to be displayed as a replacement), and a final "done" event
// carries the completed turn.
func (h *ChatHandler) Stream(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Message == "" {
		api.Error(w, http.StatusBadRequest, "message is required")
		return
	}
	for _, t := range req.History {
		if !domain.ValidTurnRole(t.Role) {
			api.Error(w, http.StatusBadRequest, "history roles must be user or assistant")
			return
		}
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		api.Error(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	emit := func(partial string) {
		writeEvent(w, flusher, "delta", chatDelta{Text: partial})
	}

	result, err := h.orch.Chat(r.Context(), req.Message, req.History, emit)
	if err != nil {
		// The stream is already open; degrade to a generic apology
		// instead of leaking internal error text.
		log.Printf("chat_turn_failed: %v", err)
		writeEvent(w, flusher, "error", chatDelta{Text: apologyReply})
		return
	}

	writeEvent(w, flusher, "done", chatDone{
		Reply:    result.Reply,
		Blocked:  result.Blocked,
		Retried:  result.Retried,
		Verdicts: result.Verdicts,
		History:  result.History,
	})
}

func writeEvent(w http.ResponseWriter, flusher http.Flusher, event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("sse_marshal_error: %v", err)
		return
	}
	if _, err := w.Write([]byte("event: " + event + "\ndata: " + string(data) + "\n\n")); err != nil {
		return
	}
	flusher.Flush()
}
