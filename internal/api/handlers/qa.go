package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/shulman33/careerchat/internal/api"
	"github.com/shulman33/careerchat/internal/domain"
)

// QAStore is the repository surface the admin endpoints need.
type QAStore interface {
	FetchAll(ctx context.Context) ([]*domain.QAEntry, error)
	Insert(ctx context.Context, question, answer string) error
	UpdateAnswer(ctx context.Context, question, newAnswer string) (bool, error)
}

// QAHandler is the owner's surface over the knowledge store: inspecting
// entries, adding answers, and replacing sentinel placeholders recorded by
// the assistant.
type QAHandler struct {
	store QAStore
}

func NewQAHandler(store QAStore) *QAHandler {
	return &QAHandler{store: store}
}

type qaEntryResponse struct {
	ID          int64     `json:"id"`
	Question    string    `json:"question"`
	Answer      string    `json:"answer"`
	NeedsAnswer bool      `json:"needs_answer"`
	CreatedAt   time.Time `json:"created_at"`
}

func toQAResponse(e *domain.QAEntry) qaEntryResponse {
	return qaEntryResponse{
		ID:          e.ID,
		Question:    e.Question,
		Answer:      e.Answer,
		NeedsAnswer: e.NeedsAnswer(),
		CreatedAt:   e.CreatedAt,
	}
}

// List handles GET /qa, newest first.
func (h *QAHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.FetchAll(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}

	out := make([]qaEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toQAResponse(e))
	}
	api.Success(w, http.StatusOK, out)
}

// ListPending handles GET /qa/pending: entries still carrying the sentinel
// answer, i.e. questions waiting on the owner.
func (h *QAHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.FetchAll(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}

	out := make([]qaEntryResponse, 0)
	for _, e := range entries {
		if e.NeedsAnswer() {
			out = append(out, toQAResponse(e))
		}
	}
	api.Success(w, http.StatusOK, out)
}

type addQARequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Add handles POST /qa. Always appends, even for a duplicate question:
// corrections supersede rather than mutate.
func (h *QAHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req addQARequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.store.Insert(r.Context(), req.Question, req.Answer); err != nil {
		api.HandleError(w, err)
		return
	}
	api.Success(w, http.StatusCreated, map[string]bool{"added": true})
}

type updateQARequest struct {
	Question  string `json:"question"`
	NewAnswer string `json:"new_answer"`
}

// Update handles PUT /qa: replaces the answer on the newest row matching
// the exact question text.
func (h *QAHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateQARequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.store.UpdateAnswer(r.Context(), req.Question, req.NewAnswer)
	if err != nil {
		api.HandleError(w, err)
		return
	}
	if !updated {
		api.Error(w, http.StatusNotFound, "question not found")
		return
	}
	api.Success(w, http.StatusOK, map[string]bool{"updated": true})
}
