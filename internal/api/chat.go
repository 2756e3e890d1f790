package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/chris/tutor/internal/agent"
	"github.com/chris/tutor/internal/db"
	"github.com/chris/tutor/internal/llm"
	"github.com/chris/tutor/internal/quota"
	"github.com/chris/tutor/internal/store"
	"github.com/chris/tutor/internal/tools"
)

// AccessGate is the slice of the quota gate the handler needs.
type AccessGate interface {
	Check(ctx context.Context, token string) (int64, error)
	Consume(token string, used int64)
}

// TranscriptStore persists conversation transcripts. Saves are
// best-effort; a failure is logged and never observable by the caller.
type TranscriptStore interface {
	SaveTranscript(id string, messages []llm.Message) error
	LoadTranscript(id string) ([]llm.Message, error)
}

// ChatHandler serves the turn endpoint and conversation history.
type ChatHandler struct {
	agent       *agent.Agent
	gate        AccessGate
	store       *store.Store
	transcripts TranscriptStore
	content     tools.ContentAPI
}

func NewChatHandler(ag *agent.Agent, gate AccessGate, st *store.Store, transcripts TranscriptStore, content tools.ContentAPI) *ChatHandler {
	return &ChatHandler{agent: ag, gate: gate, store: st, transcripts: transcripts, content: content}
}

func (h *ChatHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/chat", h.handleChat)
	mux.HandleFunc("GET /api/conversations/{id}/messages", h.handleHistory)
}

type chatRequest struct {
	Messages       []llm.Message `json:"messages"`
	ConversationID string        `json:"conversationId"`
	UserToken      string        `json:"userToken"`
}

type chatResponse struct {
	ConversationID string   `json:"conversationId"`
	Choices        []choice `json:"choices"`
	UsedTokens     int64    `json:"usedTokens"`
}

type choice struct {
	Message llm.Message `json:"message"`
}

func (h *ChatHandler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "request body is not valid JSON")
		return
	}
	if len(req.Messages) == 0 {
		writeError(w, http.StatusBadRequest, "invalid_request", "messages is required")
		return
	}
	if req.UserToken == "" {
		writeError(w, http.StatusUnauthorized, "missing_token", "userToken is required")
		return
	}

	ctx := r.Context()

	if _, err := h.gate.Check(ctx, req.UserToken); err != nil {
		if errors.Is(err, quota.ErrInsufficientQuota) {
			writeError(w, http.StatusPaymentRequired, "insufficient_quota", "token balance is exhausted")
			return
		}
		slog.Error("quota check failed", "error", err)
		writeError(w, http.StatusInternalServerError, "quota_unavailable", "could not verify quota")
		return
	}

	conversationID := req.ConversationID
	if conversationID == "" {
		conversationID = h.store.NewID()
	}
	history := h.loadHistory(conversationID)

	registry := tools.NewRegistry(h.content, req.UserToken)
	result, err := h.agent.Run(ctx, history, req.Messages, registry)
	if err != nil {
		slog.Error("turn failed", "conversation", conversationID, "error", err)
		writeError(w, http.StatusInternalServerError, "completion_failed", "the completion backend did not answer")
		return
	}

	appended := append(append([]llm.Message{}, req.Messages...), result.Produced...)
	updated := h.store.Append(conversationID, appended...)

	if h.transcripts != nil {
		if err := h.transcripts.SaveTranscript(conversationID, updated); err != nil {
			slog.Error("transcript save failed", "conversation", conversationID, "error", err)
		}
	}

	h.gate.Consume(req.UserToken, result.UsedTokens)

	writeJSON(w, http.StatusOK, chatResponse{
		ConversationID: conversationID,
		Choices:        []choice{{Message: result.Final}},
		UsedTokens:     result.UsedTokens,
	})
}

type historyResponse struct {
	Messages []llm.Message `json:"messages"`
}

func (h *ChatHandler) handleHistory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	history := h.loadHistory(id)

	visible := make([]llm.Message, 0, len(history))
	for _, m := range history {
		if m.Role == llm.RoleSystem {
			continue
		}
		visible = append(visible, m)
	}
	writeJSON(w, http.StatusOK, historyResponse{Messages: visible})
}

// loadHistory returns the in-memory history, hydrating from the
// transcript store when the process has not seen the conversation yet.
func (h *ChatHandler) loadHistory(id string) []llm.Message {
	if h.store.Has(id) {
		return h.store.Get(id)
	}
	if h.transcripts == nil {
		return nil
	}
	messages, err := h.transcripts.LoadTranscript(id)
	if err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			slog.Warn("transcript load failed", "conversation", id, "error", err)
		}
		return nil
	}
	h.store.Replace(id, messages)
	return h.store.Get(id)
}
