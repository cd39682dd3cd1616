package handlers

import (
	"context"
	"sync"

	"github.com/gin-gonic/gin"

	appctx "erpchat/internal/core/context"
	"erpchat/internal/domain/dialogue"
	"erpchat/internal/infrastructure/http/v1/dto"
	"erpchat/internal/infrastructure/storage/postgres"
	"erpchat/pkg/logger"
)

// ChatHandler serves the conversational endpoint.
type ChatHandler struct {
	*BaseHandler
	controller  *dialogue.Controller
	sessions    *dialogue.Store
	transcripts *postgres.TranscriptStore // nil when persistence is disabled

	// mu serializes dialogue steps. A session is single-conversation state;
	// two concurrent messages for the same session must not interleave.
	mu sync.Mutex
}

// NewChatHandler creates a chat handler. transcripts may be nil.
func NewChatHandler(
	base *BaseHandler,
	controller *dialogue.Controller,
	sessions *dialogue.Store,
	transcripts *postgres.TranscriptStore,
) *ChatHandler {
	return &ChatHandler{
		BaseHandler: base,
		controller:  controller,
		sessions:    sessions,
		transcripts: transcripts,
	}
}

// Chat advances one dialogue by one user message.
// POST /api/v1/chat
func (h *ChatHandler) Chat(c *gin.Context) {
	var req dto.ChatRequest
	if !h.BindJSON(c, &req) {
		return
	}

	h.mu.Lock()
	sess := h.sessions.Get(req.SessionID)

	// Attach session to request context for log correlation.
	ctx := c.Request.Context()
	if client := appctx.GetClient(ctx); client != nil {
		client.SessionID = sess.ID
	}

	next, reply := h.controller.Step(ctx, sess, req.Message)
	h.sessions.Put(next)
	h.mu.Unlock()

	h.persistTurn(ctx, next, req.Message, reply)

	h.OK(c, dto.FromStep(next, reply))
}

// persistTurn journals the exchange. Best effort: transcript loss never
// fails the chat request.
func (h *ChatHandler) persistTurn(ctx context.Context, sess dialogue.Session, userText string, reply dialogue.Reply) {
	if h.transcripts == nil {
		return
	}

	rec := postgres.SessionRecord{
		ID:       sess.ID,
		ClientID: appctx.GetClientID(ctx),
		State:    string(sess.State),
	}
	if err := h.transcripts.UpsertSession(ctx, rec); err != nil {
		logger.Warn(ctx, "persist session failed", "error", err)
		return
	}
	if err := h.transcripts.AppendMessage(ctx, sess.ID, postgres.RoleUser, userText); err != nil {
		logger.Warn(ctx, "persist user message failed", "error", err)
	}
	if err := h.transcripts.AppendMessage(ctx, sess.ID, postgres.RoleAssistant, reply.Text); err != nil {
		logger.Warn(ctx, "persist reply failed", "error", err)
	}
	if reply.SubmitAttempted {
		outcome := "failed"
		if reply.Submitted {
			outcome = "submitted"
		}
		if err := h.transcripts.RecordSubmission(ctx, sess.ID, string(reply.Action), reply.Result, outcome); err != nil {
			logger.Warn(ctx, "persist submission failed", "error", err)
		}
	}
}

// --- transcript read endpoints (enabled with persistence) ---

// ListSessions returns recent chat sessions.
// GET /api/v1/sessions
func (h *ChatHandler) ListSessions(c *gin.Context) {
	limit := h.ParseIntQuery(c, "limit", 50)
	sessions, err := h.transcripts.ListSessions(c.Request.Context(), limit)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.List(c, sessions, len(sessions))
}

// ListMessages returns one session's transcript.
// GET /api/v1/sessions/:id/messages
func (h *ChatHandler) ListMessages(c *gin.Context) {
	limit := h.ParseIntQuery(c, "limit", 200)
	messages, err := h.transcripts.ListMessages(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.List(c, messages, len(messages))
}
