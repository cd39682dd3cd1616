package dto

import (
	"erpchat/internal/domain/dialogue"
	"erpchat/internal/domain/transaction"
)

// ChatRequest is one user utterance. SessionID is optional: a missing or
// unknown ID starts a fresh dialogue and the response returns the ID to use
// for follow-ups.
type ChatRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message" binding:"required"`
}

// ChatResponse is the dialogue reply for one utterance.
type ChatResponse struct {
	SessionID   string                   `json:"sessionId"`
	State       dialogue.State           `json:"state"`
	Reply       string                   `json:"reply"`
	Submitted   bool                     `json:"submitted"`
	Result      map[string]any           `json:"result,omitempty"`
	Transaction *transaction.Transaction `json:"transaction,omitempty"`
}

// FromStep builds the response from a dialogue step outcome.
func FromStep(sess dialogue.Session, reply dialogue.Reply) ChatResponse {
	return ChatResponse{
		SessionID:   sess.ID,
		State:       sess.State,
		Reply:       reply.Text,
		Submitted:   reply.Submitted,
		Result:      reply.Result,
		Transaction: sess.Tx,
	}
}
