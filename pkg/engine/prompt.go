package engine

import (
	"encoding/json"

	"answerdb/pkg/errs"
	"answerdb/pkg/models"
	"answerdb/pkg/session"
)

// buildPrompt returns the provider prompt for a query event. Follow-ups
// get a JSON context block built from the session's most recent
// assistant messages prepended before the raw query; everything else is
// the raw query verbatim.
func (e *Engine) buildPrompt(req QueryRequest) (string, error) {
	if !req.FollowUp || req.SessionID == "" {
		return req.Query, nil
	}
	recent, err := session.LastAssistantMessages(req.SessionID, e.cfg.ContextMessages)
	if err != nil {
		return "", err
	}
	if len(recent) == 0 {
		return req.Query, nil
	}
	type ctxMessage struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	block := make([]ctxMessage, 0, len(recent))
	for _, m := range recent {
		block = append(block, ctxMessage{Role: models.RoleAssistant, Content: m.Content})
	}
	b, merr := json.Marshal(block)
	if merr != nil {
		return "", errs.Store(merr, "marshal follow-up context")
	}
	return "Context from previous answers:\n" + string(b) + "\n\n" + req.Query, nil
}
