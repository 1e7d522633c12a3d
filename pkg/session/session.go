// Package session manages per-session chat transcripts: append-only
// message logs with lazy creation, plus whole-session export and import.
package session

import (
	"encoding/json"
	"time"

	"answerdb/pkg/errs"
	"answerdb/pkg/logger"
	"answerdb/pkg/models"
	"answerdb/pkg/store"
	"answerdb/pkg/utils"
)

// ensureMeta creates the session meta on first touch and returns the
// session's created timestamp.
func ensureMeta(id string) (int64, error) {
	created, ok, err := store.GetSessionMeta(id)
	if err != nil {
		return 0, err
	}
	if ok {
		return created, nil
	}
	created = time.Now().UTC().UnixNano()
	if err := store.SaveSessionMeta(id, created); err != nil {
		return 0, err
	}
	logger.Info("session_created", "session", id)
	return created, nil
}

// Append adds one message to the session, creating it if absent. Missing
// message ids are filled in.
func Append(id string, msg models.ChatMessage) error {
	if _, err := ensureMeta(id); err != nil {
		return err
	}
	if msg.ID == "" {
		msg.ID = utils.GenMessageID()
	}
	return store.AppendSessionMessage(id, msg)
}

// AppendExchange appends a user/assistant message pair for one answered
// query. The pair shares the caller-supplied user identity.
func AppendExchange(id, user, query, answer string) error {
	if err := Append(id, models.ChatMessage{Content: query, User: user, Role: models.RoleUser}); err != nil {
		return err
	}
	return Append(id, models.ChatMessage{Content: answer, User: user, Role: models.RoleAssistant})
}

// Read returns the full session. A session that was never written comes
// back empty with a fresh created timestamp; missing is not an error.
func Read(id string) (models.Session, error) {
	created, ok, err := store.GetSessionMeta(id)
	if err != nil {
		return models.Session{}, err
	}
	if !ok {
		return models.Session{ID: id, Messages: []models.ChatMessage{}, Created: time.Now().UTC().UnixNano()}, nil
	}
	msgs, err := store.ListSessionMessages(id)
	if err != nil {
		return models.Session{}, err
	}
	if msgs == nil {
		msgs = []models.ChatMessage{}
	}
	return models.Session{ID: id, Messages: msgs, Created: created}, nil
}

// LastAssistantMessages returns up to n most recent assistant-role
// messages, oldest first. Used to build follow-up context blocks.
func LastAssistantMessages(id string, n int) ([]models.ChatMessage, error) {
	sess, err := Read(id)
	if err != nil {
		return nil, err
	}
	var out []models.ChatMessage
	for i := len(sess.Messages) - 1; i >= 0 && len(out) < n; i-- {
		if sess.Messages[i].Role == models.RoleAssistant {
			out = append(out, sess.Messages[i])
		}
	}
	// reverse back to chronological order
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// Export serializes the full session document.
func Export(id string) ([]byte, error) {
	sess, err := Read(id)
	if err != nil {
		return nil, err
	}
	b, merr := json.Marshal(sess)
	if merr != nil {
		return nil, errs.Store(merr, "marshal session export")
	}
	return b, nil
}

// Import wholesale-replaces the target session from an exported document.
// The embedded session id must match the target id; a mismatch is a
// validation error and malformed input is a parse error. Neither failure
// writes anything.
func Import(id string, data []byte) error {
	var sess models.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return errs.Parse(err, "malformed session import payload")
	}
	if sess.ID != id {
		return errs.Validation("session id mismatch: payload is for %q, target is %q", sess.ID, id)
	}
	for _, m := range sess.Messages {
		if m.Role != models.RoleUser && m.Role != models.RoleAssistant {
			return errs.Validation("invalid message role %q in import", m.Role)
		}
	}
	if sess.Created == 0 {
		sess.Created = time.Now().UTC().UnixNano()
	}
	return store.ReplaceSession(sess)
}
