package store

import (
	"encoding/json"

	"answerdb/pkg/errs"
	"answerdb/pkg/logger"
	"answerdb/pkg/models"
)

// Session storage layout:
//
//	session:<id>:meta                     -> {"sessionId":..., "created":...}
//	session:<id>:msg:<padded_ts>-<seq>    -> models.ChatMessage
//
// Prefix iteration over the msg namespace yields insertion order.

type sessionMeta struct {
	ID      string `json:"sessionId"`
	Created int64  `json:"created"`
}

func sessionMetaKey(id string) string { return sessionPrefix + id + ":meta" }
func sessionMsgPrefix(id string) string { return sessionPrefix + id + ":msg:" }

// GetSessionMeta returns (created, true) when the session exists.
func GetSessionMeta(id string) (int64, bool, error) {
	v, ok, err := get(sessionMetaKey(id))
	if err != nil || !ok {
		return 0, false, err
	}
	var m sessionMeta
	if err := json.Unmarshal(v, &m); err != nil {
		return 0, false, errs.Store(err, "decode session meta "+id)
	}
	return m.Created, true, nil
}

// SaveSessionMeta writes the session meta record.
func SaveSessionMeta(id string, created int64) error {
	b, err := json.Marshal(sessionMeta{ID: id, Created: created})
	if err != nil {
		return errs.Store(err, "marshal session meta")
	}
	return set(sessionMetaKey(id), b)
}

// AppendSessionMessage appends one message to a session's ordered log.
func AppendSessionMessage(id string, msg models.ChatMessage) error {
	b, err := json.Marshal(msg)
	if err != nil {
		return errs.Store(err, "marshal chat message")
	}
	key := sessionMsgPrefix(id) + nextMsgSuffix()
	if err := set(key, b); err != nil {
		return err
	}
	logger.Debug("session_message_appended", "session", id, "role", msg.Role, "key", key)
	return nil
}

// ListSessionMessages returns a session's messages in insertion order.
func ListSessionMessages(id string) ([]models.ChatMessage, error) {
	vals, err := listValues(sessionMsgPrefix(id))
	if err != nil {
		return nil, err
	}
	out := make([]models.ChatMessage, 0, len(vals))
	for _, v := range vals {
		var m models.ChatMessage
		if err := json.Unmarshal(v, &m); err != nil {
			return nil, errs.Store(err, "decode chat message in session "+id)
		}
		out = append(out, m)
	}
	return out, nil
}

// ReplaceSession wholesale-replaces a session's meta and messages. Callers
// validate the replacement before calling; this only does the swap.
func ReplaceSession(sess models.Session) error {
	if err := deletePrefix(sessionPrefix + sess.ID + ":"); err != nil {
		return err
	}
	if err := SaveSessionMeta(sess.ID, sess.Created); err != nil {
		return err
	}
	for _, m := range sess.Messages {
		if err := AppendSessionMessage(sess.ID, m); err != nil {
			return err
		}
	}
	logger.Info("session_replaced", "session", sess.ID, "messages", len(sess.Messages))
	return nil
}
