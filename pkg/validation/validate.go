package validation

import (
	"answerdb/pkg/errs"
	"answerdb/pkg/models"
)

// Rules bound the request payloads this API accepts. Set once at startup
// from config; zero values mean the built-in defaults.
type Rules struct {
	MaxQueryLen   int
	MaxAnswerLen  int
	MaxSessionLen int
}

var rules = Rules{
	MaxQueryLen:   2000,
	MaxAnswerLen:  64 * 1024,
	MaxSessionLen: 128,
}

func SetRules(r Rules) {
	if r.MaxQueryLen > 0 {
		rules.MaxQueryLen = r.MaxQueryLen
	}
	if r.MaxAnswerLen > 0 {
		rules.MaxAnswerLen = r.MaxAnswerLen
	}
	if r.MaxSessionLen > 0 {
		rules.MaxSessionLen = r.MaxSessionLen
	}
}

// ValidateQuery checks a query/load request.
func ValidateQuery(query, sessionID string) error {
	if query == "" {
		return errs.Validation("query is required")
	}
	if len(query) > rules.MaxQueryLen {
		return errs.Validation("query too long: %d > %d", len(query), rules.MaxQueryLen)
	}
	return validateSessionID(sessionID)
}

// ValidateSave checks an explicit answer edit.
func ValidateSave(query, answer, sessionID string) error {
	if err := ValidateQuery(query, sessionID); err != nil {
		return err
	}
	if answer == "" {
		return errs.Validation("answer is required")
	}
	if len(answer) > rules.MaxAnswerLen {
		return errs.Validation("answer too long: %d > %d", len(answer), rules.MaxAnswerLen)
	}
	return nil
}

// ValidateMessage checks a chat message before it is appended.
func ValidateMessage(m models.ChatMessage) error {
	if m.Content == "" {
		return errs.Validation("message content is required")
	}
	if m.Role != models.RoleUser && m.Role != models.RoleAssistant {
		return errs.Validation("invalid message role %q", m.Role)
	}
	return nil
}

func validateSessionID(id string) error {
	if len(id) > rules.MaxSessionLen {
		return errs.Validation("session id too long: %d > %d", len(id), rules.MaxSessionLen)
	}
	return nil
}
