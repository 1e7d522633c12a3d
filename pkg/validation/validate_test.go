package validation

import (
	"strings"
	"testing"

	"answerdb/pkg/errs"
	"answerdb/pkg/models"
)

func TestValidateQuery(t *testing.T) {
	if err := ValidateQuery("fine", "s1"); err != nil {
		t.Fatalf("valid query rejected: %v", err)
	}
	if err := ValidateQuery("", ""); !errs.IsValidation(err) {
		t.Fatalf("empty query: %v", err)
	}
	if err := ValidateQuery(strings.Repeat("x", 3000), ""); !errs.IsValidation(err) {
		t.Fatalf("overlong query: %v", err)
	}
	if err := ValidateQuery("q", strings.Repeat("s", 200)); !errs.IsValidation(err) {
		t.Fatalf("overlong session id: %v", err)
	}
}

func TestValidateSave(t *testing.T) {
	if err := ValidateSave("q", "a", ""); err != nil {
		t.Fatalf("valid save rejected: %v", err)
	}
	if err := ValidateSave("q", "", ""); !errs.IsValidation(err) {
		t.Fatalf("empty answer: %v", err)
	}
	if err := ValidateSave("q", strings.Repeat("a", 70*1024), ""); !errs.IsValidation(err) {
		t.Fatalf("overlong answer: %v", err)
	}
}

func TestValidateMessage(t *testing.T) {
	if err := ValidateMessage(models.ChatMessage{Content: "hi", Role: models.RoleUser}); err != nil {
		t.Fatalf("valid message rejected: %v", err)
	}
	if err := ValidateMessage(models.ChatMessage{Content: "", Role: models.RoleUser}); !errs.IsValidation(err) {
		t.Fatalf("empty content: %v", err)
	}
	if err := ValidateMessage(models.ChatMessage{Content: "x", Role: "narrator"}); !errs.IsValidation(err) {
		t.Fatalf("bad role: %v", err)
	}
}

func TestSetRulesPartialOverride(t *testing.T) {
	orig := rules
	t.Cleanup(func() { rules = orig })

	SetRules(Rules{MaxQueryLen: 10})
	if err := ValidateQuery(strings.Repeat("x", 11), ""); !errs.IsValidation(err) {
		t.Fatalf("tightened query cap not applied: %v", err)
	}
	// untouched rules keep their previous values
	if rules.MaxAnswerLen != orig.MaxAnswerLen {
		t.Fatalf("answer cap changed by partial override")
	}
}
