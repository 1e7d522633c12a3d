// Package engine owns the two-tier answer cache and the query
// orchestration around it: key derivation, read/write routing between the
// canonical "truth" record and the promoted fast-path record, the usage
// counter that drives promotion, and the daily popularity ranking.
package engine

import (
	"context"
	"time"

	"answerdb/pkg/errs"
	"answerdb/pkg/logger"
	"answerdb/pkg/models"
	"answerdb/pkg/normalize"
	"answerdb/pkg/provider"
	"answerdb/pkg/session"
	"answerdb/pkg/store"
)

// Answer sources reported to callers.
const (
	SourceCache = "cache"
	SourceTruth = "truth"
	SourceModel = "model"
)

// Config is the engine policy, fixed at construction.
type Config struct {
	// PromoteThreshold is the usage count a query must exceed before its
	// answer is promoted to the fast path.
	PromoteThreshold int64
	// TopLimit is the default length of the popularity ranking.
	TopLimit int
	// ContextMessages is how many recent assistant messages feed a
	// follow-up prompt.
	ContextMessages int
}

func (c Config) withDefaults() Config {
	if c.PromoteThreshold <= 0 {
		c.PromoteThreshold = 5
	}
	if c.TopLimit <= 0 {
		c.TopLimit = 10
	}
	if c.ContextMessages <= 0 {
		c.ContextMessages = 2
	}
	return c
}

type Engine struct {
	cfg      Config
	provider provider.Provider
	locks    lockPool
}

func New(cfg Config, p provider.Provider) *Engine {
	return &Engine{cfg: cfg.withDefaults(), provider: p}
}

// QueryRequest is one query event.
type QueryRequest struct {
	Query     string
	SessionID string
	User      string
	FollowUp  bool
}

// QueryResult carries the answer and which tier produced it.
type QueryResult struct {
	Query  string `json:"query"`
	Answer string `json:"answer"`
	Source string `json:"source"`
}

// SaveRequest is an explicit human edit of an answer.
type SaveRequest struct {
	Query     string
	Answer    string
	EditedBy  string
	SessionID string
}

// Load is a side-effect-free peek at the canonical record. It never
// consults the fast path and never touches counters; an absent record
// returns nil without error.
func (e *Engine) Load(query string) (*models.AnswerRecord, error) {
	norm := normalize.Query(query)
	if norm == "" {
		return nil, errs.Validation("query is required")
	}
	return store.GetAnswer(norm)
}

// Save writes or overwrites the canonical record from a human edit,
// preserving the original created timestamp, then records the usage event.
func (e *Engine) Save(ctx context.Context, req SaveRequest) (*models.AnswerRecord, error) {
	norm := normalize.Query(req.Query)
	if norm == "" {
		return nil, errs.Validation("query is required")
	}
	if req.Answer == "" {
		return nil, errs.Validation("answer is required")
	}
	editor := req.EditedBy
	if editor == "" {
		editor = "user"
	}

	lock := e.locks.get(norm)
	lock.Lock()
	defer lock.Unlock()

	now := time.Now().UTC().UnixNano()
	created := now
	if prev, err := store.GetAnswer(norm); err != nil {
		return nil, err
	} else if prev != nil {
		created = prev.Created
	}

	rec := models.AnswerRecord{
		Answer:       req.Answer,
		LastEditedBy: editor,
		Edited:       true,
		Created:      created,
		TS:           now,
	}
	if err := store.SaveAnswer(norm, rec); err != nil {
		return nil, err
	}
	if req.SessionID != "" {
		if err := session.AppendExchange(req.SessionID, editor, req.Query, req.Answer); err != nil {
			return nil, err
		}
	}
	if err := e.bumpAndMaybePromote(norm, req.Answer); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Query answers one query event: fast path first, then the canonical
// record, then the model provider. Only a provider success mutates cache
// state; a provider failure leaves counters and records untouched.
func (e *Engine) Query(ctx context.Context, req QueryRequest) (QueryResult, error) {
	norm := normalize.Query(req.Query)
	if norm == "" {
		return QueryResult{}, errs.Validation("query is required")
	}

	lock := e.locks.get(norm)
	lock.Lock()
	defer lock.Unlock()

	// fast path: promoted record answers without touching anything else
	cached, err := store.GetCachedAnswer(norm)
	if err != nil {
		return QueryResult{}, err
	}
	if cached != nil {
		answerHits.WithLabelValues(SourceCache).Inc()
		if err := e.appendExchange(req, cached.Answer); err != nil {
			return QueryResult{}, err
		}
		logger.Info("query_answered", "query", norm, "source", SourceCache)
		return QueryResult{Query: norm, Answer: cached.Answer, Source: SourceCache}, nil
	}

	// canonical record: answers without a provider call, still counts
	// toward promotion
	truth, err := store.GetAnswer(norm)
	if err != nil {
		return QueryResult{}, err
	}
	if truth != nil {
		answerHits.WithLabelValues(SourceTruth).Inc()
		if err := e.appendExchange(req, truth.Answer); err != nil {
			return QueryResult{}, err
		}
		if err := e.bumpAndMaybePromote(norm, truth.Answer); err != nil {
			return QueryResult{}, err
		}
		logger.Info("query_answered", "query", norm, "source", SourceTruth)
		return QueryResult{Query: norm, Answer: truth.Answer, Source: SourceTruth}, nil
	}

	// miss: invoke the model before any write so failure mutates nothing
	answerMisses.Inc()
	prompt, err := e.buildPrompt(req)
	if err != nil {
		return QueryResult{}, err
	}
	answer, err := e.provider.Invoke(ctx, prompt)
	if err != nil {
		providerCalls.WithLabelValues("error").Inc()
		logger.Warn("provider_invoke_failed", "query", norm, "error", err)
		return QueryResult{}, err
	}
	providerCalls.WithLabelValues("ok").Inc()

	now := time.Now().UTC().UnixNano()
	rec := models.AnswerRecord{
		Answer:       answer,
		LastEditedBy: "ai",
		Edited:       false,
		Created:      now,
		TS:           now,
	}
	if err := store.SaveAnswer(norm, rec); err != nil {
		return QueryResult{}, err
	}
	if err := e.appendExchange(req, answer); err != nil {
		return QueryResult{}, err
	}
	if err := e.bumpAndMaybePromote(norm, answer); err != nil {
		return QueryResult{}, err
	}
	logger.Info("query_answered", "query", norm, "source", SourceModel)
	return QueryResult{Query: norm, Answer: answer, Source: SourceModel}, nil
}

func (e *Engine) appendExchange(req QueryRequest, answer string) error {
	if req.SessionID == "" {
		return nil
	}
	return session.AppendExchange(req.SessionID, req.User, req.Query, answer)
}

// bumpAndMaybePromote records one usage event and writes the fast-path
// record once the count exceeds the threshold. Caller holds the per-key
// lock. The truth record is always written before this runs, so a crash
// between the two writes loses at most one count and can never promote an
// answer that was not stored.
func (e *Engine) bumpAndMaybePromote(norm, answer string) error {
	n, err := store.IncrCount(norm)
	if err != nil {
		return err
	}
	if n > e.cfg.PromoteThreshold {
		if err := store.SaveCachedAnswer(norm, models.CachedAnswer{
			Answer: answer,
			TS:     time.Now().UTC().UnixNano(),
		}); err != nil {
			return err
		}
		promotions.Inc()
		logger.Info("query_promoted", "query", norm, "count", n)
	}
	return nil
}
