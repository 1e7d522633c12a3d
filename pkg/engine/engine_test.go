package engine

import (
	"context"
	"strings"
	"testing"
	"time"

	"answerdb/pkg/errs"
	"answerdb/pkg/models"
	"answerdb/pkg/session"
	"answerdb/pkg/store"
)

type fakeProvider struct {
	answer     string
	err        error
	calls      int
	lastPrompt string
}

func (f *fakeProvider) Invoke(_ context.Context, prompt string) (string, error) {
	f.calls++
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func newTestEngine(t *testing.T, p *fakeProvider) *Engine {
	t.Helper()
	if err := store.Open(t.TempDir()); err != nil {
		t.Fatalf("open pebble: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return New(Config{}, p)
}

func TestSaveAndLoad(t *testing.T) {
	e := newTestEngine(t, &fakeProvider{})
	ctx := context.Background()

	rec, err := e.Save(ctx, SaveRequest{Query: "What is Pebble?", Answer: "a KV store", EditedBy: "carol"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !rec.Edited || rec.LastEditedBy != "carol" {
		t.Fatalf("edit metadata wrong: %+v", rec)
	}

	// load uses the same normalization, so a differently-punctuated form hits
	got, err := e.Load("what is pebble")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got == nil || got.Answer != "a KV store" {
		t.Fatalf("load returned %+v", got)
	}
}

func TestLoadAbsentAndEmpty(t *testing.T) {
	e := newTestEngine(t, &fakeProvider{})

	got, err := e.Load("never asked")
	if err != nil || got != nil {
		t.Fatalf("absent load: %+v, %v", got, err)
	}
	if _, err := e.Load("!!!"); !errs.IsValidation(err) {
		t.Fatalf("want validation error for empty normalized query, got %v", err)
	}
}

func TestSavePreservesCreated(t *testing.T) {
	e := newTestEngine(t, &fakeProvider{})
	ctx := context.Background()

	first, err := e.Save(ctx, SaveRequest{Query: "q", Answer: "v1"})
	if err != nil {
		t.Fatalf("first save: %v", err)
	}
	time.Sleep(2 * time.Millisecond)
	second, err := e.Save(ctx, SaveRequest{Query: "q", Answer: "v2"})
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if second.Created != first.Created {
		t.Fatalf("created drifted: %d -> %d", first.Created, second.Created)
	}
	if second.TS <= first.TS {
		t.Fatalf("ts did not advance: %d -> %d", first.TS, second.TS)
	}
}

func TestSaveDefaultsEditor(t *testing.T) {
	e := newTestEngine(t, &fakeProvider{})

	rec, err := e.Save(context.Background(), SaveRequest{Query: "q", Answer: "a"})
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if rec.LastEditedBy != "user" {
		t.Fatalf("editor default = %q, want user", rec.LastEditedBy)
	}
}

func TestQueryMissThenTruthThenCache(t *testing.T) {
	p := &fakeProvider{answer: "model says hi"}
	e := newTestEngine(t, p)
	ctx := context.Background()

	res, err := e.Query(ctx, QueryRequest{Query: "Hello, World!"})
	if err != nil {
		t.Fatalf("first query: %v", err)
	}
	if res.Source != SourceModel || res.Answer != "model says hi" {
		t.Fatalf("first query: %+v", res)
	}
	if res.Query != "hello-world" {
		t.Fatalf("result query not normalized: %q", res.Query)
	}

	// events 2..5 answer from the canonical record with no provider call
	for i := 2; i <= 5; i++ {
		res, err = e.Query(ctx, QueryRequest{Query: "hello world"})
		if err != nil {
			t.Fatalf("query %d: %v", i, err)
		}
		if res.Source != SourceTruth {
			t.Fatalf("query %d source = %q, want truth", i, res.Source)
		}
	}
	if p.calls != 1 {
		t.Fatalf("provider called %d times, want 1", p.calls)
	}
	if cached, _ := store.GetCachedAnswer("hello-world"); cached != nil {
		t.Fatalf("promoted at count 5, threshold is strict greater-than")
	}

	// the 6th event crosses the threshold and promotes
	if _, err := e.Query(ctx, QueryRequest{Query: "HELLO WORLD"}); err != nil {
		t.Fatalf("sixth query: %v", err)
	}
	cached, err := store.GetCachedAnswer("hello-world")
	if err != nil || cached == nil {
		t.Fatalf("expected promotion after sixth event: %+v, %v", cached, err)
	}

	// promoted record now answers directly
	res, err = e.Query(ctx, QueryRequest{Query: "hello world"})
	if err != nil {
		t.Fatalf("post-promotion query: %v", err)
	}
	if res.Source != SourceCache {
		t.Fatalf("post-promotion source = %q, want cache", res.Source)
	}
	if p.calls != 1 {
		t.Fatalf("provider called %d times after promotion, want 1", p.calls)
	}
}

func TestProviderFailureMutatesNothing(t *testing.T) {
	p := &fakeProvider{err: errs.Providerf("backend down")}
	e := newTestEngine(t, p)

	_, err := e.Query(context.Background(), QueryRequest{Query: "doomed", SessionID: "s1"})
	if !errs.IsProvider(err) {
		t.Fatalf("want provider error, got %v", err)
	}

	if rec, _ := store.GetAnswer("doomed"); rec != nil {
		t.Fatalf("failed query wrote a truth record: %+v", rec)
	}
	if n, _ := store.GetCount("doomed"); n != 0 {
		t.Fatalf("failed query bumped counter to %d", n)
	}
	sess, _ := session.Read("s1")
	if len(sess.Messages) != 0 {
		t.Fatalf("failed query appended to session: %+v", sess.Messages)
	}
}

func TestQueryAppendsExchange(t *testing.T) {
	p := &fakeProvider{answer: "the answer"}
	e := newTestEngine(t, p)

	if _, err := e.Query(context.Background(), QueryRequest{Query: "q one", SessionID: "s1", User: "dave"}); err != nil {
		t.Fatalf("query: %v", err)
	}
	sess, err := session.Read("s1")
	if err != nil {
		t.Fatalf("read session: %v", err)
	}
	if len(sess.Messages) != 2 {
		t.Fatalf("want user+assistant pair, got %d messages", len(sess.Messages))
	}
	if sess.Messages[0].Role != models.RoleUser || sess.Messages[1].Role != models.RoleAssistant {
		t.Fatalf("exchange roles wrong: %+v", sess.Messages)
	}
	if sess.Messages[1].Content != "the answer" {
		t.Fatalf("assistant content = %q", sess.Messages[1].Content)
	}
}

func TestFollowUpPromptCarriesAssistantContext(t *testing.T) {
	p := &fakeProvider{answer: "follow-up answer"}
	e := newTestEngine(t, p)
	ctx := context.Background()

	if err := session.AppendExchange("s1", "", "first question", "first answer"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := session.AppendExchange("s1", "", "second question", "second answer"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := e.Query(ctx, QueryRequest{Query: "and what about that", SessionID: "s1", FollowUp: true}); err != nil {
		t.Fatalf("query: %v", err)
	}

	if !strings.Contains(p.lastPrompt, "Context from previous answers:") {
		t.Fatalf("prompt missing context header: %q", p.lastPrompt)
	}
	if !strings.Contains(p.lastPrompt, "first answer") || !strings.Contains(p.lastPrompt, "second answer") {
		t.Fatalf("prompt missing assistant context: %q", p.lastPrompt)
	}
	if strings.Contains(p.lastPrompt, "first question") {
		t.Fatalf("user messages leaked into context: %q", p.lastPrompt)
	}
	if !strings.HasSuffix(p.lastPrompt, "and what about that") {
		t.Fatalf("raw query not at prompt tail: %q", p.lastPrompt)
	}
}

func TestFollowUpWithoutSessionIsRaw(t *testing.T) {
	p := &fakeProvider{answer: "a"}
	e := newTestEngine(t, p)

	if _, err := e.Query(context.Background(), QueryRequest{Query: "standalone", FollowUp: true}); err != nil {
		t.Fatalf("query: %v", err)
	}
	if p.lastPrompt != "standalone" {
		t.Fatalf("prompt = %q, want raw query", p.lastPrompt)
	}
}

func TestTopQueries(t *testing.T) {
	p := &fakeProvider{answer: "a"}
	e := newTestEngine(t, p)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := e.Query(ctx, QueryRequest{Query: "popular"}); err != nil {
			t.Fatalf("query: %v", err)
		}
	}
	if _, err := e.Query(ctx, QueryRequest{Query: "rare"}); err != nil {
		t.Fatalf("query: %v", err)
	}

	// a record last written yesterday must not rank today
	yesterday := time.Now().UTC().Add(-24 * time.Hour).UnixNano()
	if err := store.SaveAnswer("stale", models.AnswerRecord{Answer: "old", Created: yesterday, TS: yesterday}); err != nil {
		t.Fatalf("seed stale: %v", err)
	}
	if _, err := store.IncrCount("stale"); err != nil {
		t.Fatalf("seed stale count: %v", err)
	}

	top, err := e.TopQueries(0)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("want 2 entries, got %+v", top)
	}
	if top[0].Query != "popular" || top[0].Count != 3 {
		t.Fatalf("rank 0 = %+v", top[0])
	}
	if top[1].Query != "rare" || top[1].Count != 1 {
		t.Fatalf("rank 1 = %+v", top[1])
	}

	limited, err := e.TopQueries(1)
	if err != nil {
		t.Fatalf("top limited: %v", err)
	}
	if len(limited) != 1 || limited[0].Query != "popular" {
		t.Fatalf("limit not applied: %+v", limited)
	}
}

func TestSaveCountsTowardPromotion(t *testing.T) {
	e := newTestEngine(t, &fakeProvider{answer: "a"})
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		if _, err := e.Save(ctx, SaveRequest{Query: "edited often", Answer: "v"}); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}
	cached, err := store.GetCachedAnswer("edited-often")
	if err != nil || cached == nil {
		t.Fatalf("saves did not promote: %+v, %v", cached, err)
	}
}
