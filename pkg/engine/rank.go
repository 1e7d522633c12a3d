package engine

import (
	"sort"
	"time"

	"answerdb/pkg/models"
	"answerdb/pkg/store"
)

const dateLayout = "2006-01-02"

// TopQueries ranks today's queries by usage count. Counters whose
// canonical record is missing, or whose record was last written on a
// different UTC calendar day, are skipped silently. Cost scales with the
// number of distinct queries ever counted, not just today's.
func (e *Engine) TopQueries(limit int) ([]models.TopQuery, error) {
	if limit <= 0 {
		limit = e.cfg.TopLimit
	}
	counts, err := store.ListCounts()
	if err != nil {
		return nil, err
	}

	today := time.Now().UTC().Format(dateLayout)
	out := make([]models.TopQuery, 0, len(counts))
	for q, n := range counts {
		rec, err := store.GetAnswer(q)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			continue
		}
		if time.Unix(0, rec.TS).UTC().Format(dateLayout) != today {
			continue
		}
		out = append(out, models.TopQuery{Query: q, Count: n})
	}

	// ties keep enumeration order; stable within this call, which is all
	// callers may rely on
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
