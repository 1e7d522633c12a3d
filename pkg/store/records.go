package store

import (
	"encoding/json"
	"strconv"
	"strings"

	"answerdb/pkg/errs"
	"answerdb/pkg/logger"
	"answerdb/pkg/models"
)

// Typed record access. All JSON encode/decode for stored records happens
// here so the engine and session layers only ever see typed values.

// SaveAnswer writes the canonical answer record for a normalized query.
func SaveAnswer(query string, rec models.AnswerRecord) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return errs.Store(err, "marshal answer record")
	}
	if err := set(truthPrefix+query, b); err != nil {
		return err
	}
	logger.Info("answer_saved", "query", query, "edited", rec.Edited, "by", rec.LastEditedBy)
	return nil
}

// GetAnswer returns the canonical record, or nil when absent. Absence is a
// legitimate null answer, not an error.
func GetAnswer(query string) (*models.AnswerRecord, error) {
	v, ok, err := get(truthPrefix + query)
	if err != nil || !ok {
		return nil, err
	}
	var rec models.AnswerRecord
	if err := json.Unmarshal(v, &rec); err != nil {
		return nil, errs.Store(err, "decode answer record "+query)
	}
	return &rec, nil
}

// SaveCachedAnswer writes (or overwrites) the fast-path record.
func SaveCachedAnswer(query string, rec models.CachedAnswer) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return errs.Store(err, "marshal cached answer")
	}
	if err := set(cachePrefix+query, b); err != nil {
		return err
	}
	logger.Info("answer_promoted", "query", query)
	return nil
}

// GetCachedAnswer returns the fast-path record, or nil when absent.
func GetCachedAnswer(query string) (*models.CachedAnswer, error) {
	v, ok, err := get(cachePrefix + query)
	if err != nil || !ok {
		return nil, err
	}
	var rec models.CachedAnswer
	if err := json.Unmarshal(v, &rec); err != nil {
		return nil, errs.Store(err, "decode cached answer "+query)
	}
	return &rec, nil
}

// ListCachedAnswers returns every promoted query with its record timestamp.
// Used by the retention purger.
func ListCachedAnswers() (map[string]models.CachedAnswer, error) {
	keys, err := ListKeys(cachePrefix)
	if err != nil {
		return nil, err
	}
	out := make(map[string]models.CachedAnswer, len(keys))
	for _, k := range keys {
		q := strings.TrimPrefix(k, cachePrefix)
		rec, err := GetCachedAnswer(q)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			out[q] = *rec
		}
	}
	return out, nil
}

// DeleteCachedAnswer removes a promoted record. The truth record and the
// counter are never touched here.
func DeleteCachedAnswer(query string) error {
	return Delete(cachePrefix + query)
}

// GetCount returns the usage count for a query (0 when never counted).
func GetCount(query string) (int64, error) {
	v, ok, err := get(countPrefix + query)
	if err != nil || !ok {
		return 0, err
	}
	n, perr := strconv.ParseInt(strings.TrimSpace(string(v)), 10, 64)
	if perr != nil {
		return 0, errs.Store(perr, "decode usage count "+query)
	}
	return n, nil
}

// IncrCount bumps the usage counter and returns the new value. The counter
// is a read-modify-write; callers serialize per query (see engine locks).
func IncrCount(query string) (int64, error) {
	n, err := GetCount(query)
	if err != nil {
		return 0, err
	}
	n++
	if err := set(countPrefix+query, []byte(strconv.FormatInt(n, 10))); err != nil {
		return 0, err
	}
	return n, nil
}

// ListCounts returns every counted query with its usage count.
func ListCounts() (map[string]int64, error) {
	keys, err := ListKeys(countPrefix)
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(keys))
	for _, k := range keys {
		q := strings.TrimPrefix(k, countPrefix)
		n, err := GetCount(q)
		if err != nil {
			return nil, err
		}
		out[q] = n
	}
	return out, nil
}
