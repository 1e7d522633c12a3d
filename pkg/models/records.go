package models

// AnswerRecord is the canonical ("truth") answer stored for a normalized
// query. It carries edit provenance so human corrections survive audit and
// export. Created is set once and preserved across edits.
type AnswerRecord struct {
	Answer string `json:"answer"`
	// LastEditedBy is an opaque editor id, or "ai" for model-written answers
	LastEditedBy string `json:"last_edited_by"`
	Edited       bool   `json:"edited"`
	// Created timestamp (ns), set on first write and never changed
	Created int64 `json:"created"`
	// TS is the last write timestamp (ns)
	TS int64 `json:"ts"`
}

// CachedAnswer is the denormalized fast-path record written once a query's
// usage count crosses the promotion threshold. It holds the answer only;
// provenance stays on the AnswerRecord.
type CachedAnswer struct {
	Answer string `json:"answer"`
	TS     int64  `json:"ts"`
}

// TopQuery is one entry of the daily popularity ranking.
type TopQuery struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}
