package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"answerdb/pkg/engine"
	"answerdb/pkg/logger"
	"answerdb/pkg/models"
	"answerdb/pkg/utils"
	"answerdb/pkg/validation"
)

var eng *engine.Engine

// RegisterAnswers registers the query, answer and ranking endpoints.
func RegisterAnswers(r *mux.Router, e *engine.Engine) {
	eng = e
	r.HandleFunc("/query", runQuery).Methods(http.MethodPost)
	r.HandleFunc("/answers", loadAnswer).Methods(http.MethodGet)
	r.HandleFunc("/answers", saveAnswer).Methods(http.MethodPost)
	r.HandleFunc("/top", topQueries).Methods(http.MethodGet)
}

type queryRequest struct {
	Query      string `json:"query"`
	SessionID  string `json:"sessionId"`
	User       string `json:"user,omitempty"`
	IsFollowUp bool   `json:"isFollowUp,omitempty"`
}

func runQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := validation.ValidateQuery(req.Query, req.SessionID); err != nil {
		writeErr(w, err)
		return
	}
	res, err := eng.Query(r.Context(), engine.QueryRequest{
		Query:     req.Query,
		SessionID: req.SessionID,
		User:      req.User,
		FollowUp:  req.IsFollowUp,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, res)
}

type loadResponse struct {
	Query  string               `json:"query"`
	Answer *string              `json:"answer"`
	Record *models.AnswerRecord `json:"record,omitempty"`
}

func loadAnswer(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("query")
	if err := validation.ValidateQuery(q, ""); err != nil {
		writeErr(w, err)
		return
	}
	rec, err := eng.Load(q)
	if err != nil {
		writeErr(w, err)
		return
	}
	// an absent record is a legitimate null answer, not an error
	out := loadResponse{Query: q}
	if rec != nil {
		out.Answer = &rec.Answer
		out.Record = rec
	}
	_ = utils.JSONWrite(w, http.StatusOK, out)
}

type saveRequest struct {
	Query     string `json:"query"`
	Answer    string `json:"answer"`
	EditedBy  string `json:"editedBy,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
}

func saveAnswer(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := validation.ValidateSave(req.Query, req.Answer, req.SessionID); err != nil {
		writeErr(w, err)
		return
	}
	rec, err := eng.Save(r.Context(), engine.SaveRequest{
		Query:     req.Query,
		Answer:    req.Answer,
		EditedBy:  req.EditedBy,
		SessionID: req.SessionID,
	})
	if err != nil {
		writeErr(w, err)
		return
	}
	logger.Info("answer_edited", "by", rec.LastEditedBy)
	_ = utils.JSONWrite(w, http.StatusOK, rec)
}

func topQueries(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if limStr := r.URL.Query().Get("limit"); limStr != "" {
		if lim, err := strconv.Atoi(limStr); err == nil && lim > 0 {
			limit = lim
		}
	}
	top, err := eng.TopQueries(limit)
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, struct {
		Queries []models.TopQuery `json:"queries"`
	}{Queries: top})
}
