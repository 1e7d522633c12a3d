package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"answerdb/pkg/logger"
	"answerdb/pkg/models"
	"answerdb/pkg/session"
	"answerdb/pkg/utils"
	"answerdb/pkg/validation"
)

// maxImportBytes caps import payloads; a session document larger than
// this is rejected before parsing.
const maxImportBytes = 4 << 20

// RegisterSessions registers the session transcript endpoints.
func RegisterSessions(r *mux.Router) {
	r.HandleFunc("/sessions/{id}", getSession).Methods(http.MethodGet)
	r.HandleFunc("/sessions/{id}/messages", appendMessage).Methods(http.MethodPost)
	r.HandleFunc("/sessions/{id}/export", exportSession).Methods(http.MethodGet)
	r.HandleFunc("/sessions/{id}/import", importSession).Methods(http.MethodPost)
}

func getSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	sess, err := session.Read(id)
	if err != nil {
		writeErr(w, err)
		return
	}
	_ = utils.JSONWrite(w, http.StatusOK, sess)
}

func appendMessage(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var m models.ChatMessage
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		utils.JSONError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if err := validation.ValidateMessage(m); err != nil {
		writeErr(w, err)
		return
	}
	if err := session.Append(id, m); err != nil {
		writeErr(w, err)
		return
	}
	logger.Info("message_appended", "session", id, "role", m.Role)
	_ = utils.JSONWrite(w, http.StatusOK, m)
}

func exportSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	doc, err := session.Export(id)
	if err != nil {
		writeErr(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc)
}

func importSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	body, err := io.ReadAll(io.LimitReader(r.Body, maxImportBytes))
	if err != nil {
		utils.JSONError(w, http.StatusBadRequest, "failed to read body")
		return
	}
	if err := session.Import(id, body); err != nil {
		writeErr(w, err)
		return
	}
	sess, err := session.Read(id)
	if err != nil {
		writeErr(w, err)
		return
	}
	logger.Info("session_imported", "session", id, "messages", len(sess.Messages))
	_ = utils.JSONWrite(w, http.StatusOK, sess)
}
