package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"answerdb/pkg/api/handlers"
	"answerdb/pkg/engine"
)

// Handler returns the /v1 API router.
func Handler(e *engine.Engine) http.Handler {
	r := mux.NewRouter()
	v1 := r.PathPrefix("/v1").Subrouter()
	handlers.RegisterAnswers(v1, e)
	handlers.RegisterSessions(v1)
	return r
}
