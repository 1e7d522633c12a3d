package handlers

import (
	"net/http"

	"answerdb/pkg/errs"
	"answerdb/pkg/utils"
)

// writeErr maps error kinds to status codes. Handlers never match on
// message text.
func writeErr(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errs.IsValidation(err), errs.IsParse(err):
		status = http.StatusBadRequest
	case errs.IsNotFound(err):
		status = http.StatusNotFound
	case errs.IsProvider(err):
		status = http.StatusBadGateway
	}
	utils.JSONError(w, status, err.Error())
}
