package http

import (
	"encoding/json"
	"net/http"

	apperror "github.com/crewdesk/crewdesk/pkg/error"
)

func writeSuccessResponse(w http.ResponseWriter, statusCode int, message string, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := map[string]interface{}{
		"status":  true,
		"message": message,
		"data":    data,
	}

	json.NewEncoder(w).Encode(response)
}

func writeErrorResponse(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := map[string]interface{}{
		"status":  false,
		"message": message,
		"data":    nil,
		"code":    code,
	}

	json.NewEncoder(w).Encode(response)
}

// writeError maps err through apperror.MapError
func writeError(w http.ResponseWriter, err error) {
	appErr := apperror.MapError(err)
	writeErrorResponse(w, appErr.Status, appErr.Code, appErr.Message)
}
