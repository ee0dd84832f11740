package handlers

import (
	"encoding/json"
	"net/http"

	"taskmaster-server/models"
	"taskmaster-server/utilities"
)

const (
	msgInternalError = "Internal Server Error"
	msgBadRequest    = "Bad Request"
	msgTaskNotFound  = "Task not found"
	msgTaskDeleted   = "Task deleted successfully"
	msgTaskUpdated   = "Task updated successfully"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		utilities.LogError(err, "Erro ao serializar resposta JSON")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, models.ErrorResponse{Error: msg})
}

// internalError registra o erro no servidor e devolve a mensagem genérica ao cliente.
func internalError(w http.ResponseWriter, err error, context string) {
	utilities.LogError(err, context)
	writeError(w, http.StatusInternalServerError, msgInternalError)
}
