package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/xavierca1/prodoc/internal/usecase"
)

type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[http] falha ao escrever resposta: %v", err)
	}
}

// writeError traduz os erros do usecase para status HTTP.
func writeError(w http.ResponseWriter, err error) {
	var verrs usecase.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		fields := make(map[string]string, len(verrs))
		for _, v := range verrs {
			if _, ok := fields[v.Field]; !ok {
				fields[v.Field] = v.Message
			}
		}
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: "dados inválidos", Fields: fields})
	case usecase.IsValidationError(err):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	case usecase.IsAuthError(err):
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
	case usecase.IsForbiddenError(err):
		writeJSON(w, http.StatusForbidden, ErrorResponse{Error: err.Error()})
	case usecase.IsNotFoundError(err):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case usecase.IsPersistenceError(err):
		log.Printf("❌ [http] falha no store remoto: %v", err)
		writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: "falha ao acessar o banco de dados, tente novamente"})
	default:
		log.Printf("❌ [http] erro inesperado: %v", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "erro interno"})
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "JSON inválido"})
		return false
	}
	return true
}
