package handlers

import "net/http"

type DashboardHandler struct {
	console Console
}

func NewDashboardHandler(console Console) *DashboardHandler {
	return &DashboardHandler{console: console}
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if h.console.Actor() == nil {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "faça login para ver o painel"})
		return
	}
	writeJSON(w, http.StatusOK, h.console.Dashboard())
}

// Refresh recarrega as projeções a partir do banco.
func (h *DashboardHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.console.Refresh(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
