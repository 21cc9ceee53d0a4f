package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/prodoc/internal/entity"
	"github.com/xavierca1/prodoc/internal/infra/http/middleware"
	"github.com/xavierca1/prodoc/internal/usecase"
)

type ProcessHandler struct {
	console Console
}

func NewProcessHandler(console Console) *ProcessHandler {
	return &ProcessHandler{console: console}
}

// List aceita ?q= (placa ou nome) e ?status=ALL|ACTIVE|FINISHED|PROBLEM.
func (h *ProcessHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	processes := usecase.FilterProcesses(h.console.View().Processes, q.Get("q"), usecase.ParseStatusFilter(q.Get("status")))
	writeJSON(w, http.StatusOK, newProcessResponses(processes))
}

func (h *ProcessHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	for _, p := range h.console.View().Processes {
		if p.ID == id {
			writeJSON(w, http.StatusOK, newProcessResponse(p))
			return
		}
	}
	writeError(w, &usecase.NotFoundError{Kind: "process", ID: id})
}

func (h *ProcessHandler) Create(w http.ResponseWriter, r *http.Request) {
	var draft usecase.ProcessDraft
	if !decodeJSON(w, r, &draft) {
		return
	}
	process, err := h.console.CreateProcess(r.Context(), draft)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newProcessResponse(process))
}

type SetStatusRequest struct {
	// Status aceita o código (FILED) ou o rótulo (Protocolado no DETRAN).
	Status string `json:"status"`
}

func (h *ProcessHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req SetStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	status, err := entity.ParseProcessStatus(req.Status)
	if err != nil {
		writeError(w, usecase.ValidationErrors{{Field: "status", Message: "is not a known process status"}})
		return
	}

	process, err := h.console.SetProcessStatus(r.Context(), chi.URLParam(r, "id"), status)
	if err != nil {
		writeError(w, err)
		return
	}
	middleware.RecordStatusChange(string(status))
	writeJSON(w, http.StatusOK, newProcessResponse(process))
}

func (h *ProcessHandler) Statuses(w http.ResponseWriter, r *http.Request) {
	statuses := entity.ProcessStatuses()
	out := make([]StatusOption, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, StatusOption{Code: s, Label: s.Label(), Progress: s.Progress()})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *ProcessHandler) Services(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, entity.ServiceCatalog)
}
