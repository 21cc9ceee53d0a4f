package handlers

import (
	"net/http"

	"github.com/xavierca1/prodoc/internal/usecase"
)

type PartnerHandler struct {
	console Console
}

func NewPartnerHandler(console Console) *PartnerHandler {
	return &PartnerHandler{console: console}
}

func (h *PartnerHandler) List(w http.ResponseWriter, r *http.Request) {
	partners, err := h.console.ListPartners()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, partners)
}

func (h *PartnerHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in usecase.RegisterPartnerInput
	if !decodeJSON(w, r, &in) {
		return
	}
	partner, err := h.console.RegisterPartner(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, partner)
}
