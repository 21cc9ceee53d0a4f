package handlers

import (
	"net/http"

	"github.com/xavierca1/prodoc/internal/infra/http/middleware"
	"github.com/xavierca1/prodoc/internal/usecase"
)

type AuthHandler struct {
	console Console
}

func NewAuthHandler(console Console) *AuthHandler {
	return &AuthHandler{console: console}
}

type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type SessionResponse struct {
	Authenticated bool           `json:"authenticated"`
	Actor         *ActorResponse `json:"actor,omitempty"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	actor, err := h.console.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		if usecase.IsAuthError(err) {
			middleware.RecordLogin("rejected")
		} else {
			middleware.RecordLogin("error")
		}
		writeError(w, err)
		return
	}
	middleware.RecordLogin("ok")
	writeJSON(w, http.StatusOK, SessionResponse{Authenticated: true, Actor: newActorResponse(actor)})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.console.Logout(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	actor := h.console.Actor()
	writeJSON(w, http.StatusOK, SessionResponse{Authenticated: actor != nil, Actor: newActorResponse(actor)})
}
