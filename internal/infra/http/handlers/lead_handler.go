package handlers

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/xavierca1/prodoc/internal/infra/http/middleware"
	"github.com/xavierca1/prodoc/internal/usecase"
)

type LeadHandler struct {
	console     Console
	rateLimiter *RateLimiter
}

func NewLeadHandler(console Console, limiter *RateLimiter) *LeadHandler {
	return &LeadHandler{console: console, rateLimiter: limiter}
}

type SubmitLeadResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
}

// Submit é o formulário público: não exige login.
func (h *LeadHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if !h.rateLimiter.Allow(getClientIP(r)) {
		writeJSON(w, http.StatusTooManyRequests, SubmitLeadResponse{
			Success: false,
			Message: "Muitas solicitações. Tente novamente em instantes.",
		})
		return
	}

	var draft usecase.LeadDraft
	if !decodeJSON(w, r, &draft) {
		return
	}

	lead, err := h.console.SubmitLead(r.Context(), draft)
	if err != nil {
		writeError(w, err)
		return
	}
	middleware.RecordLeadSubmitted()

	writeJSON(w, http.StatusCreated, SubmitLeadResponse{Success: true, ID: lead.ID})
}

// List devolve os leads visíveis para o ator (vazio para parceiro).
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	leads := h.console.View().Leads
	if status := strings.ToUpper(r.URL.Query().Get("status")); status != "" {
		filtered := leads[:0:0]
		for _, l := range leads {
			if string(l.Status) == status {
				filtered = append(filtered, l)
			}
		}
		leads = filtered
	}
	writeJSON(w, http.StatusOK, newLeadResponses(leads))
}

// Convert responde 200 com o processo, ou 204 quando não havia o que converter.
func (h *LeadHandler) Convert(w http.ResponseWriter, r *http.Request) {
	process, err := h.console.ConvertLead(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if process == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	middleware.RecordLeadConverted()
	writeJSON(w, http.StatusOK, newProcessResponse(process))
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// primeiro da lista é o cliente original
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
	now      func() time.Time
}

type visitor struct {
	count     int
	lastReset time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
}

func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v, exists := rl.visitors[ip]
	now := rl.now()

	if !exists {
		rl.visitors[ip] = &visitor{count: 1, lastReset: now}
		return true
	}

	if now.Sub(v.lastReset) > rl.window {
		v.count = 1
		v.lastReset = now
		return true
	}

	v.count++
	return v.count <= rl.limit
}

// Cleanup remove visitantes inativos; roda até o stop fechar.
func (rl *RateLimiter) Cleanup(stop <-chan struct{}) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			rl.mu.Lock()
			now := rl.now()
			for ip, v := range rl.visitors {
				if now.Sub(v.lastReset) > rl.window*2 {
					delete(rl.visitors, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

