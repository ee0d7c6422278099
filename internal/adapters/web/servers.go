package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"iptv-desk/internal/core"
)

func (h *Handler) listServers(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListServers(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) getServer(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetServer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) createServer(w http.ResponseWriter, r *http.Request) {
	var srv core.Server
	if !decodeJSON(w, r, &srv) {
		return
	}
	result, err := h.svc.CreateServer(r.Context(), srv)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) updateServer(w http.ResponseWriter, r *http.Request) {
	var srv core.Server
	if !decodeJSON(w, r, &srv) {
		return
	}
	srv.ID = chi.URLParam(r, "id")
	result, err := h.svc.UpdateServer(r.Context(), srv)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// deleteServer proceeds even when clients still reference the panel; the
// warning rides along in the response.
func (h *Handler) deleteServer(w http.ResponseWriter, r *http.Request) {
	warning, err := h.svc.DeleteServer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, map[string]string{"warning": warning})
}

func (h *Handler) addTransaction(w http.ResponseWriter, r *http.Request) {
	var tx core.Transaction
	if !decodeJSON(w, r, &tx) {
		return
	}
	added, err := h.svc.AddTransaction(r.Context(), chi.URLParam(r, "id"), tx)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, added)
}

func (h *Handler) recomputeStock(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.RecomputeStock(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}
