package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"iptv-desk/internal/core"
)

func (h *Handler) listClients(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListClients(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) getClient(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.GetClient(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) createClient(w http.ResponseWriter, r *http.Request) {
	var client core.Client
	if !decodeJSON(w, r, &client) {
		return
	}
	result, err := h.svc.CreateClient(r.Context(), client)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// updateClient replaces the whole client record. ?skip_cash_flow=true
// suppresses the activation fanout.
func (h *Handler) updateClient(w http.ResponseWriter, r *http.Request) {
	var client core.Client
	if !decodeJSON(w, r, &client) {
		return
	}
	client.TempID = chi.URLParam(r, "id")
	skip := r.URL.Query().Get("skip_cash_flow") == "true"

	result, err := h.svc.UpdateClient(r.Context(), client, skip)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) deleteClient(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteClient(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) addTrial(w http.ResponseWriter, r *http.Request) {
	var t core.Test
	if !decodeJSON(w, r, &t) {
		return
	}
	added, err := h.svc.AddTrial(r.Context(), chi.URLParam(r, "id"), t)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, added)
}

func (h *Handler) updateTrial(w http.ResponseWriter, r *http.Request) {
	createdAt, ok := parseTrialKey(w, r)
	if !ok {
		return
	}
	var patch core.Test
	if !decodeJSON(w, r, &patch) {
		return
	}
	updated, err := h.svc.UpdateTrial(r.Context(), chi.URLParam(r, "id"), createdAt, patch)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, updated)
}

func (h *Handler) interruptTrial(w http.ResponseWriter, r *http.Request) {
	createdAt, ok := parseTrialKey(w, r)
	if !ok {
		return
	}
	if err := h.svc.InterruptTrial(r.Context(), chi.URLParam(r, "id"), createdAt); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listTrials(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListTrials(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}

// parseTrialKey parses the {createdAt} path segment — the trial's RFC 3339
// creation timestamp, which is its lookup key within the client.
func parseTrialKey(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	raw := chi.URLParam(r, "createdAt")
	createdAt, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		writeError(w, r, "invalid trial timestamp: "+raw, "BAD_REQUEST", http.StatusBadRequest)
		return time.Time{}, false
	}
	return createdAt, true
}
