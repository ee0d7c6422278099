package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"iptv-desk/internal/core"
)

func (h *Handler) listCashFlow(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListCashFlow(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) addEntry(w http.ResponseWriter, r *http.Request) {
	var entry core.CashFlowEntry
	if !decodeJSON(w, r, &entry) {
		return
	}
	added, err := h.svc.AddEntry(r.Context(), entry)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, added)
}

func (h *Handler) updateEntry(w http.ResponseWriter, r *http.Request) {
	var entry core.CashFlowEntry
	if !decodeJSON(w, r, &entry) {
		return
	}
	entry.ID = chi.URLParam(r, "id")
	updated, err := h.svc.UpdateEntry(r.Context(), entry)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, updated)
}

func (h *Handler) deleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteEntry(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// cashFlowSummary handles GET /api/cashflow/summary?from=...&to=... where
// both bounds are optional RFC 3339 timestamps.
func (h *Handler) cashFlowSummary(w http.ResponseWriter, r *http.Request) {
	from, ok := parseTimeParam(w, r, "from")
	if !ok {
		return
	}
	to, ok := parseTimeParam(w, r, "to")
	if !ok {
		return
	}
	totals, err := h.svc.CashFlowSummary(r.Context(), from, to)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, totals)
}

func parseTimeParam(w http.ResponseWriter, r *http.Request, name string) (*time.Time, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		writeError(w, r, "invalid "+name+" timestamp: "+raw, "BAD_REQUEST", http.StatusBadRequest)
		return nil, false
	}
	return &t, true
}
