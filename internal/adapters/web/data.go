package web

import (
	"io"
	"net/http"
)

func (h *Handler) export(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.svc.Export(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, snapshot)
}

func (h *Handler) exportSchema(w http.ResponseWriter, r *http.Request) {
	schema, err := h.svc.SnapshotSchema(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(schema)
}

// importSnapshot reads the raw body so the snapshot validator sees exactly
// what the caller sent. Nothing is replaced unless validation passes.
func (h *Handler) importSnapshot(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, r, "failed to read request body", "BAD_REQUEST", http.StatusBadRequest)
		return
	}
	if err := h.svc.Import(r.Context(), raw); err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, map[string]string{"status": "imported"})
}

func (h *Handler) reconcile(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.Reconcile(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, map[string]int{"synthesized": n})
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.Dashboard(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}
