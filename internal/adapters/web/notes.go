package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"iptv-desk/internal/core"
)

func (h *Handler) listNotes(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ListNotes(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, result)
}

func (h *Handler) addNote(w http.ResponseWriter, r *http.Request) {
	var note core.Note
	if !decodeJSON(w, r, &note) {
		return
	}
	added, err := h.svc.AddNote(r.Context(), note)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, added)
}

func (h *Handler) updateNote(w http.ResponseWriter, r *http.Request) {
	var note core.Note
	if !decodeJSON(w, r, &note) {
		return
	}
	note.ID = chi.URLParam(r, "id")
	updated, err := h.svc.UpdateNote(r.Context(), note)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, updated)
}

func (h *Handler) deleteNote(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteNote(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
