package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"iptv-desk/internal/app"
)

// Handler holds the ApplicationService and the chi router.
type Handler struct {
	svc       app.ApplicationService
	jwtSecret string
	log       zerolog.Logger
}

// NewHandler creates and wires the chi router with all routes.
func NewHandler(svc app.ApplicationService, allowedOrigins, jwtSecret string, logger zerolog.Logger) http.Handler {
	h := &Handler{
		svc:       svc,
		jwtSecret: jwtSecret,
		log:       logger,
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(logger))
	r.Use(Recoverer(logger))
	r.Use(CORS(allowedOrigins))

	// ── Public ────────────────────────────────────────────────────────────────
	r.Get("/api/health", h.health)
	r.Post("/api/auth/login", h.login)
	r.Post("/api/auth/logout", h.logout)

	// ── Protected API (401 JSON when unauthenticated) ────────────────────────
	r.Group(func(r chi.Router) {
		r.Use(h.RequireAuth)
		r.Use(RequestBodyLimit(1 << 20)) // 1 MB

		r.Get("/api/auth/me", h.me)

		r.Get("/api/dashboard", h.dashboard)

		r.Get("/api/clients", h.listClients)
		r.Post("/api/clients", h.createClient)
		r.Get("/api/clients/{id}", h.getClient)
		r.Put("/api/clients/{id}", h.updateClient)
		r.Delete("/api/clients/{id}", h.deleteClient)
		r.Post("/api/clients/{id}/tests", h.addTrial)
		r.Patch("/api/clients/{id}/tests/{createdAt}", h.updateTrial)
		r.Post("/api/clients/{id}/tests/{createdAt}/interrupt", h.interruptTrial)
		r.Get("/api/trials", h.listTrials)

		r.Get("/api/servers", h.listServers)
		r.Post("/api/servers", h.createServer)
		r.Get("/api/servers/{id}", h.getServer)
		r.Put("/api/servers/{id}", h.updateServer)
		r.Delete("/api/servers/{id}", h.deleteServer)
		r.Post("/api/servers/{id}/transactions", h.addTransaction)
		r.Post("/api/servers/{id}/recompute-stock", h.recomputeStock)

		r.Get("/api/cashflow", h.listCashFlow)
		r.Post("/api/cashflow", h.addEntry)
		r.Put("/api/cashflow/{id}", h.updateEntry)
		r.Delete("/api/cashflow/{id}", h.deleteEntry)
		r.Get("/api/cashflow/summary", h.cashFlowSummary)

		r.Get("/api/notes", h.listNotes)
		r.Post("/api/notes", h.addNote)
		r.Put("/api/notes/{id}", h.updateNote)
		r.Delete("/api/notes/{id}", h.deleteNote)

		r.Get("/api/export", h.export)
		r.Get("/api/export/schema", h.exportSchema)
		r.Post("/api/import", h.importSnapshot)
		r.Post("/api/reconcile", h.reconcile)
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// decodeJSON decodes the request body into v, writing the error response
// itself on failure. Returns false when the caller should bail out.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, r, "request body too large", "REQUEST_TOO_LARGE", http.StatusRequestEntityTooLarge)
			return false
		}
		writeError(w, r, "invalid JSON body: "+err.Error(), "BAD_REQUEST", http.StatusBadRequest)
		return false
	}
	return true
}
