package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/notegraph/internal/noteservice"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced. A non-nil
// events handler is served at /events.
func NewRouter(svc *noteservice.Service, authEnabled bool, token string, events http.Handler) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	r.Route("/notes", func(r chi.Router) {
		r.Get("/", h.ListNotes)
		r.Post("/", h.CreateNote)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.GetNote)
			r.Put("/", h.UpdateNote)
			r.Delete("/", h.DeleteNote)
			r.Put("/type", h.UpdateNoteType)
			r.Post("/rename", h.RenameNote)
			r.Post("/links/sync", h.SyncLinks)
			r.Get("/links", h.OutgoingLinks)
			r.Get("/backlinks", h.Backlinks)
			r.Get("/tasks", h.NoteTasks)
		})
	})

	r.Get("/tags", h.ListTags)
	r.Get("/tags/tree", h.TagTree)
	r.Get("/tags/{tag}/notes", h.NotesByTag)

	r.Get("/tasks", h.ListTasks)
	r.Get("/captures", h.ListCaptures)

	r.Get("/search", h.Search)
	r.Get("/graph", h.Graph)

	if events != nil {
		r.Method(http.MethodGet, "/events", events)
	}

	return r
}
