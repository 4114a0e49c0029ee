package tracker

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Router mounts the full HTTP surface: entity CRUD, status transitions, and
// the history ledger under /api/v1, plus /healthz.
func (a *API) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(RequestLogger(a.logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", a.healthz)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/boards", func(r chi.Router) {
			r.Post("/", a.createBoard)
			r.Get("/", a.listBoards)
			r.Get("/{boardID}", a.getBoard)
			r.Put("/{boardID}", a.updateBoard)
			r.Delete("/{boardID}", a.deleteBoard)
		})

		r.Route("/statuses", func(r chi.Router) {
			r.Post("/", a.createStatus)
			r.Get("/", a.listStatuses)
			r.Get("/{statusID}", a.getStatus)
			r.Put("/{statusID}", a.updateStatus)
			r.Delete("/{statusID}", a.deleteStatus)
		})

		r.Route("/projects", func(r chi.Router) {
			r.Post("/", a.createProject)
			r.Get("/", a.listProjects)
			r.Get("/{projectID}", a.getProject)
			r.Put("/{projectID}", a.updateProject)
			r.Delete("/{projectID}", a.deleteProject)
			r.Put("/{projectID}/status", a.transitionProject)
		})

		r.Route("/tickets", func(r chi.Router) {
			r.Post("/", a.createTicket)
			r.Get("/", a.listTickets)
			r.Get("/{ticketID}", a.getTicket)
			r.Put("/{ticketID}", a.updateTicket)
			r.Delete("/{ticketID}", a.deleteTicket)
			r.Put("/{ticketID}/status", a.transitionTicket)
		})

		r.Route("/history", func(r chi.Router) {
			r.Get("/", a.listHistory)
			r.Get("/{historyID}", a.getHistory)
		})
	})

	return r
}
