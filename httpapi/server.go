// Package httpapi exposes the engine as a REST API.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	goOrg "github.com/MrEthical07/goOrg"
	"github.com/MrEthical07/goOrg/middleware"
	"github.com/MrEthical07/goOrg/store"
)

// Options tunes the HTTP surface. The zero value allows no cross-origin
// callers.
type Options struct {
	AllowedOrigins []string
}

// Server routes HTTP requests to the engine.
type Server struct {
	engine *goOrg.Engine
	router chi.Router
}

// NewServer wires the full route table. Login is the only public route;
// everything else sits behind the token guard, and account creation
// additionally behind the elevated-role gate.
func NewServer(engine *goOrg.Engine, opts Options) *Server {
	s := &Server{engine: engine}

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Post("/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Guard(engine))

		r.With(middleware.RequireRole(engine, store.RoleElevated)).
			Post("/users", s.handleCreateAccount)
		r.Get("/users", s.handleListAccounts)
		r.Get("/users/groups/{groupName}", s.handleAccountsByGroup)
		r.Post("/users/{id}/groups", s.handleAddGroupsToAccount)
		r.Get("/users/{id}", s.handleGetAccount)
		r.Put("/users/{id}", s.handleUpdateAccount)
		r.Delete("/users/{id}", s.handleDeleteAccount)

		r.Post("/groups", s.handleCreateGroup)
		r.Get("/groups", s.handleListGroups)
		r.Get("/groups/users/{userName}", s.handleGroupsByAccount)
		r.Patch("/groups/add/{id}", s.handleAddMember)
		r.Put("/groups/remove/{id}/user/{userId}", s.handleRemoveMember)
		r.Get("/groups/{id}", s.handleGetGroup)
		r.Put("/groups/{id}", s.handleRenameGroup)
		r.Delete("/groups/{id}", s.handleDeleteGroup)
	})

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
