// Package adapthttp implements the HTTP adapter for the application.
package adapthttp

import (
	"embed"
	"html/template"
	"net/http"

	"bookshelf/internal/app"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

//go:embed templates/*.html
var templatesFS embed.FS

// OIDC carries the optional SSO configuration. Enabled is false when the
// deployment has no identity provider configured.
type OIDC struct {
	Enabled  bool
	Provider *oidc.Provider
	OAuth2   *oauth2.Config
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	auth    *app.AuthService
	catalog *app.CatalogService
	reviews *app.ReviewService
	enrich  *app.EnrichService
	sso     OIDC
	tpl     *template.Template
	log     zerolog.Logger
}

// New creates a Server wired to the given application services.
func New(auth *app.AuthService, catalog *app.CatalogService, reviews *app.ReviewService, enrich *app.EnrichService, sso OIDC, log zerolog.Logger) *Server {
	return &Server{
		auth:    auth,
		catalog: catalog,
		reviews: reviews,
		enrich:  enrich,
		sso:     sso,
		tpl:     template.Must(template.ParseFS(templatesFS, "templates/*.html")),
		log:     log,
	}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	// Machine-readable book info is intentionally unguarded.
	r.Get("/api/{isbn}", s.handleAPIBook)

	r.Get("/register", s.handleRegisterForm)
	r.Post("/register", s.handleRegister)
	r.Get("/login", s.handleLoginForm)
	r.Post("/login", s.handleLogin)
	r.Get("/logout", s.handleLogout)
	r.Get("/sso/login", s.handleSSOLogin)
	r.Get("/sso/callback", s.handleSSOCallback)

	r.Group(func(gr chi.Router) {
		gr.Use(s.requireUser)
		gr.Get("/", s.handleSearchForm)
		gr.Post("/", s.handleSearch)
		gr.Get("/book/{isbn}", s.handleBookGet)
		gr.Post("/book/{isbn}", s.handleBookPost)
	})

	return r
}
