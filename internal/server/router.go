package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"

	"github.com/dmitrijs2005/microblog/internal/server/auth"
	"github.com/dmitrijs2005/microblog/internal/server/graph"
)

func (app *App) newRouter() http.Handler {

	schema := graphql.MustParseSchema(graph.Schema,
		graph.NewResolver(app.users, app.posts, app.logger))

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(corsMiddleware)
	r.Use(auth.Middleware([]byte(app.config.JWTSecret)))

	r.Handle("/graphql", &relay.Handler{Schema: schema})
	r.Put("/post-image", app.uploads.PostImage)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	if app.config.UploadBackend == "disk" {
		fs := http.StripPrefix("/images/", http.FileServer(http.Dir(app.config.ImageDir)))
		r.Get("/images/*", fs.ServeHTTP)
	}

	return r
}

// corsMiddleware mirrors the browser-facing header set the frontend
// expects; OPTIONS preflights are answered immediately.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "OPTIONS,GET,POST,PUT,PATCH,DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
