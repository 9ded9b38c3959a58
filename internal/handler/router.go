package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RouterDeps зависимости HTTP-слоя
type RouterDeps struct {
	Cats           *CatHandler
	Page           *PageHandler
	Storage        *StorageHandler
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

// NewRouter собирает chi-роутер со всеми маршрутами приложения
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(deps.Logger))
	r.Use(middleware.Recoverer)
	if deps.RequestTimeout > 0 {
		r.Use(middleware.Timeout(deps.RequestTimeout))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"}, deps.Logger)
	})

	r.Get("/", deps.Page.Index)
	r.Post("/cats", deps.Page.Upload)
	r.Post("/cats/{id}/like", deps.Page.Like)
	r.Post("/cats/{id}/delete", deps.Page.Delete)

	r.Route("/api/cats", func(r chi.Router) {
		r.Get("/", deps.Cats.ListCats)
		r.Post("/", deps.Cats.UploadCat)
		r.Post("/{id}/like", deps.Cats.LikeCat)
		r.Delete("/{id}", deps.Cats.DeleteCat)
	})

	r.Get("/storage/*", deps.Storage.ServePhoto)

	return r
}
