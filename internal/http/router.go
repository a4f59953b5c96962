package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/kickoffzone-admin/internal/http/handlers"
	"github.com/pribylovaa/kickoffzone-admin/internal/http/middleware"
	"github.com/pribylovaa/kickoffzone-admin/internal/lifecycle"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger        *slog.Logger
	Timeout       time.Duration // дедлайн обычного запроса; 0 — без дедлайна
	UploadTimeout time.Duration // дедлайн multipart-загрузки; 0 — без дедлайна
	BasePath      string        // например, "/api"; если пустой — роуты регистрируются на корне.
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(ctrl *lifecycle.Controller, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(opts.Logger),                       // ловим паники
		middleware.RequestID(),                                // X-Request-Id до логирования, дальше он уходит на сервер контента
		middleware.Logging(opts.Logger),                       // request-scoped логгер в контексте + access-лог
		middleware.Timeout(opts.Timeout, opts.UploadTimeout), // дедлайн до сервера контента
	)

	h := handlers.New(ctrl)

	if opts.BasePath != "" {
		sub := chi.NewRouter()
		registerRoutes(sub, h)
		root.Mount(opts.BasePath, sub)
		return root
	}

	registerRoutes(root, h)
	return root
}

// registerRoutes — единая точка регистрации REST-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers) {
	// списки и действия
	r.Get("/items/{kind}", h.ListItems)
	r.Get("/items/{kind}/cached", h.CachedItems)
	r.Post("/items/{kind}/{id}/{action}", h.Act)
	r.Delete("/items/{kind}/{id}", h.Delete)

	// только новости
	r.Post("/items/news/{id}/cancel-schedule", h.CancelSchedule)
	r.Post("/items/news/{id}/image", h.UploadImage)
	r.Post("/items/news/{id}/image-url", h.SetImageURL)

	// выбор и массовые действия
	r.Get("/items/{kind}/selection", h.Selection)
	r.Delete("/items/{kind}/selection", h.ClearSelection)
	r.Post("/items/{kind}/selection/all", h.SelectAll)
	r.Post("/items/{kind}/selection/{id}", h.Toggle)
	r.Post("/items/{kind}/bulk/{action}", h.Bulk)

	// создание контента
	r.Post("/news/fetch", h.FetchNews)
	r.Post("/birthdays/generate", h.GenerateBirthdays)
	r.Post("/posts/manual", h.ManualPost)
	r.Post("/birthdays/direct", h.BirthdayDirect)
	r.Post("/videos", h.Video)

	r.Get("/schedule/countdown", h.Countdown)
}
