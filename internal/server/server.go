// Пакет server — HTTP-сервер Review Module с graceful shutdown.
// Без TLS — HTTP внутри кластера, TLS termination на API Gateway.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/bigkaa/mcpmarket/review-module/internal/api/handlers"
	"github.com/bigkaa/mcpmarket/review-module/internal/api/middleware"
	"github.com/bigkaa/mcpmarket/review-module/internal/config"
)

// Server — HTTP-сервер Review Module.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// New создаёт новый HTTP-сервер с настроенными routes и middleware.
func New(cfg *config.Config, logger *slog.Logger, api *handlers.APIHandler, health *handlers.HealthHandler) *Server {
	router := NewRouter(logger, api, health)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
		cfg:        cfg,
	}
}

// NewRouter собирает chi-маршрутизатор со всеми endpoints и middleware.
func NewRouter(logger *slog.Logger, api *handlers.APIHandler, health *handlers.HealthHandler) chi.Router {
	router := chi.NewRouter()

	// Глобальные middleware (применяются ко ВСЕМ маршрутам)
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.RequestLogger(logger))

	// Health и metrics — проверяются Kubernetes напрямую, без API Gateway
	router.Get("/health/live", health.HealthLive)
	router.Get("/health/ready", health.HealthReady)
	router.Get("/metrics", health.GetMetrics)

	router.Route("/api/v1", func(r chi.Router) {
		// Заявки
		r.Route("/submissions", func(r chi.Router) {
			r.Get("/", api.ListSubmissions)
			r.Post("/batch", api.BatchModerate)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", api.GetSubmission)
				r.Patch("/", api.PatchSubmission)
				r.Get("/history", api.GetHistory)

				// Решения модератора
				r.Post("/approve", api.ApproveSubmission)
				r.Post("/reject", api.RejectSubmission)
				r.Post("/delist", api.DelistSubmission)

				// Медиа-вложения
				r.Put("/document", api.AttachDocument)
				r.Delete("/document", api.RemoveDocument)
				r.Put("/video", api.AttachVideo)
				r.Delete("/video", api.RemoveVideo)
			})
		})

		// Сеансы дашборда
		r.Route("/dashboard", func(r chi.Router) {
			r.Post("/", api.CreateSession)

			r.Route("/{sid}", func(r chi.Router) {
				r.Get("/", api.GetSession)
				r.Delete("/", api.DeleteSession)

				r.Post("/tab", api.SwitchTab)
				r.Post("/criteria", api.SetCriteria)
				r.Post("/page", api.SetPage)
				r.Post("/page-size", api.SetPageSize)
				r.Post("/jump", api.JumpToPage)
				r.Post("/select", api.ToggleSelect)
				r.Post("/select-all", api.SelectAll)
				r.Post("/stage", api.StageAction)
				r.Post("/confirm", api.ConfirmAction)
				r.Post("/cancel", api.CancelAction)
			})
		})
	})

	return router
}

// Run запускает сервер и ожидает сигнала завершения (SIGINT, SIGTERM).
// При получении сигнала выполняется graceful shutdown.
func (s *Server) Run() error {
	// Канал для ошибок сервера
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP-сервер запущен",
			slog.String("addr", s.httpServer.Addr),
		)

		err := s.httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	// Ожидание сигнала завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		s.logger.Info("Получен сигнал завершения", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка HTTP-сервера: %w", err)
		}
	}

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Выполняется graceful shutdown...")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("ошибка при graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}
