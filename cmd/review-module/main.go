// Точка входа Review Module — модуль модерации заявок MCP-маркетплейса.
// Загружает конфигурацию, засеивает in-memory хранилище мок-данными,
// создаёт сервисный слой, менеджер сеансов дашборда и API handlers,
// запускает HTTP-сервер с graceful shutdown.
package main

import (
	"log/slog"
	"os"

	"github.com/bigkaa/mcpmarket/review-module/internal/api/handlers"
	"github.com/bigkaa/mcpmarket/review-module/internal/config"
	"github.com/bigkaa/mcpmarket/review-module/internal/dashboard"
	"github.com/bigkaa/mcpmarket/review-module/internal/domain/model"
	"github.com/bigkaa/mcpmarket/review-module/internal/repository"
	"github.com/bigkaa/mcpmarket/review-module/internal/server"
	"github.com/bigkaa/mcpmarket/review-module/internal/service"
)

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("Review Module запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
	)

	// 3. In-memory хранилище с мок-данными.
	// Подменяет удалённый источник заявок до подключения реального API.
	store := repository.NewSubmissionStore()
	if err := store.Seed(repository.SeedData()); err != nil {
		logger.Error("Ошибка засеивания хранилища", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Хранилище заявок засеяно")

	// 4. Сервисный слой
	submissionsSvc := service.NewSubmissionService(store, logger)
	moderationSvc := service.NewModerationService(store, cfg.OperatorName, logger)
	editorSvc := service.NewEditorService(store, logger)
	// Освобождение клиентского ресурса видео — сейчас только лог,
	// реальное blob-хранилище появится вместе с удалённым источником.
	releaseVideo := func(asset model.VideoAsset) {
		logger.Info("Ресурс видео освобождён",
			slog.String("video_id", asset.ID),
			slog.String("filename", asset.Filename),
		)
	}
	mediaSvc := service.NewMediaService(store, releaseVideo, logger)

	// 5. Менеджер сеансов дашборда
	sessions, err := dashboard.NewSessionManager(store, moderationSvc, cfg.PageSize)
	if err != nil {
		logger.Error("Ошибка создания менеджера сеансов", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 6. API handlers
	healthHandler := handlers.NewHealthHandler(store)
	apiHandler := handlers.NewAPIHandler(
		submissionsSvc,
		moderationSvc,
		editorSvc,
		mediaSvc,
		sessions,
		logger,
	)

	// 7. HTTP-сервер с graceful shutdown
	srv := server.New(cfg, logger, apiHandler, healthHandler)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка HTTP-сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
