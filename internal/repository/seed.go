// seed.go — стартовый набор данных Review Module.
// Мок-данные подменяют будущий удалённый источник: 6 заявок в очереди
// модерации и 4 уже рассмотренных.
package repository

import (
	"time"

	"github.com/bigkaa/mcpmarket/review-module/internal/domain/model"
)

// Оценки автоматического ревью в стартовой истории.
var seedAutoScores = model.ReviewScores{
	ContentQuality: 88.50,
	Compliance:     89.00,
	SafetyCheck:    93.00,
	Overall:        90.20,
}

// Оценки ручного ревью в стартовой истории опубликованных заявок.
var seedManualScores = model.ReviewScores{
	ContentQuality: 92.00,
	Compliance:     91.00,
	SafetyCheck:    95.00,
	Overall:        92.70,
}

// SeedData возвращает стартовый набор заявок.
func SeedData() []SeedRecord {
	subs := []model.Submission{
		// --- Очередь модерации ---
		{
			ID:          "mcp-123456789",
			ServerID:    "filesystem-manager",
			Name:        "File System Manager",
			Developer:   "alex.johnson@modelcontextprotocol.com",
			Provider:    model.ProviderITEM,
			Version:     "1.2.3",
			SubmittedAt: mustTime("2025-03-10T14:30:00Z"),
			Status:      model.StatusAutoApproved,
			AIReview:    model.AIReviewPass,
		},
		{
			ID:          "mcp-234567890",
			ServerID:    "database-query",
			Name:        "Database Query Tool",
			Developer:   "sarah.miller@microsoft.com",
			Provider:    model.ProviderIndividual,
			Version:     "2.1.0",
			SubmittedAt: mustTime("2025-03-08T09:15:00Z"),
			Status:      model.StatusAutoApproved,
			AIReview:    model.AIReviewPass,
		},
		{
			ID:          "mcp-345678901",
			ServerID:    "ai-connector",
			Name:        "AI Assistant Connector",
			Developer:   "tom.wilson@context7.com",
			Provider:    model.ProviderIndividual,
			Version:     "0.8.5",
			SubmittedAt: mustTime("2025-03-07T11:22:00Z"),
			Status:      model.StatusAutoApproved,
			AIReview:    model.AIReviewPass,
		},
		{
			ID:          "mcp-456789012",
			ServerID:    "git-repo-manager",
			Name:        "Git Repository Manager",
			Developer:   "emma.davis@example.com",
			Provider:    model.ProviderITEM,
			Version:     "3.0.1",
			SubmittedAt: mustTime("2025-03-06T16:45:00Z"),
			Status:      model.StatusAutoRejected,
			AIReview:    model.AIReviewFail,
		},
		{
			ID:          "mcp-567890123",
			ServerID:    "cloud-storage",
			Name:        "Cloud Storage Connector",
			Developer:   "mike.brown@cloudtech.com",
			Provider:    model.ProviderIndividual,
			Version:     "1.5.2",
			SubmittedAt: mustTime("2025-03-05T08:30:00Z"),
			Status:      model.StatusAutoApproved,
			AIReview:    model.AIReviewPass,
		},
		{
			ID:          "mcp-678901234",
			ServerID:    "api-gateway",
			Name:        "API Gateway Manager",
			Developer:   "lisa.chen@techcorp.com",
			Provider:    model.ProviderITEM,
			Version:     "2.3.0",
			SubmittedAt: mustTime("2025-03-04T14:20:00Z"),
			Status:      model.StatusAutoApproved,
			AIReview:    model.AIReviewPass,
		},

		// --- Рассмотренные ---
		{
			ID:          "mcp-789012345",
			ServerID:    "task-automation",
			Name:        "Task Automation Engine",
			Developer:   "david.kim@automate.io",
			Provider:    model.ProviderIndividual,
			Version:     "1.8.7",
			SubmittedAt: mustTime("2025-02-28T10:15:00Z"),
			Status:      model.StatusPublished,
			AIReview:    model.AIReviewPass,
			Reviewed:    true,
		},
		{
			ID:          "mcp-890123456",
			ServerID:    "data-analytics",
			Name:        "Data Analytics Suite",
			Developer:   "jennifer.white@analytics.com",
			Provider:    model.ProviderITEM,
			Version:     "4.2.1",
			SubmittedAt: mustTime("2025-02-25T13:45:00Z"),
			Status:      model.StatusPublished,
			AIReview:    model.AIReviewPass,
			Reviewed:    true,
		},
		{
			ID:          "mcp-901234567",
			ServerID:    "security-monitor",
			Name:        "Security Monitor",
			Developer:   "robert.garcia@security.net",
			Provider:    model.ProviderIndividual,
			Version:     "2.0.5",
			SubmittedAt: mustTime("2025-02-20T09:30:00Z"),
			Status:      model.StatusRejected,
			AIReview:    model.AIReviewFail,
			Reviewed:    true,
		},
		{
			ID:          "mcp-012345678",
			ServerID:    "content-hub",
			Name:        "Content Management Hub",
			Developer:   "maria.rodriguez@content.pro",
			Provider:    model.ProviderITEM,
			Version:     "1.9.3",
			SubmittedAt: mustTime("2025-02-18T15:20:00Z"),
			Status:      model.StatusDelisted,
			AIReview:    model.AIReviewPass,
			Reviewed:    true,
		},
	}

	records := make([]SeedRecord, 0, len(subs))
	for _, sub := range subs {
		records = append(records, SeedRecord{
			Submission: sub,
			Details:    seedDetails(sub),
			History:    seedHistory(sub),
		})
	}
	return records
}

// seedDetails строит стартовую карточку заявки.
func seedDetails(sub model.Submission) model.Details {
	return model.Details{
		Fields: model.EditableFields{
			ServiceName:      sub.Name,
			ServiceProvider:  string(sub.Provider),
			Category:         "data-file-systems",
			UseCases:         "This is a test case for file system management, data processing, and automated workflows in development environments.",
			Description:      "A comprehensive MCP server for advanced file system management capabilities.",
			ServiceType:      model.ConnectionSSE,
			ServiceURL:       "https://api.example.com/mcp-server",
			PrivacyPolicyURL: "",
		},
		Screenshots: []string{
			"https://images.pexels.com/photos/5483077/pexels-photo-5483077.jpeg",
			"https://images.pexels.com/photos/5483064/pexels-photo-5483064.jpeg",
			"https://images.pexels.com/photos/5483071/pexels-photo-5483071.jpeg",
		},
		Packages: []model.InstallationPackage{
			{
				FileName:              "mcp-server-v" + sub.Version + ".tar.gz",
				FileType:              "TAR.GZ",
				FileSize:              "12.5 MB",
				UploadedAt:            "2025-03-15",
				PlatformType:          "Cross-platform",
				FileHash:              "8f4e8d9c1a2b3f4e8d9c1a2b3f4e8d9c1a2b3f4e8d9c1a2b3f4e8d9c1a2b3f4e",
				VirusScan:             model.ScanSafe,
				MinPlatformVersion:    "Node.js 18.0+",
				TargetPlatformVersion: "Node.js 20.0+",
			},
			{
				FileName:           "mcp-server-docker-v" + sub.Version + ".tar",
				FileType:           "DOCKER",
				FileSize:           "85.2 MB",
				UploadedAt:         "2025-03-15",
				PlatformType:       "Docker",
				FileHash:           "7d3f8a2b1c4e9d6f5e2a8b9c0d1e2f3a4b5c6d7e8f9a0b1c2d3e4f5a6b7c8d9e",
				VirusScan:          model.ScanSafe,
				MinPlatformVersion: "Docker 20.0+",
			},
		},
		Files: []model.AttachedFile{
			{Name: "mcp-server-config.json", Size: "8.1 KB", Type: "JSON Configuration"},
			{Name: "mcp-server-readme.md", Size: "15 KB", Type: "Markdown Document"},
		},
	}
}

// seedHistory строит стартовую историю заявки: событие подачи,
// результат автоматического ревью и — для рассмотренных — решение
// модератора. Свежие события первыми.
func seedHistory(sub model.Submission) []model.ReviewEvent {
	submitted := model.ReviewEvent{
		ID:        "seed-" + sub.ID + "-submitted",
		Timestamp: sub.SubmittedAt,
		Status:    model.StatusSubmitted,
		Type:      model.ReviewTypeSubmission,
	}

	autoStatus := model.StatusAutoApproved
	if sub.AIReview == model.AIReviewFail {
		autoStatus = model.StatusAutoRejected
	}
	scores := seedAutoScores
	auto := model.ReviewEvent{
		ID:        "seed-" + sub.ID + "-auto",
		Timestamp: sub.SubmittedAt.Add(15 * time.Minute),
		Status:    autoStatus,
		Type:      model.ReviewTypeAuto,
		Scores:    &scores,
	}

	if !sub.Reviewed {
		return []model.ReviewEvent{auto, submitted}
	}

	manual := model.ReviewEvent{
		ID:        "seed-" + sub.ID + "-manual",
		Timestamp: sub.SubmittedAt.Add(4 * time.Hour),
		Status:    sub.Status,
		Type:      model.ReviewTypeManual,
		Operator:  "John Smith",
	}
	switch sub.Status {
	case model.StatusPublished:
		ms := seedManualScores
		manual.Scores = &ms
	case model.StatusRejected:
		manual.Reason = "Security review found unresolved findings"
	case model.StatusDelisted:
		manual.Reason = "Delisted at the developer's request"
	}
	return []model.ReviewEvent{manual, auto, submitted}
}

// mustTime разбирает время RFC3339 из seed-данных.
// Данные статичны, ошибка разбора — ошибка программиста.
func mustTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}
