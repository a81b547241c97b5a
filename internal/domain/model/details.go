package model

import "time"

// ConnectionType — тип подключения к MCP-серверу.
type ConnectionType string

// Допустимые типы подключения.
const (
	ConnectionSSE   ConnectionType = "sse"
	ConnectionStdio ConnectionType = "stdio"
	ConnectionHTTP  ConnectionType = "http"
)

// ValidConnectionType сообщает, допустим ли тип подключения.
func ValidConnectionType(t ConnectionType) bool {
	return t == ConnectionSSE || t == ConnectionStdio || t == ConnectionHTTP
}

// EditableFields — описательные поля заявки, редактируемые модератором
// на детальной странице.
type EditableFields struct {
	// ServiceName — отображаемое имя сервиса
	ServiceName string
	// ServiceProvider — метка поставщика
	ServiceProvider string
	// Category — категория сервиса (slug)
	Category string
	// UseCases — сценарии использования
	UseCases string
	// Description — описание (рекомендуемая длина 50-100 символов)
	Description string
	// ServiceType — тип подключения (sse, stdio, http)
	ServiceType ConnectionType
	// ServiceURL — адрес сервиса
	ServiceURL string
	// PrivacyPolicyURL — адрес политики конфиденциальности
	PrivacyPolicyURL string
}

// MarkdownDoc — загруженный документ documentation-вкладки.
type MarkdownDoc struct {
	// Filename — имя файла (*.md)
	Filename string
	// Content — содержимое документа
	Content string
	// UploadedAt — время загрузки
	UploadedAt time.Time
}

// VideoAsset — загруженное демонстрационное видео.
// Держит клиентский ресурс: при замене или удалении ресурс
// обязан быть освобождён ровно один раз.
type VideoAsset struct {
	// ID — UUID ресурса
	ID string
	// Filename — имя файла (*.mp4)
	Filename string
	// SizeBytes — размер в байтах
	SizeBytes int64
	// UploadedAt — время загрузки
	UploadedAt time.Time
}

// ScanStatus — результат антивирусной проверки пакета.
type ScanStatus string

// Результаты антивирусной проверки.
const (
	ScanSafe    ScanStatus = "Safe"
	ScanRisky   ScanStatus = "Risky"
	ScanUnknown ScanStatus = "Unknown"
)

// InstallationPackage — установочный пакет заявки (только чтение).
type InstallationPackage struct {
	// FileName — имя файла пакета
	FileName string
	// FileType — тип пакета (TAR.GZ, DOCKER, ...)
	FileType string
	// FileSize — размер в человекочитаемом виде
	FileSize string
	// UploadedAt — дата загрузки
	UploadedAt string
	// PlatformType — целевая платформа
	PlatformType string
	// FileHash — хэш файла
	FileHash string
	// VirusScan — результат антивирусной проверки
	VirusScan ScanStatus
	// MinPlatformVersion — минимальная версия платформы
	MinPlatformVersion string
	// TargetPlatformVersion — целевая версия платформы (может быть пустой)
	TargetPlatformVersion string
}

// AttachedFile — приложенный файл заявки (только чтение).
type AttachedFile struct {
	// Name — имя файла
	Name string
	// Size — размер в человекочитаемом виде
	Size string
	// Type — тип файла
	Type string
}

// Details — детальная карточка заявки: редактируемые поля
// и facets документации, медиа и пакетов.
type Details struct {
	// Fields — текущие зафиксированные значения редактируемых полей
	Fields EditableFields
	// Screenshots — адреса скриншотов
	Screenshots []string
	// Document — загруженный markdown-документ (nil, если нет)
	Document *MarkdownDoc
	// Video — загруженное видео (nil, если нет)
	Video *VideoAsset
	// Packages — установочные пакеты
	Packages []InstallationPackage
	// Files — приложенные файлы
	Files []AttachedFile
}
