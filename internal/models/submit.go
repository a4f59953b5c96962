package models

import (
	"io"
	"time"
)

// File — файл для multipart-загрузки. Body читается один раз.
type File struct {
	Name        string
	ContentType string
	Body        io.Reader
}

// ManualPost — ручная загрузка новости.
// PostNow и ScheduledAt взаимоисключающие; без обоих пост создаётся черновиком.
type ManualPost struct {
	Title       string
	Summary     string
	Image       File
	PostNow     bool
	ScheduledAt *time.Time
}

// BirthdayDirect — прямая публикация поздравления: файлы или ссылки на картинки.
type BirthdayDirect struct {
	Name        string
	Year        int
	PostID      ID
	ScheduledAt *time.Time
	Images      []File
	ImageURLs   []string
}

// BirthdayRequest — генерация поздравлений.
// Пустой PlayerName — пакет на всю неделю, иначе один игрок.
type BirthdayRequest struct {
	PlayerName string
	Team       string
	ImageURL   string
	PostNow    bool
}

// SubmitResult — ответ на создание поста.
type SubmitResult struct {
	Message string
	Item    *ContentItem
}

// GenerateResult — ответ генерации поздравлений.
type GenerateResult struct {
	Message string
	Players []string
	Item    *ContentItem
}

// VideoResult — ответ загрузки видео.
type VideoResult struct {
	YouTubeID string
}
