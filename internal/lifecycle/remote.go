package lifecycle

import (
	"context"
	"time"

	"github.com/pribylovaa/kickoffzone-admin/internal/models"
)

//go:generate mockgen -destination=../../mocks/mock_remote.go -package=mocks github.com/pribylovaa/kickoffzone-admin/internal/lifecycle Remote

// Remote — контракт удалённого API, которым пользуется контроллер.
// Реализация — *remote.Client.
type Remote interface {
	ListItems(ctx context.Context, kind models.Kind, status models.Status) ([]models.ContentItem, error)
	ListScheduled(ctx context.Context) ([]models.ContentItem, error)
	ListWithoutImages(ctx context.Context) ([]models.ContentItem, error)
	FetchLatestNews(ctx context.Context) ([]models.ContentItem, error)
	GenerateBirthdayPosts(ctx context.Context, req models.BirthdayRequest) (models.GenerateResult, error)

	Transition(ctx context.Context, kind models.Kind, id models.ID, action models.Action, scheduledAt *time.Time) error
	Delete(ctx context.Context, kind models.Kind, id models.ID) error
	CancelSchedule(ctx context.Context, id models.ID) error

	SubmitManualPost(ctx context.Context, post models.ManualPost) (models.SubmitResult, error)
	SubmitBirthdayDirect(ctx context.Context, post models.BirthdayDirect) (models.SubmitResult, error)
	SubmitVideo(ctx context.Context, file models.File) (models.VideoResult, error)
	UploadImageFile(ctx context.Context, id models.ID, file models.File) (string, error)
	SetImageURL(ctx context.Context, id models.ID, imageURL string) error
}
