package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sprintforge/backend/internal/models"
	apperrors "github.com/sprintforge/backend/pkg/errors"
	"gorm.io/gorm"
)

// StoryRepository persists user stories.
type StoryRepository interface {
	BaseRepository[models.Story]
	ListByPBI(ctx context.Context, pbiID uuid.UUID) ([]models.Story, error)
	ListBySprint(ctx context.Context, sprintID uuid.UUID) ([]models.Story, error)
	UpdatePriorities(ctx context.Context, priorities map[uuid.UUID]models.Priority) error
}

type storyRepository struct {
	baseRepository[models.Story]
}

// NewStoryRepository creates a story repository backed by Gorm.
func NewStoryRepository(db *gorm.DB) StoryRepository {
	return &storyRepository{baseRepository[models.Story]{db: db}}
}

func (r *storyRepository) ListByPBI(ctx context.Context, pbiID uuid.UUID) ([]models.Story, error) {
	var stories []models.Story
	if err := r.db.WithContext(ctx).Where("pbi_id = ?", pbiID).Order("created_at asc").Find(&stories).Error; err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "list stories failed")
	}
	return stories, nil
}

func (r *storyRepository) ListBySprint(ctx context.Context, sprintID uuid.UUID) ([]models.Story, error) {
	var stories []models.Story
	err := r.db.WithContext(ctx).
		Joins("JOIN pbis ON pbis.id = stories.pbi_id").
		Where("pbis.sprint_id = ?", sprintID).
		Order("stories.created_at asc").
		Find(&stories).Error
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "list sprint stories failed")
	}
	return stories, nil
}

// UpdatePriorities writes computed priorities for a batch of stories in
// a single transaction so a mid-batch failure leaves nothing half-written.
func (r *storyRepository) UpdatePriorities(ctx context.Context, priorities map[uuid.UUID]models.Priority) error {
	if len(priorities) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for id, p := range priorities {
			if err := tx.Model(&models.Story{}).Where("id = ?", id).Update("priority", p).Error; err != nil {
				return apperrors.Wrap(err, apperrors.CodeInternal, "update story priority failed")
			}
		}
		return nil
	})
}
