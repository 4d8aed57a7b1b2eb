package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sprintforge/backend/internal/models"
	apperrors "github.com/sprintforge/backend/pkg/errors"
	"gorm.io/gorm"
)

// SprintRepository persists sprints and their planned work.
type SprintRepository interface {
	BaseRepository[models.Sprint]
	List(ctx context.Context) ([]models.Sprint, error)
	GetTree(ctx context.Context, id uuid.UUID) (*models.Sprint, error)
}

type sprintRepository struct {
	baseRepository[models.Sprint]
}

// NewSprintRepository creates a sprint repository backed by Gorm.
func NewSprintRepository(db *gorm.DB) SprintRepository {
	return &sprintRepository{baseRepository[models.Sprint]{db: db}}
}

func (r *sprintRepository) List(ctx context.Context) ([]models.Sprint, error) {
	var sprints []models.Sprint
	if err := r.db.WithContext(ctx).Order("start_date asc, created_at asc").Find(&sprints).Error; err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "list sprints failed")
	}
	return sprints, nil
}

// GetTree loads a sprint together with its PBIs and their stories.
func (r *sprintRepository) GetTree(ctx context.Context, id uuid.UUID) (*models.Sprint, error) {
	var sprint models.Sprint
	err := r.db.WithContext(ctx).
		Preload("PBIs", func(db *gorm.DB) *gorm.DB { return db.Order("created_at asc") }).
		Preload("PBIs.Stories", func(db *gorm.DB) *gorm.DB { return db.Order("created_at asc") }).
		First(&sprint, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "sprint not found")
		}
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "load sprint tree failed")
	}
	return &sprint, nil
}

// Delete removes a sprint and cascades to its PBIs and their stories in
// a single transaction. The explicit cascade keeps behavior identical on
// databases where foreign key enforcement is off.
func (r *sprintRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sub := tx.Model(&models.PBI{}).Select("id").Where("sprint_id = ?", id)
		if err := tx.Where("pbi_id IN (?)", sub).Delete(&models.Story{}).Error; err != nil {
			return apperrors.Wrap(err, apperrors.CodeInternal, "delete sprint stories failed")
		}
		if err := tx.Where("sprint_id = ?", id).Delete(&models.PBI{}).Error; err != nil {
			return apperrors.Wrap(err, apperrors.CodeInternal, "delete sprint pbis failed")
		}
		res := tx.Delete(&models.Sprint{}, "id = ?", id)
		if res.Error != nil {
			return apperrors.Wrap(res.Error, apperrors.CodeInternal, "delete sprint failed")
		}
		if res.RowsAffected == 0 {
			return apperrors.New(apperrors.CodeNotFound, "sprint not found")
		}
		return nil
	})
}
