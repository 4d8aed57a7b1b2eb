package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sprintforge/backend/internal/models"
	apperrors "github.com/sprintforge/backend/pkg/errors"
	"gorm.io/gorm"
)

// PBIRepository persists product backlog items.
type PBIRepository interface {
	BaseRepository[models.PBI]
	ListBySprint(ctx context.Context, sprintID uuid.UUID) ([]models.PBI, error)
}

type pbiRepository struct {
	baseRepository[models.PBI]
}

// NewPBIRepository creates a PBI repository backed by Gorm.
func NewPBIRepository(db *gorm.DB) PBIRepository {
	return &pbiRepository{baseRepository[models.PBI]{db: db}}
}

func (r *pbiRepository) ListBySprint(ctx context.Context, sprintID uuid.UUID) ([]models.PBI, error) {
	var pbis []models.PBI
	if err := r.db.WithContext(ctx).Where("sprint_id = ?", sprintID).Order("created_at asc").Find(&pbis).Error; err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "list pbis failed")
	}
	return pbis, nil
}

// Delete removes a PBI and its stories in one transaction.
func (r *pbiRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("pbi_id = ?", id).Delete(&models.Story{}).Error; err != nil {
			return apperrors.Wrap(err, apperrors.CodeInternal, "delete pbi stories failed")
		}
		res := tx.Delete(&models.PBI{}, "id = ?", id)
		if res.Error != nil {
			return apperrors.Wrap(res.Error, apperrors.CodeInternal, "delete pbi failed")
		}
		if res.RowsAffected == 0 {
			return apperrors.New(apperrors.CodeNotFound, "pbi not found")
		}
		return nil
	})
}
