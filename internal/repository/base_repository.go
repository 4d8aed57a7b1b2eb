package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	apperrors "github.com/sprintforge/backend/pkg/errors"
	"gorm.io/gorm"
)

// BaseRepository defines generic CRUD operations shared by all entities.
type BaseRepository[T any] interface {
	Create(ctx context.Context, entity *T) error
	GetByID(ctx context.Context, id uuid.UUID) (*T, error)
	Update(ctx context.Context, entity *T) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type baseRepository[T any] struct {
	db *gorm.DB
}

func (r *baseRepository[T]) Create(ctx context.Context, entity *T) error {
	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "create failed")
	}
	return nil
}

func (r *baseRepository[T]) GetByID(ctx context.Context, id uuid.UUID) (*T, error) {
	var entity T
	err := r.db.WithContext(ctx).First(&entity, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.CodeNotFound, "record not found")
		}
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "query failed")
	}
	return &entity, nil
}

func (r *baseRepository[T]) Update(ctx context.Context, entity *T) error {
	if err := r.db.WithContext(ctx).Save(entity).Error; err != nil {
		return apperrors.Wrap(err, apperrors.CodeInternal, "update failed")
	}
	return nil
}

func (r *baseRepository[T]) Delete(ctx context.Context, id uuid.UUID) error {
	var entity T
	res := r.db.WithContext(ctx).Delete(&entity, "id = ?", id)
	if res.Error != nil {
		return apperrors.Wrap(res.Error, apperrors.CodeInternal, "delete failed")
	}
	if res.RowsAffected == 0 {
		return apperrors.New(apperrors.CodeNotFound, "record not found")
	}
	return nil
}
