package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/foodshare/engine/pkg/database"
	appErr "github.com/foodshare/engine/pkg/errors"
)

// BaseRepository defines common CRUD operations.
type BaseRepository[T any] interface {
	Create(ctx context.Context, obj *T) error
	GetByID(ctx context.Context, id any, dest *T) error
	Update(ctx context.Context, obj *T) error
	Delete(ctx context.Context, id any) error
}

type baseRepository[T any] struct {
	db   *gorm.DB
	name string
}

// NewBaseRepository builds CRUD helpers for T. name is used in error messages.
func NewBaseRepository[T any](db *gorm.DB, name string) BaseRepository[T] {
	return &baseRepository[T]{db: db, name: name}
}

func (r *baseRepository[T]) Create(ctx context.Context, obj *T) error {
	if err := r.db.WithContext(ctx).Create(obj).Error; err != nil {
		return wrapWriteErr(err, "create "+r.name+" failed")
	}
	return nil
}

func (r *baseRepository[T]) GetByID(ctx context.Context, id any, dest *T) error {
	if err := r.db.WithContext(ctx).First(dest, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return appErr.NotFound(r.name + " not found")
		}
		return appErr.Wrap(err, appErr.CodeInternal, "get "+r.name+" failed")
	}
	return nil
}

func (r *baseRepository[T]) Update(ctx context.Context, obj *T) error {
	if err := r.db.WithContext(ctx).Save(obj).Error; err != nil {
		return wrapWriteErr(err, "update "+r.name+" failed")
	}
	return nil
}

func (r *baseRepository[T]) Delete(ctx context.Context, id any) error {
	var t T
	res := r.db.WithContext(ctx).Delete(&t, "id = ?", id)
	if res.Error != nil {
		return appErr.Wrap(res.Error, appErr.CodeInternal, "delete "+r.name+" failed")
	}
	if res.RowsAffected == 0 {
		return appErr.NotFound(fmt.Sprintf("%s %v not found", r.name, id))
	}
	return nil
}

// wrapWriteErr maps unique violations to conflicts and everything else to internal.
func wrapWriteErr(err error, msg string) error {
	var ae *appErr.AppError
	if errors.As(err, &ae) {
		return err
	}
	if database.IsUniqueViolation(err) {
		return appErr.Wrap(err, appErr.CodeConflict, msg+": duplicate key")
	}
	return appErr.Wrap(err, appErr.CodeInternal, msg)
}
