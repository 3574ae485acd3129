package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/foodshare/engine/internal/models"
	appErr "github.com/foodshare/engine/pkg/errors"
)

type RequestRepository interface {
	BaseRepository[models.Request]
	// ListIncoming returns requests made against donations owned by donorID.
	ListIncoming(ctx context.Context, donorID uuid.UUID) ([]models.IncomingRequest, error)
}

type requestRepository struct {
	BaseRepository[models.Request]
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{BaseRepository: NewBaseRepository[models.Request](db, "request"), db: db}
}

func (r *requestRepository) ListIncoming(ctx context.Context, donorID uuid.UUID) ([]models.IncomingRequest, error) {
	var out []models.IncomingRequest
	err := r.db.WithContext(ctx).
		Table("requests").
		Select("requests.*, users.username AS requester_username, donations.food_type AS donation_food_type").
		Joins("JOIN donations ON donations.id = requests.donation_id").
		Joins("JOIN users ON users.id = requests.requester_id").
		Where("donations.donor_id = ?", donorID).
		Order("requests.created_at DESC").
		Scan(&out).Error
	if err != nil {
		return nil, appErr.Wrap(err, appErr.CodeInternal, "list incoming requests failed")
	}
	return out, nil
}
