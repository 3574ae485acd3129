package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/foodshare/engine/internal/models"
	appErr "github.com/foodshare/engine/pkg/errors"
)

// ErrUsernameTaken is returned when signup hits an existing username.
var ErrUsernameTaken = appErr.Conflict("username already exists, please choose a different one")

type UserRepository interface {
	BaseRepository[models.User]
	GetByUsername(ctx context.Context, username string, dest *models.User) error
	// CreateWithProfile inserts the user and the profile matching its role in
	// one transaction. Either both rows are written or neither.
	CreateWithProfile(ctx context.Context, u *models.User, mobile string) error
	GetDonorProfile(ctx context.Context, userID any, dest *models.DonorProfile) error
}

type userRepository struct {
	BaseRepository[models.User]
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{BaseRepository: NewBaseRepository[models.User](db, "user"), db: db}
}

func (r *userRepository) GetByUsername(ctx context.Context, username string, dest *models.User) error {
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(dest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return appErr.NotFound("user not found")
		}
		return appErr.Wrap(err, appErr.CodeInternal, "get user by username failed")
	}
	return nil
}

func usernameExists(db *gorm.DB, username string) (bool, error) {
	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, appErr.Wrap(err, appErr.CodeInternal, "check username failed")
	}
	return count > 0, nil
}

func (r *userRepository) CreateWithProfile(ctx context.Context, u *models.User, mobile string) error {
	if !u.Role.Valid() {
		return appErr.Validation("unknown role")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := usernameExists(tx, u.Username)
		if err != nil {
			return err
		}
		if exists {
			return ErrUsernameTaken
		}
		if err := tx.Create(u).Error; err != nil {
			werr := wrapWriteErr(err, "create user failed")
			if appErr.IsCode(werr, appErr.CodeConflict) {
				return ErrUsernameTaken
			}
			return werr
		}

		var profile any
		switch u.Role {
		case models.RoleDonor:
			profile = &models.DonorProfile{UserID: u.ID, MobileNumber: mobile}
		case models.RoleReceiver:
			profile = &models.ReceiverProfile{UserID: u.ID, MobileNumber: mobile}
		}
		if err := tx.Create(profile).Error; err != nil {
			return wrapWriteErr(err, "create profile failed")
		}
		return nil
	})
}

func (r *userRepository) GetDonorProfile(ctx context.Context, userID any, dest *models.DonorProfile) error {
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(dest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return appErr.NotFound("donor profile not found")
		}
		return appErr.Wrap(err, appErr.CodeInternal, "get donor profile failed")
	}
	return nil
}
