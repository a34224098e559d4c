package repositories

import (
	"context"
	"strings"
	"time"

	"coursehub/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	*Store[models.User]
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{Store: NewStore[models.User](db, "User")}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	err := r.Active(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(user).Error
	if err != nil {
		return nil, r.wrap(err, "fetch")
	}
	return user, nil
}

// FindWithProfiles loads the user together with its live mentor and student profiles.
func (r *UserRepository) FindWithProfiles(ctx context.Context, id uint) (*models.User, error) {
	return r.FindByID(ctx, id, "Mentor", "Student")
}

func (r *UserRepository) TouchLastActive(ctx context.Context, id uint, at time.Time) error {
	return r.DB().WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("last_active_at", at).Error
}

// RevokeToken blacklists a jti until it expires. Revoking twice is harmless.
func (r *UserRepository) RevokeToken(ctx context.Context, jti string, userID uint, expiresAt time.Time) error {
	rec := models.RevokedToken{JTI: jti, UserID: userID, ExpiresAt: expiresAt}
	err := r.DB().WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "jti"}}, DoNothing: true}).
		Create(&rec).Error
	if err != nil {
		return wrapErr(err, "Token", "revoke")
	}
	return nil
}

func (r *UserRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var count int64
	err := r.DB().WithContext(ctx).Model(&models.RevokedToken{}).
		Where("jti = ?", jti).
		Count(&count).Error
	if err != nil {
		return false, wrapErr(err, "Token", "fetch")
	}
	return count > 0, nil
}

// PurgeRevoked drops blacklist entries whose tokens have expired anyway.
func (r *UserRepository) PurgeRevoked(ctx context.Context, now time.Time) (int64, error) {
	res := r.DB().WithContext(ctx).Where("expires_at < ?", now).Delete(&models.RevokedToken{})
	if res.Error != nil {
		return 0, wrapErr(res.Error, "Token", "delete")
	}
	return res.RowsAffected, nil
}
