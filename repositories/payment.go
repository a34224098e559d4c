package repositories

import (
	"context"
	"time"

	"coursehub/models"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	*Store[models.Payment]
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{Store: NewStore[models.Payment](db, "Payment", "User", "Course")}
}

func (r *PaymentRepository) FindByPaymentID(ctx context.Context, paymentID string) (*models.Payment, error) {
	p := &models.Payment{}
	if err := r.Query(ctx).Where("payment_id = ?", paymentID).First(p).Error; err != nil {
		return nil, r.wrap(err, "fetch")
	}
	return p, nil
}

// PaymentScope narrows payment listings. Zero fields are ignored.
type PaymentScope struct {
	UserID   uint
	CourseID uint
	Status   models.PaymentStatus
}

func (r *PaymentRepository) Search(ctx context.Context, scope PaymentScope) ([]models.Payment, error) {
	q := withPreloads(r.Query(ctx), r.Preloads())
	if scope.UserID != 0 {
		q = q.Where("payments.user_id = ?", scope.UserID)
	}
	if scope.CourseID != 0 {
		q = q.Where("payments.course_id = ?", scope.CourseID)
	}
	if scope.Status != "" {
		q = q.Where("payments.status = ?", scope.Status)
	}

	var out []models.Payment
	if err := q.Order("payments.created_at desc, payments.id desc").Find(&out).Error; err != nil {
		return nil, r.wrap(err, "fetch")
	}
	return out, nil
}

// Unconfirmed lists payments closed through the success redirect that the provider never
// confirmed as paid, last touched before olderThan.
func (r *PaymentRepository) Unconfirmed(ctx context.Context, olderThan time.Time, limit int) ([]models.Payment, error) {
	var out []models.Payment
	err := r.Query(ctx).
		Where("status = ? AND confirmed_at IS NULL AND updated_at < ?", models.PaymentStatusCompleted, olderThan).
		Order("updated_at asc").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, r.wrap(err, "fetch")
	}
	return out, nil
}

// MarkConfirmed stamps confirmed_at on a payment that has not been confirmed yet. It reports
// false when another caller confirmed it first.
func (r *PaymentRepository) MarkConfirmed(ctx context.Context, id uint, method, receiptURL string, at time.Time) (bool, error) {
	res := r.DB().WithContext(ctx).Model(&models.Payment{}).
		Where("id = ? AND confirmed_at IS NULL", id).
		Updates(map[string]interface{}{
			"status":         models.PaymentStatusCompleted,
			"payment_method": method,
			"receipt_url":    receiptURL,
			"confirmed_at":   at,
		})
	if res.Error != nil {
		return false, r.wrap(res.Error, "update")
	}
	return res.RowsAffected > 0, nil
}
