package repositories

import (
	"context"
	"time"

	"coursehub/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BadgeRepository owns the award pivots and is the only writer of students.badge_count.
// Every operation that changes which active badges a student holds recounts inside its
// own transaction.
type BadgeRepository struct {
	*Store[models.Badge]
	now func() time.Time
}

func NewBadgeRepository(db *gorm.DB) *BadgeRepository {
	return &BadgeRepository{Store: NewStore[models.Badge](db, "Badge"), now: time.Now}
}

func (r *BadgeRepository) ByType(ctx context.Context, t models.BadgeType) ([]models.Badge, error) {
	var out []models.Badge
	if err := r.Query(ctx).Where("type = ?", t).Order("id asc").Find(&out).Error; err != nil {
		return nil, r.wrap(err, "fetch")
	}
	return out, nil
}

// AwardToStudent attaches a student badge. It returns false without writing when the badge is
// not of type student. An existing award is left as is.
func (r *BadgeRepository) AwardToStudent(ctx context.Context, badgeID, studentID uint) (bool, error) {
	awarded := false
	err := r.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		badge, err := r.Store.WithTx(tx).FindByID(ctx, badgeID)
		if err != nil {
			return err
		}
		if err := requireLive[models.Student](tx, studentID, "Student"); err != nil {
			return err
		}
		if badge.Type != models.BadgeTypeStudent {
			return nil
		}

		pivot := models.StudentBadge{StudentID: studentID, BadgeID: badgeID, EarnedAt: r.now()}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&pivot).Error; err != nil {
			return r.wrap(err, "award")
		}
		awarded = true
		return recountStudents(tx, []uint{studentID})
	})
	if err != nil {
		return false, err
	}
	return awarded, nil
}

func (r *BadgeRepository) AwardToMentor(ctx context.Context, badgeID, mentorID uint) (bool, error) {
	awarded := false
	err := r.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		badge, err := r.Store.WithTx(tx).FindByID(ctx, badgeID)
		if err != nil {
			return err
		}
		if err := requireLive[models.Mentor](tx, mentorID, "Mentor"); err != nil {
			return err
		}
		if badge.Type != models.BadgeTypeMentor {
			return nil
		}

		pivot := models.MentorBadge{MentorID: mentorID, BadgeID: badgeID, EarnedAt: r.now()}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&pivot).Error; err != nil {
			return r.wrap(err, "award")
		}
		awarded = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return awarded, nil
}

// RemoveFromStudent detaches the badge if attached. Removing an absent award succeeds.
func (r *BadgeRepository) RemoveFromStudent(ctx context.Context, badgeID, studentID uint) error {
	return r.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("student_id = ? AND badge_id = ?", studentID, badgeID).
			Delete(&models.StudentBadge{}).Error
		if err != nil {
			return r.wrap(err, "remove")
		}
		return recountStudents(tx, []uint{studentID})
	})
}

func (r *BadgeRepository) RemoveFromMentor(ctx context.Context, badgeID, mentorID uint) error {
	err := r.DB().WithContext(ctx).
		Where("mentor_id = ? AND badge_id = ?", mentorID, badgeID).
		Delete(&models.MentorBadge{}).Error
	if err != nil {
		return r.wrap(err, "remove")
	}
	return nil
}

func (r *BadgeRepository) StudentHasBadge(ctx context.Context, studentID, badgeID uint) (bool, error) {
	var count int64
	err := r.DB().WithContext(ctx).Model(&models.StudentBadge{}).
		Where("student_id = ? AND badge_id = ?", studentID, badgeID).
		Count(&count).Error
	if err != nil {
		return false, r.wrap(err, "fetch")
	}
	return count > 0, nil
}

func (r *BadgeRepository) MentorHasBadge(ctx context.Context, mentorID, badgeID uint) (bool, error) {
	var count int64
	err := r.DB().WithContext(ctx).Model(&models.MentorBadge{}).
		Where("mentor_id = ? AND badge_id = ?", mentorID, badgeID).
		Count(&count).Error
	if err != nil {
		return false, r.wrap(err, "fetch")
	}
	return count > 0, nil
}

// Awarded reports whether anyone holds the badge.
func (r *BadgeRepository) Awarded(ctx context.Context, badgeID uint) (bool, error) {
	var students, mentors int64
	db := r.DB().WithContext(ctx)
	if err := db.Model(&models.StudentBadge{}).Where("badge_id = ?", badgeID).Count(&students).Error; err != nil {
		return false, r.wrap(err, "fetch")
	}
	if err := db.Model(&models.MentorBadge{}).Where("badge_id = ?", badgeID).Count(&mentors).Error; err != nil {
		return false, r.wrap(err, "fetch")
	}
	return students+mentors > 0, nil
}

// StudentBadges lists the active badges a student holds with their award time.
func (r *BadgeRepository) StudentBadges(ctx context.Context, studentID uint) ([]models.Badge, error) {
	return r.awarded(ctx, "student_badge", "student_id", studentID)
}

func (r *BadgeRepository) MentorBadges(ctx context.Context, mentorID uint) ([]models.Badge, error) {
	return r.awarded(ctx, "mentor_badge", "mentor_id", mentorID)
}

func (r *BadgeRepository) awarded(ctx context.Context, pivot, column string, ownerID uint) ([]models.Badge, error) {
	type row struct {
		models.Badge
		AwardedAt time.Time
	}
	var rows []row
	err := r.Query(ctx).
		Select("badges.*, "+pivot+".earned_at AS awarded_at").
		Joins("JOIN "+pivot+" ON "+pivot+".badge_id = badges.id").
		Where(pivot+"."+column+" = ?", ownerID).
		Order(pivot + ".earned_at asc").
		Scan(&rows).Error
	if err != nil {
		return nil, r.wrap(err, "fetch")
	}
	out := make([]models.Badge, len(rows))
	for i := range rows {
		b := rows[i].Badge
		at := rows[i].AwardedAt
		b.EarnedAt = &at
		out[i] = b
	}
	return out, nil
}

// Delete tombstones the badge and drops it from the counts of every student holding it.
func (r *BadgeRepository) Delete(ctx context.Context, id uint) error {
	return r.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.Store.WithTx(tx).Delete(ctx, id); err != nil {
			return err
		}
		return recountHolders(tx, id)
	})
}

func (r *BadgeRepository) Restore(ctx context.Context, id uint) (*models.Badge, error) {
	var badge *models.Badge
	err := r.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		restored, err := r.Store.WithTx(tx).Restore(ctx, id)
		if err != nil {
			return err
		}
		badge = restored
		return recountHolders(tx, id)
	})
	return badge, err
}

// ForceDelete removes the badge and all its awards.
func (r *BadgeRepository) ForceDelete(ctx context.Context, id uint) error {
	return r.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		holders, err := holdersOf(tx, id)
		if err != nil {
			return err
		}
		if err := tx.Where("badge_id = ?", id).Delete(&models.StudentBadge{}).Error; err != nil {
			return r.wrap(err, "delete")
		}
		if err := tx.Where("badge_id = ?", id).Delete(&models.MentorBadge{}).Error; err != nil {
			return r.wrap(err, "delete")
		}
		if err := r.Store.WithTx(tx).ForceDelete(ctx, id); err != nil {
			return err
		}
		return recountStudents(tx, holders)
	})
}

func holdersOf(tx *gorm.DB, badgeID uint) ([]uint, error) {
	var ids []uint
	err := tx.Model(&models.StudentBadge{}).
		Where("badge_id = ?", badgeID).
		Pluck("student_id", &ids).Error
	if err != nil {
		return nil, wrapErr(err, "Badge", "fetch")
	}
	return ids, nil
}

func recountHolders(tx *gorm.DB, badgeID uint) error {
	ids, err := holdersOf(tx, badgeID)
	if err != nil {
		return err
	}
	return recountStudents(tx, ids)
}

// recountStudents sets badge_count to the number of active badges each student holds.
func recountStudents(tx *gorm.DB, studentIDs []uint) error {
	if len(studentIDs) == 0 {
		return nil
	}
	err := tx.Model(&models.Student{}).
		Where("id IN ?", studentIDs).
		UpdateColumn("badge_count", gorm.Expr(
			"(SELECT COUNT(*) FROM student_badge JOIN badges ON badges.id = student_badge.badge_id "+
				"WHERE student_badge.student_id = students.id AND badges.is_deleted = ?)", false)).Error
	if err != nil {
		return wrapErr(err, "Student", "update")
	}
	return nil
}

func requireLive[T any](tx *gorm.DB, id uint, name string) error {
	var count int64
	if err := tx.Model(new(T)).Where("id = ? AND is_deleted = ?", id, false).Count(&count).Error; err != nil {
		return wrapErr(err, name, "fetch")
	}
	if count == 0 {
		return wrapErr(gorm.ErrRecordNotFound, name, "fetch")
	}
	return nil
}
