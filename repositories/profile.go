package repositories

import (
	"context"

	"coursehub/models"

	"gorm.io/gorm"
)

type MentorRepository struct {
	*Store[models.Mentor]
}

func NewMentorRepository(db *gorm.DB) *MentorRepository {
	return &MentorRepository{Store: NewStore[models.Mentor](db, "Mentor", "User")}
}

func (r *MentorRepository) FindByUserID(ctx context.Context, userID uint) (*models.Mentor, error) {
	mentor := &models.Mentor{}
	if err := r.Active(ctx).Where("user_id = ?", userID).First(mentor).Error; err != nil {
		return nil, r.wrap(err, "fetch")
	}
	return mentor, nil
}

// HasProfile reports whether the user owns a mentor row, live or trashed. user_id is unique
// over all rows, so a trashed profile still blocks a new one until it is restored or purged.
func (r *MentorRepository) HasProfile(ctx context.Context, userID uint) (bool, error) {
	var count int64
	if err := r.DB().WithContext(ctx).Model(&models.Mentor{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return false, r.wrap(err, "fetch")
	}
	return count > 0, nil
}

func (r *MentorRepository) BySpeciality(ctx context.Context, speciality string) ([]models.Mentor, error) {
	var out []models.Mentor
	err := r.Active(ctx).
		Where("speciality LIKE ?", "%"+speciality+"%").
		Order("id asc").
		Find(&out).Error
	if err != nil {
		return nil, r.wrap(err, "fetch")
	}
	return out, nil
}

type countRow struct {
	ID    uint
	Total int64
}

// Top returns the mentors with the most live courses, busiest first.
func (r *MentorRepository) Top(ctx context.Context, limit int) ([]models.Mentor, error) {
	var rows []countRow
	err := r.DB().WithContext(ctx).Table("mentors").
		Select("mentors.id AS id, COUNT(courses.id) AS total").
		Joins("LEFT JOIN courses ON courses.mentor_id = mentors.id AND courses.is_deleted = ?", false).
		Where("mentors.is_deleted = ?", false).
		Group("mentors.id").
		Order("total desc, mentors.id asc").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, r.wrap(err, "fetch")
	}
	if len(rows) == 0 {
		return []models.Mentor{}, nil
	}

	ids := make([]uint, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	var mentors []models.Mentor
	if err := r.Active(ctx).Where("mentors.id IN ?", ids).Find(&mentors).Error; err != nil {
		return nil, r.wrap(err, "fetch")
	}
	byID := make(map[uint]models.Mentor, len(mentors))
	for _, m := range mentors {
		byID[m.ID] = m
	}

	out := make([]models.Mentor, 0, len(rows))
	for _, row := range rows {
		m, ok := byID[row.ID]
		if !ok {
			continue
		}
		m.CoursesCount = row.Total
		out = append(out, m)
	}
	return out, nil
}

type StudentRepository struct {
	*Store[models.Student]
}

func NewStudentRepository(db *gorm.DB) *StudentRepository {
	return &StudentRepository{Store: NewStore[models.Student](db, "Student", "User")}
}

func (r *StudentRepository) FindByUserID(ctx context.Context, userID uint) (*models.Student, error) {
	student := &models.Student{}
	if err := r.Active(ctx).Where("user_id = ?", userID).First(student).Error; err != nil {
		return nil, r.wrap(err, "fetch")
	}
	return student, nil
}

func (r *StudentRepository) HasProfile(ctx context.Context, userID uint) (bool, error) {
	var count int64
	if err := r.DB().WithContext(ctx).Model(&models.Student{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return false, r.wrap(err, "fetch")
	}
	return count > 0, nil
}

func (r *StudentRepository) ByLevel(ctx context.Context, level string) ([]models.Student, error) {
	var out []models.Student
	if err := r.Active(ctx).Where("level = ?", level).Order("id asc").Find(&out).Error; err != nil {
		return nil, r.wrap(err, "fetch")
	}
	return out, nil
}

// Top orders students by badge_count.
func (r *StudentRepository) Top(ctx context.Context, limit int) ([]models.Student, error) {
	var out []models.Student
	err := r.Active(ctx).
		Order("badge_count desc, id asc").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, r.wrap(err, "fetch")
	}
	return out, nil
}
