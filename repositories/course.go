package repositories

import (
	"context"

	"coursehub/models"

	"gorm.io/gorm"
)

var courseRelations = []string{"Mentor", "Mentor.User", "Category", "SubCategory", "Tags"}

type CourseRepository struct {
	*Store[models.Course]
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{Store: NewStore[models.Course](db, "Course", courseRelations...)}
}

func (r *CourseRepository) WithTx(tx *gorm.DB) *CourseRepository {
	return &CourseRepository{Store: r.Store.WithTx(tx)}
}

// CourseFilter narrows course listings. Zero values are ignored.
type CourseFilter struct {
	CategoryID    uint
	SubCategoryID uint
	MentorID      uint
	TagID         uint
	Difficulty    string
	Status        models.CourseStatus
	IsFree        *bool
	Search        string
}

func (r *CourseRepository) filtered(ctx context.Context, f CourseFilter) *gorm.DB {
	q := r.Query(ctx)
	if f.CategoryID != 0 {
		q = q.Where("courses.category_id = ?", f.CategoryID)
	}
	if f.SubCategoryID != 0 {
		q = q.Where("courses.sub_category_id = ?", f.SubCategoryID)
	}
	if f.MentorID != 0 {
		q = q.Where("courses.mentor_id = ?", f.MentorID)
	}
	if f.Difficulty != "" {
		q = q.Where("courses.difficulty = ?", f.Difficulty)
	}
	if f.Status != "" {
		q = q.Where("courses.status = ?", f.Status)
	}
	if f.IsFree != nil {
		q = q.Where("courses.is_free = ?", *f.IsFree)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("(courses.title LIKE ? OR courses.description LIKE ?)", like, like)
	}
	if f.TagID != 0 {
		sub := r.DB().Table("course_tag").Select("course_id").Where("tag_id = ?", f.TagID)
		q = q.Where("courses.id IN (?)", sub)
	}
	return q
}

func (r *CourseRepository) Filter(ctx context.Context, f CourseFilter, page PageRequest) (*Page[models.Course], error) {
	q := r.filtered(ctx, f).Order("courses.created_at desc, courses.id desc")
	out, err := Paginate[models.Course](q, page, r.Preloads()...)
	if err != nil {
		return nil, r.wrap(err, "fetch")
	}
	return out, nil
}

// List returns every matching course without paging.
func (r *CourseRepository) List(ctx context.Context, f CourseFilter) ([]models.Course, error) {
	var out []models.Course
	q := withPreloads(r.filtered(ctx, f), r.Preloads())
	if err := q.Order("courses.id asc").Find(&out).Error; err != nil {
		return nil, r.wrap(err, "fetch")
	}
	return out, nil
}

// Featured returns the most recently published courses.
func (r *CourseRepository) Featured(ctx context.Context, limit int) ([]models.Course, error) {
	var out []models.Course
	err := withPreloads(r.filtered(ctx, CourseFilter{Status: models.CourseStatusPublished}), r.Preloads()).
		Order("courses.published_at desc, courses.id desc").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, r.wrap(err, "fetch")
	}
	return out, nil
}

func (r *CourseRepository) FindBySlug(ctx context.Context, slug string) (*models.Course, error) {
	course := &models.Course{}
	if err := withPreloads(r.Active(ctx), []string{"Videos"}).Where("courses.slug = ?", slug).First(course).Error; err != nil {
		return nil, r.wrap(err, "fetch")
	}
	return course, nil
}

// SlugTaken checks every row, trashed included, because the unique index covers them all.
func (r *CourseRepository) SlugTaken(ctx context.Context, slug string, exceptID uint) (bool, error) {
	return r.Taken(ctx, "slug", slug, exceptID)
}

func (r *CourseRepository) AttachTags(ctx context.Context, course *models.Course, tags []models.Tag) error {
	if len(tags) == 0 {
		return nil
	}
	err := r.DB().WithContext(ctx).Model(course).Omit("Tags.*").Association("Tags").Append(&tags)
	if err != nil {
		return r.wrap(err, "update")
	}
	return nil
}

func (r *CourseRepository) DetachTags(ctx context.Context, course *models.Course, tags []models.Tag) error {
	if len(tags) == 0 {
		return nil
	}
	if err := r.DB().WithContext(ctx).Model(course).Association("Tags").Delete(&tags); err != nil {
		return r.wrap(err, "update")
	}
	return nil
}

// SyncTags replaces the course's tag set with tags.
func (r *CourseRepository) SyncTags(ctx context.Context, course *models.Course, tags []models.Tag) error {
	db := r.DB().WithContext(ctx).Model(course).Omit("Tags.*")
	var err error
	if len(tags) == 0 {
		err = db.Association("Tags").Clear()
	} else {
		err = db.Association("Tags").Replace(&tags)
	}
	if err != nil {
		return r.wrap(err, "update")
	}
	return nil
}

// ForceDelete drops the pivot rows before the course itself.
func (r *CourseRepository) ForceDelete(ctx context.Context, id uint) error {
	return r.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM course_tag WHERE course_id = ?", id).Error; err != nil {
			return r.wrap(err, "delete")
		}
		return r.Store.WithTx(tx).ForceDelete(ctx, id)
	})
}
