package repositories

import (
	"context"

	"coursehub/models"

	"gorm.io/gorm"
)

type CategoryRepository struct {
	*Store[models.Category]
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{Store: NewStore[models.Category](db, "Category")}
}

func (r *CategoryRepository) WithSubCategories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	err := withPreloads(r.Active(ctx), []string{"SubCategories"}).
		Order("id asc").
		Find(&out).Error
	if err != nil {
		return nil, r.wrap(err, "fetch")
	}
	return out, nil
}

type SubCategoryRepository struct {
	*Store[models.SubCategory]
}

func NewSubCategoryRepository(db *gorm.DB) *SubCategoryRepository {
	return &SubCategoryRepository{Store: NewStore[models.SubCategory](db, "Subcategory", "Category")}
}

func (r *SubCategoryRepository) ByCategory(ctx context.Context, categoryID uint) ([]models.SubCategory, error) {
	var out []models.SubCategory
	if err := r.Active(ctx).Where("category_id = ?", categoryID).Order("id asc").Find(&out).Error; err != nil {
		return nil, r.wrap(err, "fetch")
	}
	return out, nil
}

type TagRepository struct {
	*Store[models.Tag]
}

func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{Store: NewStore[models.Tag](db, "Tag")}
}

func (r *TagRepository) SearchByName(ctx context.Context, name string) ([]models.Tag, error) {
	var out []models.Tag
	if err := r.Active(ctx).Where("name LIKE ?", "%"+name+"%").Order("name asc").Find(&out).Error; err != nil {
		return nil, r.wrap(err, "fetch")
	}
	return out, nil
}

// FindByIDs returns the live tags among ids. Callers compare lengths to detect unknown ids.
func (r *TagRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.Tag, error) {
	out := []models.Tag{}
	if len(ids) == 0 {
		return out, nil
	}
	if err := r.Active(ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, r.wrap(err, "fetch")
	}
	return out, nil
}
