package services

import (
	"context"
	"strings"

	"coursehub/apperr"
	"coursehub/logger"
	"coursehub/models"
	"coursehub/policy"
	"coursehub/repositories"
)

// CatalogService owns categories, subcategories and tags. Reads are public, writes are admin only.
type CatalogService struct {
	categories    *repositories.CategoryRepository
	subcategories *repositories.SubCategoryRepository
	tags          *repositories.TagRepository
	courses       *repositories.CourseRepository
	log           *logger.Logger
}

func NewCatalogService(
	categories *repositories.CategoryRepository,
	subcategories *repositories.SubCategoryRepository,
	tags *repositories.TagRepository,
	courses *repositories.CourseRepository,
	log *logger.Logger,
) *CatalogService {
	return &CatalogService{
		categories:    categories,
		subcategories: subcategories,
		tags:          tags,
		courses:       courses,
		log:           log.With("service", "CatalogService"),
	}
}

type CategoryInput struct {
	Name        *string
	Description *string
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categories.All(ctx)
}

func (s *CatalogService) CategoriesWithSubCategories(ctx context.Context) ([]models.Category, error) {
	return s.categories.WithSubCategories(ctx)
}

func (s *CatalogService) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	return s.categories.FindByID(ctx, id, "SubCategories")
}

func (s *CatalogService) CreateCategory(ctx context.Context, actor policy.Actor, in CategoryInput) (*models.Category, error) {
	if err := actor.Authorize(policy.CatalogManage, policy.Resource{}); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(deref(in.Name))
	slug, err := uniqueSlug(ctx, name, s.takenBy(s.categories.Taken, 0))
	if err != nil {
		return nil, err
	}
	category := &models.Category{Name: name, Slug: slug, Description: deref(in.Description)}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	s.log.Info("category created", "category_id", category.ID, "slug", slug)
	return category, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, actor policy.Actor, id uint, in CategoryInput) (*models.Category, error) {
	if err := actor.Authorize(policy.CatalogManage, policy.Resource{}); err != nil {
		return nil, err
	}
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) != category.Name {
		category.Name = strings.TrimSpace(*in.Name)
		if category.Slug, err = uniqueSlug(ctx, category.Name, s.takenBy(s.categories.Taken, id)); err != nil {
			return nil, err
		}
	}
	if in.Description != nil {
		category.Description = *in.Description
	}
	if err := s.categories.Save(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CatalogService) DeleteCategory(ctx context.Context, actor policy.Actor, id uint) error {
	if err := actor.Authorize(policy.CatalogManage, policy.Resource{}); err != nil {
		return err
	}
	return s.categories.Delete(ctx, id)
}

func (s *CatalogService) CategorySubCategories(ctx context.Context, categoryID uint) ([]models.SubCategory, error) {
	if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
		return nil, err
	}
	return s.subcategories.ByCategory(ctx, categoryID)
}

func (s *CatalogService) CategoryCourses(ctx context.Context, categoryID uint) ([]models.Course, error) {
	if _, err := s.categories.FindByID(ctx, categoryID); err != nil {
		return nil, err
	}
	return s.courses.List(ctx, repositories.CourseFilter{CategoryID: categoryID})
}

type SubCategoryInput struct {
	CategoryID  *uint
	Name        *string
	Description *string
}

func (s *CatalogService) ListSubCategories(ctx context.Context) ([]models.SubCategory, error) {
	return s.subcategories.All(ctx)
}

func (s *CatalogService) GetSubCategory(ctx context.Context, id uint) (*models.SubCategory, error) {
	return s.subcategories.FindByID(ctx, id)
}

func (s *CatalogService) CreateSubCategory(ctx context.Context, actor policy.Actor, in SubCategoryInput) (*models.SubCategory, error) {
	if err := actor.Authorize(policy.CatalogManage, policy.Resource{}); err != nil {
		return nil, err
	}
	if in.CategoryID == nil {
		return nil, apperr.Field("category_id", "The category id field is required.")
	}
	if err := s.requireCategory(ctx, *in.CategoryID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(deref(in.Name))
	slug, err := uniqueSlug(ctx, name, s.takenBy(s.subcategories.Taken, 0))
	if err != nil {
		return nil, err
	}
	sub := &models.SubCategory{CategoryID: *in.CategoryID, Name: name, Slug: slug, Description: deref(in.Description)}
	if err := s.subcategories.Create(ctx, sub); err != nil {
		return nil, err
	}
	return s.subcategories.FindByID(ctx, sub.ID)
}

func (s *CatalogService) UpdateSubCategory(ctx context.Context, actor policy.Actor, id uint, in SubCategoryInput) (*models.SubCategory, error) {
	if err := actor.Authorize(policy.CatalogManage, policy.Resource{}); err != nil {
		return nil, err
	}
	sub, err := s.subcategories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.CategoryID != nil && *in.CategoryID != sub.CategoryID {
		if err := s.requireCategory(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
		sub.CategoryID = *in.CategoryID
		sub.Category = nil
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) != sub.Name {
		sub.Name = strings.TrimSpace(*in.Name)
		if sub.Slug, err = uniqueSlug(ctx, sub.Name, s.takenBy(s.subcategories.Taken, id)); err != nil {
			return nil, err
		}
	}
	if in.Description != nil {
		sub.Description = *in.Description
	}
	if err := s.subcategories.Save(ctx, sub); err != nil {
		return nil, err
	}
	return s.subcategories.FindByID(ctx, id)
}

func (s *CatalogService) DeleteSubCategory(ctx context.Context, actor policy.Actor, id uint) error {
	if err := actor.Authorize(policy.CatalogManage, policy.Resource{}); err != nil {
		return err
	}
	return s.subcategories.Delete(ctx, id)
}

func (s *CatalogService) SubCategoryCourses(ctx context.Context, subCategoryID uint) ([]models.Course, error) {
	if _, err := s.subcategories.FindByID(ctx, subCategoryID); err != nil {
		return nil, err
	}
	return s.courses.List(ctx, repositories.CourseFilter{SubCategoryID: subCategoryID})
}

func (s *CatalogService) ListTags(ctx context.Context) ([]models.Tag, error) {
	return s.tags.All(ctx)
}

func (s *CatalogService) GetTag(ctx context.Context, id uint) (*models.Tag, error) {
	return s.tags.FindByID(ctx, id)
}

func (s *CatalogService) SearchTags(ctx context.Context, name string) ([]models.Tag, error) {
	name = strings.TrimSpace(name)
	if len([]rune(name)) < 2 {
		return nil, apperr.Field("name", "The name must be at least 2 characters.")
	}
	return s.tags.SearchByName(ctx, name)
}

func (s *CatalogService) CreateTag(ctx context.Context, actor policy.Actor, name string) (*models.Tag, error) {
	if err := actor.Authorize(policy.CatalogManage, policy.Resource{}); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	slug, err := uniqueSlug(ctx, name, s.takenBy(s.tags.Taken, 0))
	if err != nil {
		return nil, err
	}
	tag := &models.Tag{Name: name, Slug: slug}
	if err := s.tags.Create(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *CatalogService) UpdateTag(ctx context.Context, actor policy.Actor, id uint, name string) (*models.Tag, error) {
	if err := actor.Authorize(policy.CatalogManage, policy.Resource{}); err != nil {
		return nil, err
	}
	tag, err := s.tags.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name != "" && name != tag.Name {
		tag.Name = name
		if tag.Slug, err = uniqueSlug(ctx, name, s.takenBy(s.tags.Taken, id)); err != nil {
			return nil, err
		}
		if err := s.tags.Save(ctx, tag); err != nil {
			return nil, err
		}
	}
	return tag, nil
}

func (s *CatalogService) DeleteTag(ctx context.Context, actor policy.Actor, id uint) error {
	if err := actor.Authorize(policy.CatalogManage, policy.Resource{}); err != nil {
		return err
	}
	return s.tags.Delete(ctx, id)
}

func (s *CatalogService) requireCategory(ctx context.Context, id uint) error {
	ok, err := s.categories.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Field("category_id", "The selected category id is invalid.")
	}
	return nil
}

func (s *CatalogService) takenBy(taken func(context.Context, string, string, uint) (bool, error), exceptID uint) slugChecker {
	return func(ctx context.Context, candidate string) (bool, error) {
		return taken(ctx, "slug", candidate, exceptID)
	}
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
