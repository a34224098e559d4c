package services

import (
	"context"
	"strings"
	"time"

	"coursehub/apperr"
	"coursehub/logger"
	"coursehub/models"
	"coursehub/policy"
	"coursehub/repositories"

	"gorm.io/gorm"
)

const (
	featuredCoursesLimit = 6
	minCourseQueryLength = 3
)

type CourseService struct {
	courses       *repositories.CourseRepository
	mentors       *repositories.MentorRepository
	categories    *repositories.CategoryRepository
	subcategories *repositories.SubCategoryRepository
	tags          *repositories.TagRepository
	log           *logger.Logger
	now           func() time.Time
}

func NewCourseService(
	courses *repositories.CourseRepository,
	mentors *repositories.MentorRepository,
	categories *repositories.CategoryRepository,
	subcategories *repositories.SubCategoryRepository,
	tags *repositories.TagRepository,
	log *logger.Logger,
) *CourseService {
	return &CourseService{
		courses:       courses,
		mentors:       mentors,
		categories:    categories,
		subcategories: subcategories,
		tags:          tags,
		log:           log.With("service", "CourseService"),
		now:           time.Now,
	}
}

// CourseInput carries course fields. Nil fields keep their stored value on update.
// ClearDiscount removes an existing discount price.
type CourseInput struct {
	MentorID      *uint
	CategoryID    *uint
	SubCategoryID *uint
	Title         *string
	Description   *string
	Thumbnail     *string
	Duration      *int
	Difficulty    *string
	Status        *models.CourseStatus
	IsFree        *bool
	Price         *float64
	DiscountPrice *float64
	ClearDiscount bool
	TagIDs        []uint
}

func (s *CourseService) Create(ctx context.Context, actor policy.Actor, in CourseInput) (*models.Course, error) {
	if err := actor.Authorize(policy.CourseCreate, policy.Resource{}); err != nil {
		return nil, err
	}

	course := &models.Course{Status: models.CourseStatusDraft}
	switch {
	case actor.IsAdmin():
		if in.MentorID == nil {
			return nil, apperr.Field("mentor_id", "The mentor id field is required.")
		}
		if err := s.requireMentor(ctx, *in.MentorID); err != nil {
			return nil, err
		}
		course.MentorID = *in.MentorID
	default:
		course.MentorID = actor.MentorID
	}
	if in.CategoryID == nil {
		return nil, apperr.Field("category_id", "The category id field is required.")
	}

	if err := s.apply(ctx, course, in, ""); err != nil {
		return nil, err
	}
	tags, err := s.resolveTags(ctx, in.TagIDs)
	if err != nil {
		return nil, err
	}

	err = s.courses.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.courses.WithTx(tx)
		if err := repo.Create(ctx, course); err != nil {
			return err
		}
		return repo.AttachTags(ctx, course, tags)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("course created", "course_id", course.ID, "mentor_id", course.MentorID, "slug", course.Slug)
	return s.courses.FindByID(ctx, course.ID)
}

func (s *CourseService) Update(ctx context.Context, actor policy.Actor, id uint, in CourseInput) (*models.Course, error) {
	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := actor.Authorize(policy.CourseManage, policy.Resource{MentorID: course.MentorID}); err != nil {
		return nil, err
	}
	if in.MentorID != nil && *in.MentorID != course.MentorID {
		if !actor.IsAdmin() {
			return nil, apperr.Forbidden("Only admins can reassign a course")
		}
		if err := s.requireMentor(ctx, *in.MentorID); err != nil {
			return nil, err
		}
		course.MentorID = *in.MentorID
	}

	if err := s.apply(ctx, course, in, course.Status); err != nil {
		return nil, err
	}
	course.Mentor, course.Category, course.SubCategory, course.Tags = nil, nil, nil, nil

	if in.TagIDs != nil {
		tags, err := s.resolveTags(ctx, in.TagIDs)
		if err != nil {
			return nil, err
		}
		err = s.courses.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			repo := s.courses.WithTx(tx)
			if err := repo.Save(ctx, course); err != nil {
				return err
			}
			return repo.SyncTags(ctx, course, tags)
		})
		if err != nil {
			return nil, err
		}
	} else if err := s.courses.Save(ctx, course); err != nil {
		return nil, err
	}
	return s.courses.FindByID(ctx, id)
}

// apply merges in onto course and enforces the cross-field rules. prev is the status the
// course had before the change, empty for a new course.
func (s *CourseService) apply(ctx context.Context, course *models.Course, in CourseInput, prev models.CourseStatus) error {
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title != course.Title {
			slug, err := uniqueSlug(ctx, title, func(ctx context.Context, candidate string) (bool, error) {
				return s.courses.SlugTaken(ctx, candidate, course.ID)
			})
			if err != nil {
				return err
			}
			course.Title, course.Slug = title, slug
		}
	}
	if course.Title == "" {
		return apperr.Field("title", "The title field is required.")
	}

	if in.CategoryID != nil && *in.CategoryID != course.CategoryID {
		ok, err := s.categories.Exists(ctx, *in.CategoryID)
		if err != nil {
			return err
		}
		if !ok {
			return apperr.Field("category_id", "The selected category id is invalid.")
		}
		course.CategoryID = *in.CategoryID
	}
	if in.SubCategoryID != nil {
		if *in.SubCategoryID == 0 {
			course.SubCategoryID = nil
		} else {
			id := *in.SubCategoryID
			course.SubCategoryID = &id
		}
	}
	if course.SubCategoryID != nil {
		sub, err := s.subcategories.FindByID(ctx, *course.SubCategoryID, "Category")
		if apperr.Is(err, apperr.KindNotFound) {
			return apperr.Field("sub_category_id", "The selected sub category id is invalid.")
		}
		if err != nil {
			return err
		}
		if sub.CategoryID != course.CategoryID {
			return apperr.Field("sub_category_id", "The sub category does not belong to the selected category.")
		}
	}

	if in.Description != nil {
		course.Description = *in.Description
	}
	if in.Thumbnail != nil {
		course.Thumbnail = *in.Thumbnail
	}
	if in.Duration != nil {
		course.Duration = *in.Duration
	}
	if in.Difficulty != nil {
		course.Difficulty = *in.Difficulty
	}
	if in.IsFree != nil {
		course.IsFree = *in.IsFree
	}
	if in.Price != nil {
		course.Price = *in.Price
	}
	if in.ClearDiscount {
		course.DiscountPrice = nil
	} else if in.DiscountPrice != nil {
		discount := *in.DiscountPrice
		course.DiscountPrice = &discount
	}
	if course.DiscountPrice != nil && *course.DiscountPrice >= course.Price {
		return apperr.Field("discount_price", "The discount price must be less than price.")
	}

	if in.Status != nil {
		if !in.Status.Valid() {
			return apperr.Field("status", "The selected status is invalid.")
		}
		course.Status = *in.Status
	}
	if course.Status == models.CourseStatusPublished && prev != models.CourseStatusPublished {
		now := s.now()
		course.PublishedAt = &now
	}
	return nil
}

func (s *CourseService) Delete(ctx context.Context, actor policy.Actor, id uint) error {
	course, err := s.courses.FindByID(ctx, id, "Mentor")
	if err != nil {
		return err
	}
	if err := actor.Authorize(policy.CourseManage, policy.Resource{MentorID: course.MentorID}); err != nil {
		return err
	}
	if err := s.courses.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("course deleted", "course_id", id, "by", actor.UserID)
	return nil
}

type TagOp int

const (
	TagAttach TagOp = iota
	TagDetach
	TagSync
)

// ChangeTags attaches, detaches or replaces the course's tags.
func (s *CourseService) ChangeTags(ctx context.Context, actor policy.Actor, id uint, op TagOp, tagIDs []uint) (*models.Course, error) {
	course, err := s.courses.FindByID(ctx, id, "Mentor")
	if err != nil {
		return nil, err
	}
	if err := actor.Authorize(policy.CourseManage, policy.Resource{MentorID: course.MentorID}); err != nil {
		return nil, err
	}
	tags, err := s.resolveTags(ctx, tagIDs)
	if err != nil {
		return nil, err
	}
	course.Mentor = nil

	switch op {
	case TagAttach:
		err = s.courses.AttachTags(ctx, course, tags)
	case TagDetach:
		err = s.courses.DetachTags(ctx, course, tags)
	default:
		err = s.courses.SyncTags(ctx, course, tags)
	}
	if err != nil {
		return nil, err
	}
	return s.courses.FindByID(ctx, id)
}

func (s *CourseService) Get(ctx context.Context, id uint) (*models.Course, error) {
	return s.courses.FindByID(ctx, id, "Mentor", "Mentor.User", "Category", "SubCategory", "Tags", "Videos")
}

func (s *CourseService) BySlug(ctx context.Context, slug string) (*models.Course, error) {
	return s.courses.FindBySlug(ctx, slug)
}

func (s *CourseService) Filter(ctx context.Context, f repositories.CourseFilter, page repositories.PageRequest) (*repositories.Page[models.Course], error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, apperr.Field("status", "The selected status is invalid.")
	}
	return s.courses.Filter(ctx, f, page)
}

func (s *CourseService) Search(ctx context.Context, query string, perPage int) (*repositories.Page[models.Course], error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < minCourseQueryLength {
		return nil, apperr.Field("query", "The query must be at least 3 characters.")
	}
	return s.courses.Filter(ctx, repositories.CourseFilter{Search: query}, repositories.PageRequest{Page: 1, PerPage: perPage})
}

func (s *CourseService) Featured(ctx context.Context) ([]models.Course, error) {
	return s.courses.Featured(ctx, featuredCoursesLimit)
}

func (s *CourseService) Free(ctx context.Context) ([]models.Course, error) {
	free := true
	return s.courses.List(ctx, repositories.CourseFilter{IsFree: &free})
}

func (s *CourseService) ByDifficulty(ctx context.Context, difficulty string) ([]models.Course, error) {
	return s.courses.List(ctx, repositories.CourseFilter{Difficulty: difficulty})
}

func (s *CourseService) ByStatus(ctx context.Context, status models.CourseStatus) ([]models.Course, error) {
	if !status.Valid() {
		return nil, apperr.Field("status", "The selected status is invalid.")
	}
	return s.courses.List(ctx, repositories.CourseFilter{Status: status})
}

func (s *CourseService) ByMentor(ctx context.Context, mentorID uint) ([]models.Course, error) {
	if _, err := s.mentors.FindByID(ctx, mentorID); err != nil {
		return nil, err
	}
	return s.courses.List(ctx, repositories.CourseFilter{MentorID: mentorID})
}

func (s *CourseService) requireMentor(ctx context.Context, id uint) error {
	ok, err := s.mentors.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperr.Field("mentor_id", "The selected mentor id is invalid.")
	}
	return nil
}

func (s *CourseService) resolveTags(ctx context.Context, ids []uint) ([]models.Tag, error) {
	ids = uniqueIDs(ids)
	tags, err := s.tags.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(tags) != len(ids) {
		return nil, apperr.Field("tags", "One or more selected tags are invalid.")
	}
	return tags, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
