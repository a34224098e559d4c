package courseController

import (
	"coursehub/middleware"
	"coursehub/models"
	"coursehub/repositories"
	"coursehub/services"
	"coursehub/validators"
	courseValidator "coursehub/validators/course"

	"github.com/gofiber/fiber/v2"
)

// Controller serves courses, their videos and enrollments.
type Controller struct {
	courses     *services.CourseService
	videos      *services.VideoService
	enrollments *services.EnrollmentService
}

func New(courses *services.CourseService, videos *services.VideoService, enrollments *services.EnrollmentService) *Controller {
	return &Controller{courses: courses, videos: videos, enrollments: enrollments}
}

func (ctl *Controller) ListCourses(c *fiber.Ctx) error {
	reqData := validators.Validated[courseValidator.CourseListRequest](c, courseValidator.CourseListKey)

	page, err := ctl.courses.Filter(c.UserContext(), repositories.CourseFilter{
		CategoryID:    reqData.CategoryID,
		SubCategoryID: reqData.SubCategoryID,
		MentorID:      reqData.MentorID,
		TagID:         reqData.TagID,
		Difficulty:    reqData.Difficulty,
		Status:        models.CourseStatus(reqData.Status),
		IsFree:        reqData.IsFree,
		Search:        reqData.Search,
	}, repositories.PageRequest{Page: reqData.Page, PerPage: reqData.PerPage})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "", fiber.Map{"courses": page})
}

func (ctl *Controller) Featured(c *fiber.Ctx) error {
	courses, err := ctl.courses.Featured(c.UserContext())
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "", fiber.Map{"courses": courses})
}

func (ctl *Controller) Search(c *fiber.Ctx) error {
	reqData := validators.Validated[courseValidator.CourseSearchRequest](c, courseValidator.CourseSearchKey)

	page, err := ctl.courses.Search(c.UserContext(), reqData.Query, reqData.PerPage)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "", fiber.Map{"courses": page})
}

func (ctl *Controller) Free(c *fiber.Ctx) error {
	courses, err := ctl.courses.Free(c.UserContext())
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "", fiber.Map{"courses": courses})
}

func (ctl *Controller) ByDifficulty(c *fiber.Ctx) error {
	courses, err := ctl.courses.ByDifficulty(c.UserContext(), c.Params("difficulty"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "", fiber.Map{"courses": courses})
}

func (ctl *Controller) ByStatus(c *fiber.Ctx) error {
	courses, err := ctl.courses.ByStatus(c.UserContext(), models.CourseStatus(c.Params("status")))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "", fiber.Map{"courses": courses})
}

func (ctl *Controller) BySlug(c *fiber.Ctx) error {
	course, err := ctl.courses.BySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "", fiber.Map{"course": course})
}

func (ctl *Controller) ByMentor(c *fiber.Ctx) error {
	courses, err := ctl.courses.ByMentor(c.UserContext(), validators.ID(c, "id"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "", fiber.Map{"courses": courses})
}

func (ctl *Controller) GetCourse(c *fiber.Ctx) error {
	course, err := ctl.courses.Get(c.UserContext(), validators.ID(c, "id"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "", fiber.Map{"course": course})
}

func (ctl *Controller) CreateCourse(c *fiber.Ctx) error {
	reqData := validators.Validated[courseValidator.CreateCourseRequest](c, courseValidator.CourseKey)

	course, err := ctl.courses.Create(c.UserContext(), middleware.Actor(c), services.CourseInput{
		MentorID:      reqData.MentorID,
		CategoryID:    reqData.CategoryID,
		SubCategoryID: reqData.SubCategoryID,
		Title:         reqData.Title,
		Description:   reqData.Description,
		Thumbnail:     reqData.Thumbnail,
		Duration:      reqData.Duration,
		Difficulty:    reqData.Difficulty,
		Status:        courseStatus(reqData.Status),
		IsFree:        reqData.IsFree,
		Price:         reqData.Price,
		DiscountPrice: reqData.DiscountPrice,
		TagIDs:        reqData.TagIDs,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, "Course created successfully", fiber.Map{"course": course})
}

func (ctl *Controller) UpdateCourse(c *fiber.Ctx) error {
	reqData := validators.Validated[courseValidator.UpdateCourseRequest](c, courseValidator.CourseKey)

	course, err := ctl.courses.Update(c.UserContext(), middleware.Actor(c), validators.ID(c, "id"), services.CourseInput{
		MentorID:      reqData.MentorID,
		CategoryID:    reqData.CategoryID,
		SubCategoryID: reqData.SubCategoryID,
		Title:         reqData.Title,
		Description:   reqData.Description,
		Thumbnail:     reqData.Thumbnail,
		Duration:      reqData.Duration,
		Difficulty:    reqData.Difficulty,
		Status:        courseStatus(reqData.Status),
		IsFree:        reqData.IsFree,
		Price:         reqData.Price,
		DiscountPrice: reqData.DiscountPrice,
		ClearDiscount: reqData.ClearDiscount,
		TagIDs:        reqData.TagIDs,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Course updated successfully", fiber.Map{"course": course})
}

func (ctl *Controller) DeleteCourse(c *fiber.Ctx) error {
	if err := ctl.courses.Delete(c.UserContext(), middleware.Actor(c), validators.ID(c, "id")); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Course deleted successfully", nil)
}

func (ctl *Controller) AttachTags(c *fiber.Ctx) error {
	return ctl.changeTags(c, services.TagAttach, "Tags attached successfully")
}

func (ctl *Controller) DetachTags(c *fiber.Ctx) error {
	return ctl.changeTags(c, services.TagDetach, "Tags detached successfully")
}

func (ctl *Controller) SyncTags(c *fiber.Ctx) error {
	return ctl.changeTags(c, services.TagSync, "Tags synced successfully")
}

func (ctl *Controller) changeTags(c *fiber.Ctx, op services.TagOp, message string) error {
	reqData := validators.Validated[courseValidator.CourseTagsRequest](c, courseValidator.CourseTagsKey)

	course, err := ctl.courses.ChangeTags(c.UserContext(), middleware.Actor(c), validators.ID(c, "id"), op, reqData.TagIDs)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, message, fiber.Map{"course": course})
}

func courseStatus(s *string) *models.CourseStatus {
	if s == nil {
		return nil
	}
	status := models.CourseStatus(*s)
	return &status
}
