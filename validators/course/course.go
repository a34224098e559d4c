package courseValidator

import (
	"coursehub/middleware"
	"coursehub/validators"

	"github.com/gofiber/fiber/v2"
)

const (
	CourseKey       = "validatedCourse"
	CourseListKey   = "validatedCourseList"
	CourseSearchKey = "validatedCourseSearch"
	CourseTagsKey   = "validatedCourseTags"
)

type CreateCourseRequest struct {
	MentorID      *uint    `json:"mentor_id" validate:"omitempty,gt=0"`
	CategoryID    *uint    `json:"category_id" validate:"required,gt=0"`
	SubCategoryID *uint    `json:"sub_category_id" validate:"omitempty,gt=0"`
	Title         *string  `json:"title" validate:"required,max=255"`
	Description   *string  `json:"description"`
	Thumbnail     *string  `json:"thumbnail" validate:"omitempty,max=255"`
	Duration      *int     `json:"duration" validate:"omitempty,min=1"`
	Difficulty    *string  `json:"difficulty" validate:"required,oneof=beginner intermediate advanced"`
	Status        *string  `json:"status" validate:"required,oneof=draft published archived"`
	IsFree        *bool    `json:"is_free" validate:"required"`
	Price         *float64 `json:"price" validate:"omitempty,min=0"`
	DiscountPrice *float64 `json:"discount_price" validate:"omitempty,min=0"`
	TagIDs        []uint   `json:"tag_ids" validate:"omitempty,dive,gt=0"`
}

// UpdateCourseRequest leaves absent fields untouched. A sub_category_id of 0 detaches the
// course from its subcategory; clear_discount drops the discount price.
type UpdateCourseRequest struct {
	MentorID      *uint    `json:"mentor_id" validate:"omitempty,gt=0"`
	CategoryID    *uint    `json:"category_id" validate:"omitempty,gt=0"`
	SubCategoryID *uint    `json:"sub_category_id"`
	Title         *string  `json:"title" validate:"omitempty,max=255"`
	Description   *string  `json:"description"`
	Thumbnail     *string  `json:"thumbnail" validate:"omitempty,max=255"`
	Duration      *int     `json:"duration" validate:"omitempty,min=1"`
	Difficulty    *string  `json:"difficulty" validate:"omitempty,oneof=beginner intermediate advanced"`
	Status        *string  `json:"status" validate:"omitempty,oneof=draft published archived"`
	IsFree        *bool    `json:"is_free"`
	Price         *float64 `json:"price" validate:"omitempty,min=0"`
	DiscountPrice *float64 `json:"discount_price" validate:"omitempty,min=0"`
	ClearDiscount bool     `json:"clear_discount"`
	TagIDs        []uint   `json:"tag_ids" validate:"omitempty,dive,gt=0"`
}

type CourseListRequest struct {
	CategoryID    uint   `query:"category_id"`
	SubCategoryID uint   `query:"sub_category_id"`
	MentorID      uint   `query:"mentor_id"`
	TagID         uint   `query:"tag_id"`
	Difficulty    string `query:"difficulty" validate:"omitempty,oneof=beginner intermediate advanced"`
	Status        string `query:"status" validate:"omitempty,oneof=draft published archived"`
	IsFree        *bool  `query:"is_free"`
	Search        string `query:"search" validate:"omitempty,max=255"`
	Page          int    `query:"page" validate:"omitempty,min=1"`
	PerPage       int    `query:"per_page" validate:"omitempty,min=1,max=100"`
}

type CourseSearchRequest struct {
	Query   string `query:"query" validate:"required,min=3"`
	PerPage int    `query:"per_page" validate:"omitempty,min=1,max=100"`
}

type CourseTagsRequest struct {
	TagIDs []uint `json:"tag_ids" validate:"required,dive,gt=0"`
}

// CreateCourse also requires a price for paid courses.
func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateCourseRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, "Invalid request body!", nil)
		}

		errors := validators.Struct(reqData)
		if errors == nil {
			errors = make(map[string]string)
		}
		if reqData.IsFree != nil && !*reqData.IsFree && reqData.Price == nil {
			errors["price"] = "The price field is required when is free is false."
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals(CourseKey, reqData)
		return c.Next()
	}
}

func UpdateCourse() fiber.Handler {
	return validators.Body[UpdateCourseRequest](CourseKey)
}

func CourseList() fiber.Handler {
	return validators.Query[CourseListRequest](CourseListKey)
}

func SearchCourses() fiber.Handler {
	return validators.Query[CourseSearchRequest](CourseSearchKey)
}

func CourseTags() fiber.Handler {
	return validators.Body[CourseTagsRequest](CourseTagsKey)
}
