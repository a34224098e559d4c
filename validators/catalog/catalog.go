package catalogValidator

import (
	"coursehub/validators"

	"github.com/gofiber/fiber/v2"
)

const (
	CategoryKey    = "validatedCategory"
	SubCategoryKey = "validatedSubCategory"
	TagKey         = "validatedTag"
	TagSearchKey   = "validatedTagSearch"
)

type CreateCategoryRequest struct {
	Name        *string `json:"name" validate:"required,max=255"`
	Description *string `json:"description"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=255"`
	Description *string `json:"description"`
}

type CreateSubCategoryRequest struct {
	CategoryID  *uint   `json:"category_id" validate:"required,gt=0"`
	Name        *string `json:"name" validate:"required,max=255"`
	Description *string `json:"description"`
}

type UpdateSubCategoryRequest struct {
	CategoryID  *uint   `json:"category_id" validate:"omitempty,gt=0"`
	Name        *string `json:"name" validate:"omitempty,max=255"`
	Description *string `json:"description"`
}

// TagRequest is used for both create and update; a tag has nothing but its name.
type TagRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

type TagSearchRequest struct {
	Name string `query:"name" validate:"required,min=2"`
}

func CreateCategory() fiber.Handler {
	return validators.Body[CreateCategoryRequest](CategoryKey)
}

func UpdateCategory() fiber.Handler {
	return validators.Body[UpdateCategoryRequest](CategoryKey)
}

func CreateSubCategory() fiber.Handler {
	return validators.Body[CreateSubCategoryRequest](SubCategoryKey)
}

func UpdateSubCategory() fiber.Handler {
	return validators.Body[UpdateSubCategoryRequest](SubCategoryKey)
}

func Tag() fiber.Handler {
	return validators.Body[TagRequest](TagKey)
}

func SearchTags() fiber.Handler {
	return validators.Query[TagSearchRequest](TagSearchKey)
}
