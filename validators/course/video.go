package courseValidator

import (
	"strconv"

	"coursehub/middleware"
	"coursehub/validators"

	"github.com/gofiber/fiber/v2"
)

const (
	VideoKey   = "validatedVideo"
	ReorderKey = "validatedReorder"
)

type CreateVideoRequest struct {
	CourseID      *uint   `json:"course_id" validate:"required,gt=0"`
	Title         *string `json:"title" validate:"required,max=255"`
	Description   *string `json:"description"`
	URL           *string `json:"url" validate:"required,max=255"`
	Duration      *int    `json:"duration" validate:"omitempty,min=1"`
	Order         *int    `json:"order" validate:"omitempty,min=0"`
	IsFreePreview *bool   `json:"is_free_preview"`
}

type UpdateVideoRequest struct {
	Title         *string `json:"title" validate:"omitempty,max=255"`
	Description   *string `json:"description"`
	URL           *string `json:"url" validate:"omitempty,max=255"`
	Duration      *int    `json:"duration" validate:"omitempty,min=1"`
	Order         *int    `json:"order" validate:"omitempty,min=0"`
	IsFreePreview *bool   `json:"is_free_preview"`
}

// ReorderRequest is the parsed form of {"orders": {"<videoId>": position}}.
type ReorderRequest struct {
	Orders map[uint]int
}

func CreateVideo() fiber.Handler {
	return validators.Body[CreateVideoRequest](VideoKey)
}

func UpdateVideo() fiber.Handler {
	return validators.Body[UpdateVideoRequest](VideoKey)
}

// ReorderVideos checks that every key is a video id and every position is non-negative.
func ReorderVideos() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Orders map[string]int `json:"orders"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		orders := make(map[uint]int, len(reqData.Orders))
		if len(reqData.Orders) == 0 {
			errors["orders"] = "The orders field is required."
		}
		for key, position := range reqData.Orders {
			id, err := strconv.ParseUint(key, 10, 64)
			if err != nil || id == 0 {
				errors["orders."+key] = "The video id must be a positive integer."
				continue
			}
			if position < 0 {
				errors["orders."+key] = "The order must be at least 0."
				continue
			}
			orders[uint(id)] = position
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals(ReorderKey, &ReorderRequest{Orders: orders})
		return c.Next()
	}
}
