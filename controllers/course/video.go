package courseController

import (
	"coursehub/middleware"
	"coursehub/services"
	"coursehub/validators"
	courseValidator "coursehub/validators/course"

	"github.com/gofiber/fiber/v2"
)

func (ctl *Controller) ListVideos(c *fiber.Ctx) error {
	videos, err := ctl.videos.List(c.UserContext())
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "", fiber.Map{"videos": videos})
}

// GetVideo applies the access gate: free previews are open, the rest need an approved
// enrollment, the course mentor or an admin.
func (ctl *Controller) GetVideo(c *fiber.Ctx) error {
	video, err := ctl.videos.Get(c.UserContext(), middleware.Actor(c), validators.ID(c, "id"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "", fiber.Map{"video": video})
}

func (ctl *Controller) CreateVideo(c *fiber.Ctx) error {
	reqData := validators.Validated[courseValidator.CreateVideoRequest](c, courseValidator.VideoKey)

	video, err := ctl.videos.Create(c.UserContext(), middleware.Actor(c), services.VideoInput{
		CourseID:      reqData.CourseID,
		Title:         reqData.Title,
		Description:   reqData.Description,
		URL:           reqData.URL,
		Duration:      reqData.Duration,
		Order:         reqData.Order,
		IsFreePreview: reqData.IsFreePreview,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, "Video created successfully", fiber.Map{"video": video})
}

func (ctl *Controller) UpdateVideo(c *fiber.Ctx) error {
	reqData := validators.Validated[courseValidator.UpdateVideoRequest](c, courseValidator.VideoKey)

	video, err := ctl.videos.Update(c.UserContext(), middleware.Actor(c), validators.ID(c, "id"), services.VideoInput{
		Title:         reqData.Title,
		Description:   reqData.Description,
		URL:           reqData.URL,
		Duration:      reqData.Duration,
		Order:         reqData.Order,
		IsFreePreview: reqData.IsFreePreview,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Video updated successfully", fiber.Map{"video": video})
}

func (ctl *Controller) DeleteVideo(c *fiber.Ctx) error {
	if err := ctl.videos.Delete(c.UserContext(), middleware.Actor(c), validators.ID(c, "id")); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Video deleted successfully", nil)
}

func (ctl *Controller) CourseVideos(c *fiber.Ctx) error {
	videos, err := ctl.videos.ByCourse(c.UserContext(), validators.ID(c, "id"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "", fiber.Map{"videos": videos})
}

func (ctl *Controller) FreePreviews(c *fiber.Ctx) error {
	videos, err := ctl.videos.FreePreviews(c.UserContext(), validators.ID(c, "id"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "", fiber.Map{"videos": videos})
}

func (ctl *Controller) ReorderVideos(c *fiber.Ctx) error {
	reqData := validators.Validated[courseValidator.ReorderRequest](c, courseValidator.ReorderKey)

	videos, err := ctl.videos.Reorder(c.UserContext(), middleware.Actor(c), validators.ID(c, "id"), reqData.Orders)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Videos reordered successfully", fiber.Map{"videos": videos})
}
