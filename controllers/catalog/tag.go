package catalogController

import (
	"coursehub/middleware"
	"coursehub/validators"
	catalogValidator "coursehub/validators/catalog"

	"github.com/gofiber/fiber/v2"
)

func (ctl *Controller) ListTags(c *fiber.Ctx) error {
	tags, err := ctl.catalog.ListTags(c.UserContext())
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "", fiber.Map{"tags": tags})
}

func (ctl *Controller) SearchTags(c *fiber.Ctx) error {
	reqData := validators.Validated[catalogValidator.TagSearchRequest](c, catalogValidator.TagSearchKey)

	tags, err := ctl.catalog.SearchTags(c.UserContext(), reqData.Name)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "", fiber.Map{"tags": tags})
}

func (ctl *Controller) GetTag(c *fiber.Ctx) error {
	tag, err := ctl.catalog.GetTag(c.UserContext(), validators.ID(c, "id"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "", fiber.Map{"tag": tag})
}

func (ctl *Controller) CreateTag(c *fiber.Ctx) error {
	reqData := validators.Validated[catalogValidator.TagRequest](c, catalogValidator.TagKey)

	tag, err := ctl.catalog.CreateTag(c.UserContext(), middleware.Actor(c), reqData.Name)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, "Tag created successfully", fiber.Map{"tag": tag})
}

func (ctl *Controller) UpdateTag(c *fiber.Ctx) error {
	reqData := validators.Validated[catalogValidator.TagRequest](c, catalogValidator.TagKey)

	tag, err := ctl.catalog.UpdateTag(c.UserContext(), middleware.Actor(c), validators.ID(c, "id"), reqData.Name)
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Tag updated successfully", fiber.Map{"tag": tag})
}

func (ctl *Controller) DeleteTag(c *fiber.Ctx) error {
	if err := ctl.catalog.DeleteTag(c.UserContext(), middleware.Actor(c), validators.ID(c, "id")); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Tag deleted successfully", nil)
}
