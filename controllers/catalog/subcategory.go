package catalogController

import (
	"coursehub/middleware"
	"coursehub/services"
	"coursehub/validators"
	catalogValidator "coursehub/validators/catalog"

	"github.com/gofiber/fiber/v2"
)

func (ctl *Controller) ListSubCategories(c *fiber.Ctx) error {
	subcategories, err := ctl.catalog.ListSubCategories(c.UserContext())
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "", fiber.Map{"subcategories": subcategories})
}

func (ctl *Controller) GetSubCategory(c *fiber.Ctx) error {
	subcategory, err := ctl.catalog.GetSubCategory(c.UserContext(), validators.ID(c, "id"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "", fiber.Map{"subcategory": subcategory})
}

func (ctl *Controller) CreateSubCategory(c *fiber.Ctx) error {
	reqData := validators.Validated[catalogValidator.CreateSubCategoryRequest](c, catalogValidator.SubCategoryKey)

	subcategory, err := ctl.catalog.CreateSubCategory(c.UserContext(), middleware.Actor(c), services.SubCategoryInput{
		CategoryID:  reqData.CategoryID,
		Name:        reqData.Name,
		Description: reqData.Description,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, "SubCategory created successfully", fiber.Map{"subcategory": subcategory})
}

func (ctl *Controller) UpdateSubCategory(c *fiber.Ctx) error {
	reqData := validators.Validated[catalogValidator.UpdateSubCategoryRequest](c, catalogValidator.SubCategoryKey)

	subcategory, err := ctl.catalog.UpdateSubCategory(c.UserContext(), middleware.Actor(c), validators.ID(c, "id"), services.SubCategoryInput{
		CategoryID:  reqData.CategoryID,
		Name:        reqData.Name,
		Description: reqData.Description,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "SubCategory updated successfully", fiber.Map{"subcategory": subcategory})
}

func (ctl *Controller) DeleteSubCategory(c *fiber.Ctx) error {
	if err := ctl.catalog.DeleteSubCategory(c.UserContext(), middleware.Actor(c), validators.ID(c, "id")); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "SubCategory deleted successfully", nil)
}

func (ctl *Controller) SubCategoryCourses(c *fiber.Ctx) error {
	courses, err := ctl.catalog.SubCategoryCourses(c.UserContext(), validators.ID(c, "id"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "", fiber.Map{"courses": courses})
}
