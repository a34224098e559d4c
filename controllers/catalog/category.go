package catalogController

import (
	"coursehub/middleware"
	"coursehub/services"
	"coursehub/validators"
	catalogValidator "coursehub/validators/catalog"

	"github.com/gofiber/fiber/v2"
)

// Controller serves categories, subcategories and tags.
type Controller struct {
	catalog *services.CatalogService
}

func New(catalog *services.CatalogService) *Controller {
	return &Controller{catalog: catalog}
}

func (ctl *Controller) ListCategories(c *fiber.Ctx) error {
	categories, err := ctl.catalog.ListCategories(c.UserContext())
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "", fiber.Map{"categories": categories})
}

func (ctl *Controller) CategoriesWithSubCategories(c *fiber.Ctx) error {
	categories, err := ctl.catalog.CategoriesWithSubCategories(c.UserContext())
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "", fiber.Map{"categories": categories})
}

func (ctl *Controller) GetCategory(c *fiber.Ctx) error {
	category, err := ctl.catalog.GetCategory(c.UserContext(), validators.ID(c, "id"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "", fiber.Map{"category": category})
}

func (ctl *Controller) CreateCategory(c *fiber.Ctx) error {
	reqData := validators.Validated[catalogValidator.CreateCategoryRequest](c, catalogValidator.CategoryKey)

	category, err := ctl.catalog.CreateCategory(c.UserContext(), middleware.Actor(c), services.CategoryInput{
		Name:        reqData.Name,
		Description: reqData.Description,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, "Category created successfully", fiber.Map{"category": category})
}

func (ctl *Controller) UpdateCategory(c *fiber.Ctx) error {
	reqData := validators.Validated[catalogValidator.UpdateCategoryRequest](c, catalogValidator.CategoryKey)

	category, err := ctl.catalog.UpdateCategory(c.UserContext(), middleware.Actor(c), validators.ID(c, "id"), services.CategoryInput{
		Name:        reqData.Name,
		Description: reqData.Description,
	})
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Category updated successfully", fiber.Map{"category": category})
}

func (ctl *Controller) DeleteCategory(c *fiber.Ctx) error {
	if err := ctl.catalog.DeleteCategory(c.UserContext(), middleware.Actor(c), validators.ID(c, "id")); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Category deleted successfully", nil)
}

func (ctl *Controller) CategorySubCategories(c *fiber.Ctx) error {
	subcategories, err := ctl.catalog.CategorySubCategories(c.UserContext(), validators.ID(c, "id"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "", fiber.Map{"subcategories": subcategories})
}

func (ctl *Controller) CategoryCourses(c *fiber.Ctx) error {
	courses, err := ctl.catalog.CategoryCourses(c.UserContext(), validators.ID(c, "id"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "", fiber.Map{"courses": courses})
}
