package catalogRoutes

import (
	catalogController "coursehub/controllers/catalog"
	"coursehub/services"
	"coursehub/validators"
	catalogValidator "coursehub/validators/catalog"

	superAdminRoutes "coursehub/routers/superAdmin"

	"github.com/gofiber/fiber/v2"
)

func SetupCatalogRoutes(router fiber.Router, svc *services.Container, auth fiber.Handler) {
	ctl := catalogController.New(svc.Catalog)
	id := validators.ParamID("id")

	// Categories
	categoryGroup := router.Group("/categories")
	superAdminRoutes.SetupArchiveRoutes(categoryGroup, svc.Archives.Categories, auth, "category", "categories")
	categoryGroup.Get("/", ctl.ListCategories)
	categoryGroup.Get("/with-subcategories", ctl.CategoriesWithSubCategories)
	categoryGroup.Get("/:id", id, ctl.GetCategory)
	categoryGroup.Post("/", auth, catalogValidator.CreateCategory(), ctl.CreateCategory)
	categoryGroup.Put("/:id", auth, id, catalogValidator.UpdateCategory(), ctl.UpdateCategory)
	categoryGroup.Delete("/:id", auth, id, ctl.DeleteCategory)
	categoryGroup.Get("/:id/subcategories", auth, id, ctl.CategorySubCategories)
	categoryGroup.Get("/:id/courses", auth, id, ctl.CategoryCourses)

	// Subcategories
	subCategoryGroup := router.Group("/subcategories")
	superAdminRoutes.SetupArchiveRoutes(subCategoryGroup, svc.Archives.SubCategories, auth, "subcategory", "subcategories")
	subCategoryGroup.Get("/", ctl.ListSubCategories)
	subCategoryGroup.Get("/:id", auth, id, ctl.GetSubCategory)
	subCategoryGroup.Post("/", auth, catalogValidator.CreateSubCategory(), ctl.CreateSubCategory)
	subCategoryGroup.Put("/:id", auth, id, catalogValidator.UpdateSubCategory(), ctl.UpdateSubCategory)
	subCategoryGroup.Delete("/:id", auth, id, ctl.DeleteSubCategory)
	subCategoryGroup.Get("/:id/courses", auth, id, ctl.SubCategoryCourses)

	// Tags
	tagGroup := router.Group("/tags")
	superAdminRoutes.SetupArchiveRoutes(tagGroup, svc.Archives.Tags, auth, "tag", "tags")
	tagGroup.Get("/", ctl.ListTags)
	tagGroup.Get("/search", auth, catalogValidator.SearchTags(), ctl.SearchTags)
	tagGroup.Get("/:id", auth, id, ctl.GetTag)
	tagGroup.Post("/", auth, catalogValidator.Tag(), ctl.CreateTag)
	tagGroup.Put("/:id", auth, id, catalogValidator.Tag(), ctl.UpdateTag)
	tagGroup.Delete("/:id", auth, id, ctl.DeleteTag)
}
