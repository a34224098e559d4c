package superAdminRoutes

import (
	superAdminController "coursehub/controllers/superAdmin"
	"coursehub/middleware"
	"coursehub/models"
	"coursehub/services"
	"coursehub/validators"

	"github.com/gofiber/fiber/v2"
)

func SetupStatisticsRoutes(router fiber.Router, svc *services.Container, auth fiber.Handler) {
	ctl := superAdminController.New(svc.Statistics)
	statsGroup := router.Group("/statistics")

	statsGroup.Get("/dashboard", auth, ctl.Dashboard)
	statsGroup.Get("/enrollments", auth, ctl.Enrollments)
	statsGroup.Get("/revenue", auth, ctl.Revenue)
	statsGroup.Get("/users", auth, middleware.RequireRole(models.RoleAdmin), ctl.Users)
	statsGroup.Get("/badges", auth, middleware.RequireRole(models.RoleAdmin), ctl.Badges)
}

// SetupArchiveRoutes mounts trashed, restore and force-delete under group. It must run before
// the group's own "/:id" routes so that "/trashed" is not taken for an id.
func SetupArchiveRoutes[T any](group fiber.Router, archive *services.ArchiveService[T], auth fiber.Handler, singular, plural string) {
	ctl := superAdminController.NewArchive(archive, singular, plural)
	admin := middleware.RequireRole(models.RoleAdmin)

	group.Get("/trashed", auth, admin, ctl.Trashed)
	group.Post("/:id/restore", auth, admin, validators.ParamID("id"), ctl.Restore)
	group.Delete("/:id/force", auth, admin, validators.ParamID("id"), ctl.Purge)
}
