package badgeRoutes

import (
	badgeController "coursehub/controllers/badge"
	"coursehub/services"
	"coursehub/validators"
	badgeValidator "coursehub/validators/badge"

	superAdminRoutes "coursehub/routers/superAdmin"

	"github.com/gofiber/fiber/v2"
)

func SetupBadgeRoutes(router fiber.Router, svc *services.Container, auth fiber.Handler) {
	ctl := badgeController.New(svc.Badges)
	id := validators.ParamID("id")
	badgeGroup := router.Group("/badges")

	superAdminRoutes.SetupArchiveRoutes(badgeGroup, svc.Archives.Badges, auth, "badge", "badges")
	badgeGroup.Get("/", auth, ctl.ListBadges)
	badgeGroup.Get("/type/:type", auth, ctl.ByType)
	badgeGroup.Post("/award-to-student", auth, badgeValidator.StudentAward(), ctl.AwardToStudent)
	badgeGroup.Post("/award-to-mentor", auth, badgeValidator.MentorAward(), ctl.AwardToMentor)
	badgeGroup.Post("/remove-from-student", auth, badgeValidator.StudentAward(), ctl.RemoveFromStudent)
	badgeGroup.Post("/remove-from-mentor", auth, badgeValidator.MentorAward(), ctl.RemoveFromMentor)
	badgeGroup.Get("/:id", auth, id, ctl.GetBadge)
	badgeGroup.Post("/", auth, badgeValidator.CreateBadge(), ctl.CreateBadge)
	badgeGroup.Put("/:id", auth, id, badgeValidator.UpdateBadge(), ctl.UpdateBadge)
	badgeGroup.Delete("/:id", auth, id, ctl.DeleteBadge)
}
