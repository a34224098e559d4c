package userProfileRoutes

import (
	userController "coursehub/controllers/userControllers"
	"coursehub/services"
	"coursehub/validators"
	userValidator "coursehub/validators/userValidator"

	superAdminRoutes "coursehub/routers/superAdmin"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(router fiber.Router, svc *services.Container, auth fiber.Handler) {
	ctl := userController.New(svc.Profiles)
	id := validators.ParamID("id")

	mentorGroup := router.Group("/mentors")
	superAdminRoutes.SetupArchiveRoutes(mentorGroup, svc.Archives.Mentors, auth, "mentor", "mentors")
	mentorGroup.Get("/", auth, ctl.ListMentors)
	mentorGroup.Get("/top", auth, ctl.TopMentors)
	mentorGroup.Get("/speciality", auth, userValidator.MentorsBySpeciality(), ctl.MentorsBySpeciality)
	mentorGroup.Get("/:id", auth, id, ctl.GetMentor)
	mentorGroup.Post("/", auth, userValidator.CreateMentor(), ctl.CreateMentor)
	mentorGroup.Put("/:id", auth, id, userValidator.UpdateMentor(), ctl.UpdateMentor)
	mentorGroup.Delete("/:id", auth, id, ctl.DeleteMentor)

	studentGroup := router.Group("/students")
	superAdminRoutes.SetupArchiveRoutes(studentGroup, svc.Archives.Students, auth, "student", "students")
	studentGroup.Get("/", auth, ctl.ListStudents)
	studentGroup.Get("/top", auth, ctl.TopStudents)
	studentGroup.Get("/level", auth, userValidator.StudentsByLevel(), ctl.StudentsByLevel)
	studentGroup.Get("/:id", auth, id, ctl.GetStudent)
	studentGroup.Post("/", auth, userValidator.Student(), ctl.CreateStudent)
	studentGroup.Put("/:id", auth, id, userValidator.Student(), ctl.UpdateStudent)
	studentGroup.Delete("/:id", auth, id, ctl.DeleteStudent)

	userGroup := router.Group("/users")
	userGroup.Get("/:id/mentor", auth, id, ctl.MentorByUser)
	userGroup.Get("/:id/student", auth, id, ctl.StudentByUser)
}
