package courseRoutes

import (
	courseController "coursehub/controllers/course"
	"coursehub/services"
	"coursehub/validators"
	courseValidator "coursehub/validators/course"
	enrollmentValidator "coursehub/validators/enrollment"

	superAdminRoutes "coursehub/routers/superAdmin"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up courses, videos and enrollments
func SetupCourseRoutes(router fiber.Router, svc *services.Container, auth fiber.Handler) {
	ctl := courseController.New(svc.Courses, svc.Videos, svc.Enrollments)
	id := validators.ParamID("id")

	courseGroup := router.Group("/courses")
	superAdminRoutes.SetupArchiveRoutes(courseGroup, svc.Archives.Courses, auth, "course", "courses")

	// Listings (static paths before "/:id")
	courseGroup.Get("/", auth, courseValidator.CourseList(), ctl.ListCourses)
	courseGroup.Get("/featured", ctl.Featured)
	courseGroup.Get("/search", auth, courseValidator.SearchCourses(), ctl.Search)
	courseGroup.Get("/free", auth, ctl.Free)
	courseGroup.Get("/difficulty/:difficulty", auth, ctl.ByDifficulty)
	courseGroup.Get("/status/:status", auth, ctl.ByStatus)
	courseGroup.Get("/slug/:slug", auth, ctl.BySlug)

	// Course management
	courseGroup.Get("/:id", auth, id, ctl.GetCourse)
	courseGroup.Post("/", auth, courseValidator.CreateCourse(), ctl.CreateCourse)
	courseGroup.Put("/:id", auth, id, courseValidator.UpdateCourse(), ctl.UpdateCourse)
	courseGroup.Delete("/:id", auth, id, ctl.DeleteCourse)
	courseGroup.Post("/:id/tags/attach", auth, id, courseValidator.CourseTags(), ctl.AttachTags)
	courseGroup.Post("/:id/tags/detach", auth, id, courseValidator.CourseTags(), ctl.DetachTags)
	courseGroup.Post("/:id/tags/sync", auth, id, courseValidator.CourseTags(), ctl.SyncTags)

	// Course videos and enrollments
	courseGroup.Get("/:id/videos", auth, id, ctl.CourseVideos)
	courseGroup.Get("/:id/videos/free-previews", auth, id, ctl.FreePreviews)
	courseGroup.Post("/:id/videos/reorder", auth, id, courseValidator.ReorderVideos(), ctl.ReorderVideos)
	courseGroup.Get("/:id/enrollments", auth, id, ctl.CourseEnrollments)

	// Videos
	videoGroup := router.Group("/videos")
	superAdminRoutes.SetupArchiveRoutes(videoGroup, svc.Archives.Videos, auth, "video", "videos")
	videoGroup.Get("/", auth, ctl.ListVideos)
	videoGroup.Get("/:id", auth, id, ctl.GetVideo)
	videoGroup.Post("/", auth, courseValidator.CreateVideo(), ctl.CreateVideo)
	videoGroup.Put("/:id", auth, id, courseValidator.UpdateVideo(), ctl.UpdateVideo)
	videoGroup.Delete("/:id", auth, id, ctl.DeleteVideo)

	// Enrollments
	enrollmentGroup := router.Group("/enrollments")
	superAdminRoutes.SetupArchiveRoutes(enrollmentGroup, svc.Archives.Enrollments, auth, "enrollment", "enrollments")
	enrollmentGroup.Get("/", auth, enrollmentValidator.EnrollmentList(), ctl.ListEnrollments)
	enrollmentGroup.Post("/", auth, enrollmentValidator.Enroll(), ctl.Enroll)
	enrollmentGroup.Get("/:id", auth, id, ctl.GetEnrollment)
	enrollmentGroup.Put("/:id", auth, id, enrollmentValidator.UpdateEnrollment(), ctl.UpdateEnrollment)
	enrollmentGroup.Delete("/:id", auth, id, ctl.DeleteEnrollment)
	enrollmentGroup.Post("/:id/complete", auth, id, ctl.CompleteEnrollment)

	router.Get("/students/:id/enrollments", auth, id, ctl.StudentEnrollments)
	router.Get("/mentors/:id/courses", auth, id, ctl.ByMentor)
}
