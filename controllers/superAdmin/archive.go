package superAdminController

import (
	"coursehub/middleware"
	"coursehub/services"
	"coursehub/validators"

	"github.com/gofiber/fiber/v2"
)

// Archive serves the trashed listing, restore and purge of one entity. singular and plural
// are the response keys.
type Archive[T any] struct {
	archive  *services.ArchiveService[T]
	singular string
	plural   string
}

func NewArchive[T any](archive *services.ArchiveService[T], singular, plural string) *Archive[T] {
	return &Archive[T]{archive: archive, singular: singular, plural: plural}
}

func (a *Archive[T]) Trashed(c *fiber.Ctx) error {
	records, err := a.archive.Trashed(c.UserContext(), middleware.Actor(c))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "", fiber.Map{a.plural: records})
}

func (a *Archive[T]) Restore(c *fiber.Ctx) error {
	record, err := a.archive.Restore(c.UserContext(), middleware.Actor(c), validators.ID(c, "id"))
	if err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Restored successfully", fiber.Map{a.singular: record})
}

func (a *Archive[T]) Purge(c *fiber.Ctx) error {
	if err := a.archive.Purge(c.UserContext(), middleware.Actor(c), validators.ID(c, "id")); err != nil {
		return middleware.ErrorResponse(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, "Permanently deleted", nil)
}
