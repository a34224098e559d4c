package services

import (
	"context"
	"strconv"

	"coursehub/apperr"

	"github.com/gosimple/slug"
)

const maxSlugAttempts = 100

type slugChecker func(ctx context.Context, candidate string) (bool, error)

// uniqueSlug derives a slug from title and appends -2, -3, ... until taken reports it free.
func uniqueSlug(ctx context.Context, title string, taken slugChecker) (string, error) {
	base := slug.Make(title)
	if base == "" {
		return "", apperr.Field("title", "The title must contain letters or digits.")
	}

	candidate := base
	for n := 2; n <= maxSlugAttempts; n++ {
		exists, err := taken(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = base + "-" + strconv.Itoa(n)
	}
	return "", apperr.Conflict("Could not derive a unique slug for " + title)
}
