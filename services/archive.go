package services

import (
	"context"

	"coursehub/logger"
	"coursehub/policy"
)

// Archivable is the slice of a repository the archive needs. Repositories that recount or
// cascade override these on their own type.
type Archivable[T any] interface {
	Name() string
	AllTrashed(ctx context.Context) ([]T, error)
	Restore(ctx context.Context, id uint) (*T, error)
	ForceDelete(ctx context.Context, id uint) error
}

// ArchiveService exposes trashed records of one entity to admins.
type ArchiveService[T any] struct {
	repo Archivable[T]
	log  *logger.Logger
}

func NewArchiveService[T any](repo Archivable[T], log *logger.Logger) *ArchiveService[T] {
	return &ArchiveService[T]{repo: repo, log: log.With("service", "ArchiveService", "entity", repo.Name())}
}

func (s *ArchiveService[T]) Trashed(ctx context.Context, actor policy.Actor) ([]T, error) {
	if err := actor.Authorize(policy.ArchiveManage, policy.Resource{}); err != nil {
		return nil, err
	}
	return s.repo.AllTrashed(ctx)
}

func (s *ArchiveService[T]) Restore(ctx context.Context, actor policy.Actor, id uint) (*T, error) {
	if err := actor.Authorize(policy.ArchiveManage, policy.Resource{}); err != nil {
		return nil, err
	}
	rec, err := s.repo.Restore(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.Info("record restored", "id", id, "by", actor.UserID)
	return rec, nil
}

// Purge removes the record physically.
func (s *ArchiveService[T]) Purge(ctx context.Context, actor policy.Actor, id uint) error {
	if err := actor.Authorize(policy.ArchiveManage, policy.Resource{}); err != nil {
		return err
	}
	if err := s.repo.ForceDelete(ctx, id); err != nil {
		return err
	}
	s.log.Warn("record purged", "id", id, "by", actor.UserID)
	return nil
}
