package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	"coursehub/apperr"
	"coursehub/database"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store is the generic record store every repository builds on. Records are never removed by
// Delete: the is_deleted tombstone hides them from active queries until Restore clears it.
type Store[T any] struct {
	db       *gorm.DB
	table    string
	name     string
	preloads []string
}

// NewStore binds a store to the table of T. name is used in error messages ("Course not found!"),
// preloads are applied to every read.
func NewStore[T any](db *gorm.DB, name string, preloads ...string) *Store[T] {
	return &Store[T]{db: db, table: tableOf[T](db), name: name, preloads: preloads}
}

func tableOf[T any](db *gorm.DB) string {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(new(T)); err != nil {
		return ""
	}
	return stmt.Schema.Table
}

// WithTx returns a copy of the store bound to tx.
func (s *Store[T]) WithTx(tx *gorm.DB) *Store[T] {
	cp := *s
	cp.db = tx
	return &cp
}

func (s *Store[T]) DB() *gorm.DB { return s.db }

func (s *Store[T]) Name() string { return s.name }

// Col qualifies a column with the store's table so it stays unambiguous inside joins.
func (s *Store[T]) Col(column string) string {
	if s.table == "" {
		return column
	}
	return s.table + "." + column
}

func (s *Store[T]) scoped(ctx context.Context, trashed bool, preloads []string) *gorm.DB {
	q := s.db.WithContext(ctx).Model(new(T)).Where(s.Col("is_deleted")+" = ?", trashed)
	return withPreloads(q, preloads)
}

// withPreloads loads each relation, skipping related rows that are tombstoned.
func withPreloads(q *gorm.DB, preloads []string) *gorm.DB {
	for _, p := range preloads {
		q = q.Preload(p, activeOnly)
	}
	return q
}

func activeOnly(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = ?", false)
}

// Active starts a query over live rows with the default preloads applied.
func (s *Store[T]) Active(ctx context.Context) *gorm.DB {
	return s.scoped(ctx, false, s.preloads)
}

// Query starts a query over live rows without preloads. Use it for counts and aggregates.
func (s *Store[T]) Query(ctx context.Context) *gorm.DB {
	return s.scoped(ctx, false, nil)
}

func (s *Store[T]) Preloads() []string { return s.preloads }

// Trashed starts a query over tombstoned rows.
func (s *Store[T]) Trashed(ctx context.Context) *gorm.DB {
	return s.scoped(ctx, true, s.preloads)
}

func (s *Store[T]) All(ctx context.Context) ([]T, error) {
	var out []T
	if err := s.Active(ctx).Order(s.Col("id") + " asc").Find(&out).Error; err != nil {
		return nil, s.wrap(err, "fetch")
	}
	return out, nil
}

func (s *Store[T]) AllTrashed(ctx context.Context) ([]T, error) {
	var out []T
	if err := s.Trashed(ctx).Order(s.Col("deleted_at") + " desc").Find(&out).Error; err != nil {
		return nil, s.wrap(err, "fetch")
	}
	return out, nil
}

// FindByID loads a live record. Extra preloads replace the defaults when given.
func (s *Store[T]) FindByID(ctx context.Context, id uint, preloads ...string) (*T, error) {
	if len(preloads) == 0 {
		preloads = s.preloads
	}
	rec := new(T)
	if err := s.scoped(ctx, false, preloads).Where(s.Col("id")+" = ?", id).First(rec).Error; err != nil {
		return nil, s.wrap(err, "fetch")
	}
	return rec, nil
}

func (s *Store[T]) FindTrashedByID(ctx context.Context, id uint) (*T, error) {
	rec := new(T)
	if err := s.Trashed(ctx).Where(s.Col("id")+" = ?", id).First(rec).Error; err != nil {
		return nil, s.wrap(err, "fetch")
	}
	return rec, nil
}

func (s *Store[T]) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := s.scoped(ctx, false, nil).Where(s.Col("id")+" = ?", id).Count(&count).Error; err != nil {
		return false, s.wrap(err, "fetch")
	}
	return count > 0, nil
}

// Taken reports whether any row, trashed included, holds value in column. exceptID is
// skipped so an update can keep its own value.
func (s *Store[T]) Taken(ctx context.Context, column, value string, exceptID uint) (bool, error) {
	var count int64
	q := s.db.WithContext(ctx).Model(new(T)).Where(s.Col(column)+" = ?", value)
	if exceptID != 0 {
		q = q.Where(s.Col("id")+" <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, s.wrap(err, "fetch")
	}
	return count > 0, nil
}

func (s *Store[T]) Create(ctx context.Context, rec *T) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(rec).Error; err != nil {
		return s.wrap(err, "create")
	}
	return nil
}

// Save writes every column of rec. Associations are left alone.
func (s *Store[T]) Save(ctx context.Context, rec *T) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(rec).Error; err != nil {
		return s.wrap(err, "update")
	}
	return nil
}

// Updates writes the given columns on a live record.
func (s *Store[T]) Updates(ctx context.Context, id uint, fields map[string]interface{}) error {
	res := s.db.WithContext(ctx).Model(new(T)).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(fields)
	if res.Error != nil {
		return s.wrap(res.Error, "update")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(s.name + " not found!")
	}
	return nil
}

// Delete tombstones a live record.
func (s *Store[T]) Delete(ctx context.Context, id uint) error {
	now := time.Now()
	res := s.db.WithContext(ctx).Model(new(T)).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]interface{}{"is_deleted": true, "deleted_at": &now})
	if res.Error != nil {
		return s.wrap(res.Error, "delete")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(s.name + " not found!")
	}
	return nil
}

// Restore clears the tombstone. Restoring into a live unique key returns Conflict.
func (s *Store[T]) Restore(ctx context.Context, id uint) (*T, error) {
	res := s.db.WithContext(ctx).Model(new(T)).
		Where("id = ? AND is_deleted = ?", id, true).
		Updates(map[string]interface{}{"is_deleted": false, "deleted_at": nil})
	if res.Error != nil {
		return nil, s.wrap(res.Error, "restore")
	}
	if res.RowsAffected == 0 {
		return nil, apperr.NotFound("Trashed " + s.name + " not found!")
	}
	return s.FindByID(ctx, id)
}

// ForceDelete removes the row for good, live or trashed.
func (s *Store[T]) ForceDelete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return s.wrap(res.Error, "delete")
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound(s.name + " not found!")
	}
	return nil
}

func (s *Store[T]) wrap(err error, action string) error {
	return wrapErr(err, s.name, action)
}

func wrapErr(err error, name, action string) error {
	var appErr *apperr.Error
	switch {
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFound(name + " not found!")
	case database.IsUniqueViolation(err):
		return apperr.Wrap(apperr.KindConflict, name+" already exists", err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperr.Wrap(apperr.KindConflict, name+" is still referenced by other records", err)
	default:
		return apperr.Internal("Failed to "+action+" "+strings.ToLower(name), err)
	}
}

