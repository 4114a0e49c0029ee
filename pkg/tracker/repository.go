package tracker

import (
	"errors"
	"log/slog"

	"gorm.io/gorm"
)

// Pagination defaults shared by entity listing and history queries.
const (
	DefaultListLimit = 10
	MaxListLimit     = 100
)

// clampPage normalizes offset/limit to the documented defaults.
func clampPage(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	return offset, limit
}

// entityModel is the set of mutable tracker entities served by the generic
// repository. History is excluded on purpose: the ledger has its own store
// with append-only semantics.
type entityModel interface {
	Board | KanbanStatus | Project | Ticket
}

// repository implements the storage primitives shared by every entity store.
// Each typed store embeds it and layers per-entity validation and explicit
// update structs on top.
type repository[T entityModel] struct {
	db     *gorm.DB
	entity string
	logger *slog.Logger
}

func newRepository[T entityModel](db *gorm.DB, entity string, logger *slog.Logger) repository[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return repository[T]{db: db, entity: entity, logger: logger}
}

// Get returns the entity with the given id, or nil when no such row exists.
// A missing row is not an error.
func (r *repository[T]) Get(id int64) (*T, error) {
	var row T
	if err := r.db.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, &StorageError{Op: "get " + r.entity, Err: err}
	}
	return &row, nil
}

// List returns a page of entities ordered by ascending id, so repeated calls
// with the same offset see the same page as long as no writes intervene.
func (r *repository[T]) List(offset, limit int) ([]T, error) {
	offset, limit = clampPage(offset, limit)
	var rows []T
	if err := r.db.Order("id ASC").Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		return nil, &StorageError{Op: "list " + r.entity, Err: err}
	}
	return rows, nil
}

// create persists a new row and returns it with the generated id and
// timestamps populated.
func (r *repository[T]) create(row *T) (*T, error) {
	if err := r.db.Create(row).Error; err != nil {
		return nil, &StorageError{Op: "create " + r.entity, Err: err}
	}
	return row, nil
}

// update loads the row, applies the given column assignments, and returns the
// refreshed row. Returns NotFoundError when the id does not exist.
func (r *repository[T]) update(id int64, fields map[string]any) (*T, error) {
	var row T
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&row, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: r.entity, ID: id}
			}
			return &StorageError{Op: "load " + r.entity, Err: err}
		}
		if len(fields) == 0 {
			return nil
		}
		if err := tx.Model(&row).Updates(fields).Error; err != nil {
			return &StorageError{Op: "update " + r.entity, Err: err}
		}
		// Re-read so the caller sees the stored row, including the
		// reassigned updated_at.
		if err := tx.First(&row, id).Error; err != nil {
			return &StorageError{Op: "reload " + r.entity, Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Delete removes the row and returns its last state. Returns NotFoundError
// when the id does not exist; deletes never silently no-op.
func (r *repository[T]) Delete(id int64) (*T, error) {
	var row T
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&row, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: r.entity, ID: id}
			}
			return &StorageError{Op: "load " + r.entity, Err: err}
		}
		if err := tx.Delete(&row).Error; err != nil {
			return &StorageError{Op: "delete " + r.entity, Err: err}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.logger.Info("entity deleted", "entity", r.entity, "id", id)
	return &row, nil
}
