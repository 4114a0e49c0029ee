package tracker

import (
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"
)

// HistoryStore provides append-only operations for the audit ledger. There is
// no update method: once written, a history row never changes.
type HistoryStore struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewHistoryStore creates a new HistoryStore.
func NewHistoryStore(db *gorm.DB, logger *slog.Logger) *HistoryStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &HistoryStore{db: db, logger: logger}
}

// Append writes one immutable ledger entry and returns it with the assigned
// id and server-side timestamp.
func (s *HistoryStore) Append(ref EntityRef, changeType string, userID int64, details string) (*History, error) {
	return s.appendWith(s.db, ref, changeType, userID, details)
}

// appendWith is Append running against an arbitrary handle, so the
// transition service can place the write inside its own transaction.
func (s *HistoryStore) appendWith(db *gorm.DB, ref EntityRef, changeType string, userID int64, details string) (*History, error) {
	if err := ref.validate(); err != nil {
		return nil, err
	}
	if changeType == "" {
		return nil, &ValidationError{Field: "changeType", Reason: "must not be empty"}
	}
	entry := History{
		EntityType: ref.Kind,
		EntityID:   ref.ID,
		ChangeType: changeType,
		UserID:     userID,
		Details:    details,
	}
	if err := db.Create(&entry).Error; err != nil {
		return nil, &StorageError{Op: "append history", Err: err}
	}
	return &entry, nil
}

// Get returns the ledger entry with the given id, or nil when no such row
// exists.
func (s *HistoryStore) Get(id int64) (*History, error) {
	var entry History
	if err := s.db.First(&entry, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, &StorageError{Op: "get history", Err: err}
	}
	return &entry, nil
}

// ListByEntity returns ledger entries for exactly the given entity, in
// insertion order. Rows for a different kind never appear, even when the
// numeric id collides.
func (s *HistoryStore) ListByEntity(ref EntityRef, offset, limit int) ([]History, error) {
	if err := ref.validate(); err != nil {
		return nil, err
	}
	offset, limit = clampPage(offset, limit)
	var entries []History
	err := s.db.
		Where("entity_type = ? AND entity_id = ?", ref.Kind, ref.ID).
		Order("timestamp ASC, id ASC").
		Offset(offset).Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, &StorageError{Op: "list history by entity", Err: err}
	}
	return entries, nil
}

// DeleteOlderThan removes ledger entries older than the cutoff and returns
// how many were deleted. The audited workflow never calls this; it exists for
// the retention worker only.
func (s *HistoryStore) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result := s.db.Where("timestamp < ?", cutoff).Delete(&History{})
	if result.Error != nil {
		return 0, &StorageError{Op: "delete old history", Err: result.Error}
	}
	return result.RowsAffected, nil
}
