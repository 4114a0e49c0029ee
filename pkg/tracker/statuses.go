package tracker

import (
	"log/slog"

	"gorm.io/gorm"
)

// NewKanbanStatus holds the fields required to create a kanban status lane.
type NewKanbanStatus struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	BoardID     int64  `json:"boardId"`
}

// KanbanStatusUpdate lists the mutable status fields. Nil fields are left
// unchanged.
type KanbanStatusUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	BoardID     *int64  `json:"boardId,omitempty"`
}

// StatusStore provides CRUD operations for kanban status lanes.
type StatusStore struct {
	repository[KanbanStatus]
}

// NewStatusStore creates a new StatusStore.
func NewStatusStore(db *gorm.DB, logger *slog.Logger) *StatusStore {
	return &StatusStore{repository: newRepository[KanbanStatus](db, "kanban status", logger)}
}

// Create persists a new status lane. The owning board id is required.
func (s *StatusStore) Create(ks NewKanbanStatus) (*KanbanStatus, error) {
	if ks.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if ks.BoardID <= 0 {
		return nil, &ValidationError{Field: "boardId", Reason: "must reference a board"}
	}
	return s.create(&KanbanStatus{Name: ks.Name, Description: ks.Description, BoardID: ks.BoardID})
}

// Update applies the non-nil fields of upd to the status with the given id.
func (s *StatusStore) Update(id int64, upd KanbanStatusUpdate) (*KanbanStatus, error) {
	fields := map[string]any{}
	if upd.Name != nil {
		if *upd.Name == "" {
			return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
		}
		fields["name"] = *upd.Name
	}
	if upd.Description != nil {
		fields["description"] = *upd.Description
	}
	if upd.BoardID != nil {
		if *upd.BoardID <= 0 {
			return nil, &ValidationError{Field: "boardId", Reason: "must reference a board"}
		}
		fields["board_id"] = *upd.BoardID
	}
	return s.update(id, fields)
}
