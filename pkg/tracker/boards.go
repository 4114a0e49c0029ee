package tracker

import (
	"log/slog"

	"gorm.io/gorm"
)

// NewBoard holds the fields required to create a board.
type NewBoard struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// BoardUpdate lists the mutable board fields. Nil fields are left unchanged.
type BoardUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// BoardStore provides CRUD operations for boards.
type BoardStore struct {
	repository[Board]
}

// NewBoardStore creates a new BoardStore.
func NewBoardStore(db *gorm.DB, logger *slog.Logger) *BoardStore {
	return &BoardStore{repository: newRepository[Board](db, "board", logger)}
}

// Create persists a new board.
func (s *BoardStore) Create(b NewBoard) (*Board, error) {
	if b.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	return s.create(&Board{Name: b.Name, Description: b.Description})
}

// Update applies the non-nil fields of upd to the board with the given id.
func (s *BoardStore) Update(id int64, upd BoardUpdate) (*Board, error) {
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
	return s.update(id, fields)
}
