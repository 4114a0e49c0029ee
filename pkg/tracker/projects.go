package tracker

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"
)

// NewProject holds the fields required to create a project. BoardID is
// mandatory: a project can never exist outside a board.
type NewProject struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	BoardID     int64  `json:"boardId"`
	Status      string `json:"status,omitempty"`
}

// ProjectUpdate lists the mutable project fields. Nil fields are left
// unchanged. The id and timestamps are deliberately absent.
type ProjectUpdate struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	BoardID     *int64  `json:"boardId,omitempty"`
	Status      *string `json:"status,omitempty"`
}

// ProjectStore provides CRUD operations for projects.
type ProjectStore struct {
	repository[Project]
}

// NewProjectStore creates a new ProjectStore.
func NewProjectStore(db *gorm.DB, logger *slog.Logger) *ProjectStore {
	return &ProjectStore{repository: newRepository[Project](db, "project", logger)}
}

// Create persists a new project. The referenced board must exist; there is no
// silent fallback to a null board.
func (s *ProjectStore) Create(p NewProject) (*Project, error) {
	if p.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if p.BoardID <= 0 {
		return nil, &ValidationError{Field: "boardId", Reason: "must reference a board"}
	}
	if err := s.checkBoardExists(p.BoardID); err != nil {
		return nil, err
	}
	return s.create(&Project{
		Name:        p.Name,
		Description: p.Description,
		BoardID:     p.BoardID,
		Status:      p.Status,
	})
}

// Update applies the non-nil fields of upd to the project with the given id.
func (s *ProjectStore) Update(id int64, upd ProjectUpdate) (*Project, error) {
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
		if err := s.checkBoardExists(*upd.BoardID); err != nil {
			return nil, err
		}
		fields["board_id"] = *upd.BoardID
	}
	if upd.Status != nil {
		fields["status"] = *upd.Status
	}
	return s.update(id, fields)
}

func (s *ProjectStore) checkBoardExists(boardID int64) error {
	if boardID <= 0 {
		return &ValidationError{Field: "boardId", Reason: "must reference a board"}
	}
	var count int64
	if err := s.db.Model(&Board{}).Where("id = ?", boardID).Count(&count).Error; err != nil {
		return &StorageError{Op: "check board reference", Err: err}
	}
	if count == 0 {
		return &ValidationError{Field: "boardId", Reason: fmt.Sprintf("board %d does not exist", boardID)}
	}
	return nil
}
