package tracker

import (
	"log/slog"

	"gorm.io/gorm"
)

// NewTicket holds the fields required to create a ticket.
type NewTicket struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	Status         string `json:"status"`
	Priority       string `json:"priority"`
	ProjectID      int64  `json:"projectId"`
	KanbanStatusID int64  `json:"kanbanStatusId"`
}

// TicketUpdate lists the mutable ticket fields. Nil fields are left
// unchanged.
type TicketUpdate struct {
	Title          *string `json:"title,omitempty"`
	Description    *string `json:"description,omitempty"`
	Status         *string `json:"status,omitempty"`
	Priority       *string `json:"priority,omitempty"`
	ProjectID      *int64  `json:"projectId,omitempty"`
	KanbanStatusID *int64  `json:"kanbanStatusId,omitempty"`
}

// TicketStore provides CRUD operations for tickets.
type TicketStore struct {
	repository[Ticket]
}

// NewTicketStore creates a new TicketStore.
func NewTicketStore(db *gorm.DB, logger *slog.Logger) *TicketStore {
	return &TicketStore{repository: newRepository[Ticket](db, "ticket", logger)}
}

// Create persists a new ticket. The project and kanban lane references are
// required.
func (s *TicketStore) Create(t NewTicket) (*Ticket, error) {
	if t.Title == "" {
		return nil, &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if t.ProjectID <= 0 {
		return nil, &ValidationError{Field: "projectId", Reason: "must reference a project"}
	}
	if t.KanbanStatusID <= 0 {
		return nil, &ValidationError{Field: "kanbanStatusId", Reason: "must reference a kanban status"}
	}
	return s.create(&Ticket{
		Title:          t.Title,
		Description:    t.Description,
		Status:         t.Status,
		Priority:       t.Priority,
		ProjectID:      t.ProjectID,
		KanbanStatusID: t.KanbanStatusID,
	})
}

// Update applies the non-nil fields of upd to the ticket with the given id.
func (s *TicketStore) Update(id int64, upd TicketUpdate) (*Ticket, error) {
	fields := map[string]any{}
	if upd.Title != nil {
		if *upd.Title == "" {
			return nil, &ValidationError{Field: "title", Reason: "must not be empty"}
		}
		fields["title"] = *upd.Title
	}
	if upd.Description != nil {
		fields["description"] = *upd.Description
	}
	if upd.Status != nil {
		fields["status"] = *upd.Status
	}
	if upd.Priority != nil {
		fields["priority"] = *upd.Priority
	}
	if upd.ProjectID != nil {
		if *upd.ProjectID <= 0 {
			return nil, &ValidationError{Field: "projectId", Reason: "must reference a project"}
		}
		fields["project_id"] = *upd.ProjectID
	}
	if upd.KanbanStatusID != nil {
		if *upd.KanbanStatusID <= 0 {
			return nil, &ValidationError{Field: "kanbanStatusId", Reason: "must reference a kanban status"}
		}
		fields["kanban_status_id"] = *upd.KanbanStatusID
	}
	return s.update(id, fields)
}
