package tracker

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// EntityKind discriminates the entity a History row refers to. The kind and
// the numeric id together form a polymorphic reference: history is stored
// without a foreign key so that it survives deletion of the entity it
// describes.
type EntityKind string

const (
	KindProject      EntityKind = "project"
	KindTicket       EntityKind = "ticket"
	KindKanbanBoard  EntityKind = "kanban_board"
	KindKanbanStatus EntityKind = "kanban_status"
)

// Valid reports whether k is one of the known entity kinds.
func (k EntityKind) Valid() bool {
	switch k {
	case KindProject, KindTicket, KindKanbanBoard, KindKanbanStatus:
		return true
	}
	return false
}

// EntityRef identifies a single entity by kind and id. It is the in-process
// form of the (entity_type, entity_id) column pair on history rows.
type EntityRef struct {
	Kind EntityKind `json:"kind"`
	ID   int64      `json:"id"`
}

// ProjectRef returns an EntityRef for a project id.
func ProjectRef(id int64) EntityRef { return EntityRef{Kind: KindProject, ID: id} }

// TicketRef returns an EntityRef for a ticket id.
func TicketRef(id int64) EntityRef { return EntityRef{Kind: KindTicket, ID: id} }

func (r EntityRef) String() string {
	return fmt.Sprintf("%s/%d", r.Kind, r.ID)
}

func (r EntityRef) validate() error {
	if !r.Kind.Valid() {
		return &ValidationError{Field: "entityType", Reason: fmt.Sprintf("unknown entity kind %q", r.Kind)}
	}
	if r.ID <= 0 {
		return &ValidationError{Field: "entityId", Reason: "must be a positive id"}
	}
	return nil
}

// Change types recorded on history rows.
const (
	ChangeTypeCreate       = "create"
	ChangeTypeStatusChange = "status_change"
)

// Board is the top-level container grouping kanban statuses and projects.
type Board struct {
	ID          int64     `gorm:"primaryKey;column:id;autoIncrement" json:"id"`
	Name        string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Description string    `gorm:"column:description;type:text" json:"description,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// TableName returns the GORM table name.
func (Board) TableName() string { return "boards" }

// KanbanStatus is a named lane on a board (for example "To Do"). It is
// distinct from the free-text status field carried by projects and tickets.
type KanbanStatus struct {
	ID          int64     `gorm:"primaryKey;column:id;autoIncrement" json:"id"`
	Name        string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Description string    `gorm:"column:description;type:text" json:"description,omitempty"`
	BoardID     int64     `gorm:"column:board_id;index:idx_statuses_board;not null" json:"boardId"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// TableName returns the GORM table name.
func (KanbanStatus) TableName() string { return "kanban_statuses" }

// Project belongs to exactly one board. The board reference is required at
// creation; the status field is opaque text, not a reference to KanbanStatus.
type Project struct {
	ID          int64     `gorm:"primaryKey;column:id;autoIncrement" json:"id"`
	Name        string    `gorm:"column:name;type:varchar(255);not null" json:"name"`
	Description string    `gorm:"column:description;type:text;not null" json:"description"`
	BoardID     int64     `gorm:"column:board_id;index:idx_projects_board;not null" json:"boardId"`
	Status      string    `gorm:"column:status;type:varchar(255)" json:"status,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// TableName returns the GORM table name.
func (Project) TableName() string { return "projects" }

// Ticket is a unit of work within a project, occupying one kanban lane.
type Ticket struct {
	ID             int64     `gorm:"primaryKey;column:id;autoIncrement" json:"id"`
	Title          string    `gorm:"column:title;type:varchar(255);not null" json:"title"`
	Description    string    `gorm:"column:description;type:text;not null" json:"description"`
	Status         string    `gorm:"column:status;type:varchar(255);not null" json:"status"`
	Priority       string    `gorm:"column:priority;type:varchar(255);not null" json:"priority"`
	ProjectID      int64     `gorm:"column:project_id;index:idx_tickets_project;not null" json:"projectId"`
	KanbanStatusID int64     `gorm:"column:kanban_status_id;index:idx_tickets_kanban_status;not null" json:"kanbanStatusId"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// TableName returns the GORM table name.
func (Ticket) TableName() string { return "tickets" }

// History is an immutable audit log entry. entity_id deliberately has no
// foreign key: rows remain valid after the entity they describe is deleted.
type History struct {
	ID         int64      `gorm:"primaryKey;column:id;autoIncrement" json:"id"`
	EntityType EntityKind `gorm:"column:entity_type;index:idx_history_entity,priority:1;not null" json:"entityType"`
	EntityID   int64      `gorm:"column:entity_id;index:idx_history_entity,priority:2;not null" json:"entityId"`
	ChangeType string     `gorm:"column:change_type;not null" json:"changeType"`
	UserID     int64      `gorm:"column:user_id;not null" json:"userId"`
	Details    string     `gorm:"column:details;type:text" json:"details,omitempty"`
	Timestamp  time.Time  `gorm:"column:timestamp;autoCreateTime" json:"timestamp"`
}

// TableName returns the GORM table name.
func (History) TableName() string { return "history" }

// Ref returns the polymorphic reference this history row points at.
func (h *History) Ref() EntityRef {
	return EntityRef{Kind: h.EntityType, ID: h.EntityID}
}

// AutoMigrate creates or updates all tracker tables.
func AutoMigrate(db *gorm.DB) error {
	for _, model := range []any{&Board{}, &KanbanStatus{}, &Project{}, &Ticket{}, &History{}} {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("auto-migrate tracker tables: %w", err)
		}
	}
	return nil
}
