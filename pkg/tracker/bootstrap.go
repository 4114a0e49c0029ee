package tracker

import (
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"
)

const (
	defaultBoardName = "Default Board"
	// bootstrapUserID is the ledger user recorded for seeded rows.
	bootstrapUserID int64 = 1
)

var defaultStatuses = []NewKanbanStatus{
	{Name: "Backlog", Description: "Backlog Status"},
	{Name: "To Do", Description: "To Do Status"},
	{Name: "In Progress", Description: "In Progress Status"},
	{Name: "Done", Description: "Done Status"},
}

// Bootstrap seeds the default board and its four status lanes, with matching
// ledger entries, inside one transaction. It is restart-safe: when a board
// named "Default Board" already exists the seed is skipped entirely.
func Bootstrap(db *gorm.DB, cfg *Config, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	if !cfg.CreateDefaults {
		logger.Info("default board seeding disabled")
		return nil
	}

	var existing Board
	err := db.Where("name = ?", defaultBoardName).First(&existing).Error
	if err == nil {
		logger.Info("default board already present, skipping seed", "boardId", existing.ID)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return &StorageError{Op: "check default board", Err: err}
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		board := Board{Name: defaultBoardName, Description: "Default Kanban Board"}
		if err := tx.Create(&board).Error; err != nil {
			return fmt.Errorf("create default board: %w", err)
		}
		entry := History{
			EntityType: KindKanbanBoard,
			EntityID:   board.ID,
			ChangeType: ChangeTypeCreate,
			UserID:     bootstrapUserID,
			Details:    "Default Kanban Board created",
		}
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("record default board creation: %w", err)
		}

		for _, ns := range defaultStatuses {
			status := KanbanStatus{Name: ns.Name, Description: ns.Description, BoardID: board.ID}
			if err := tx.Create(&status).Error; err != nil {
				return fmt.Errorf("create default status %q: %w", ns.Name, err)
			}
			entry := History{
				EntityType: KindKanbanStatus,
				EntityID:   status.ID,
				ChangeType: ChangeTypeCreate,
				UserID:     bootstrapUserID,
				Details:    fmt.Sprintf("Default Kanban Status '%s' created", status.Name),
			}
			if err := tx.Create(&entry).Error; err != nil {
				return fmt.Errorf("record default status creation: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return &StorageError{Op: "seed defaults", Err: err}
	}

	logger.Info("seeded default board and statuses", "statuses", len(defaultStatuses))
	return nil
}
