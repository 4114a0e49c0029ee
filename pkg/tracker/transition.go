package tracker

import (
	"errors"
	"fmt"
	"log/slog"

	"gorm.io/gorm"
)

// TransitionService changes the status of a project or ticket and records the
// change in the history ledger, atomically. Both writes share one
// transaction: a storage fault during either rolls back the other, so a
// status update without a matching ledger entry (or the reverse) cannot be
// observed.
//
// Status values are opaque strings. The service does not enforce a state
// machine, and concurrent transitions on the same row are serialized by the
// storage engine's row locking, not by the service.
type TransitionService struct {
	db      *gorm.DB
	history *HistoryStore
	logger  *slog.Logger
}

// NewTransitionService creates a new TransitionService.
func NewTransitionService(db *gorm.DB, history *HistoryStore, logger *slog.Logger) *TransitionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TransitionService{db: db, history: history, logger: logger}
}

// TransitionProject sets a project's status and appends the matching ledger
// entry. Returns NotFoundError (and writes nothing) when the project does not
// exist.
func (s *TransitionService) TransitionProject(id int64, newStatus string, userID int64) (*Project, error) {
	return transition[Project](s, KindProject, id, newStatus, userID)
}

// TransitionTicket sets a ticket's status and appends the matching ledger
// entry. Returns NotFoundError (and writes nothing) when the ticket does not
// exist.
func (s *TransitionService) TransitionTicket(id int64, newStatus string, userID int64) (*Ticket, error) {
	return transition[Ticket](s, KindTicket, id, newStatus, userID)
}

// Transition dispatches on the reference kind. Only projects and tickets
// carry a status; other kinds are rejected with ValidationError. Callers that
// know the kind statically should prefer the typed methods.
func (s *TransitionService) Transition(ref EntityRef, newStatus string, userID int64) (any, error) {
	switch ref.Kind {
	case KindProject:
		return s.TransitionProject(ref.ID, newStatus, userID)
	case KindTicket:
		return s.TransitionTicket(ref.ID, newStatus, userID)
	default:
		return nil, &ValidationError{
			Field:  "entityType",
			Reason: fmt.Sprintf("%q does not carry a status", ref.Kind),
		}
	}
}

func transition[T Project | Ticket](s *TransitionService, kind EntityKind, id int64, newStatus string, userID int64) (*T, error) {
	var row T
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&row, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Entity: string(kind), ID: id}
			}
			return &StorageError{Op: "load " + string(kind), Err: err}
		}
		if err := tx.Model(&row).Updates(map[string]any{"status": newStatus}).Error; err != nil {
			return &StorageError{Op: "update " + string(kind) + " status", Err: err}
		}
		if err := tx.First(&row, id).Error; err != nil {
			return &StorageError{Op: "reload " + string(kind), Err: err}
		}
		details := fmt.Sprintf("Status changed to %s", newStatus)
		if _, err := s.history.appendWith(tx, EntityRef{Kind: kind, ID: id}, ChangeTypeStatusChange, userID, details); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("status transition",
		"entity", string(kind),
		"id", id,
		"status", newStatus,
		"userId", userID,
	)
	return &row, nil
}
