package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestTransitionService(t *testing.T, db *gorm.DB) *TransitionService {
	t.Helper()
	return NewTransitionService(db, NewHistoryStore(db, nil), nil)
}

func TestTransitionProjectWritesStatusAndHistory(t *testing.T) {
	db := setupTestDB(t)
	board := createTestBoard(t, db)
	projects := NewProjectStore(db, nil)
	history := NewHistoryStore(db, nil)
	svc := newTestTransitionService(t, db)

	project, err := projects.Create(NewProject{Name: "P", Description: "scenario", BoardID: board.ID, Status: "New"})
	require.NoError(t, err)

	updated, err := svc.TransitionProject(project.ID, "Done", 7)
	require.NoError(t, err)
	assert.Equal(t, "Done", updated.Status)

	// Exactly one matching ledger entry exists.
	entries, err := history.ListByEntity(ProjectRef(project.ID), 0, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, ChangeTypeStatusChange, entries[0].ChangeType)
	assert.Equal(t, int64(7), entries[0].UserID)
	assert.Equal(t, "Status changed to Done", entries[0].Details)

	// The persisted row matches what was returned.
	stored, err := projects.Get(project.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Done", stored.Status)
}

func TestTransitionTicketWritesStatusAndHistory(t *testing.T) {
	db := setupTestDB(t)
	board := createTestBoard(t, db)
	lane, err := NewStatusStore(db, nil).Create(NewKanbanStatus{Name: "To Do", BoardID: board.ID})
	require.NoError(t, err)
	project, err := NewProjectStore(db, nil).Create(NewProject{Name: "P", Description: "d", BoardID: board.ID})
	require.NoError(t, err)
	ticket, err := NewTicketStore(db, nil).Create(NewTicket{
		Title: "T", Description: "d", Status: "To Do", Priority: "high",
		ProjectID: project.ID, KanbanStatusID: lane.ID,
	})
	require.NoError(t, err)

	svc := newTestTransitionService(t, db)
	updated, err := svc.TransitionTicket(ticket.ID, "In Progress", 3)
	require.NoError(t, err)
	assert.Equal(t, "In Progress", updated.Status)

	entries, err := NewHistoryStore(db, nil).ListByEntity(TicketRef(ticket.ID), 0, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Status changed to In Progress", entries[0].Details)
}

func TestTransitionRefreshesUpdatedAt(t *testing.T) {
	db := setupTestDB(t)
	board := createTestBoard(t, db)
	project, err := NewProjectStore(db, nil).Create(NewProject{Name: "P", Description: "d", BoardID: board.ID})
	require.NoError(t, err)

	svc := newTestTransitionService(t, db)
	updated, err := svc.TransitionProject(project.ID, "Done", 1)
	require.NoError(t, err)
	assert.False(t, updated.UpdatedAt.Before(project.UpdatedAt))
}

func TestTransitionMissingProjectLeavesNoTrace(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestTransitionService(t, db)

	_, err := svc.TransitionProject(42, "Done", 7)
	var nfe *NotFoundError
	require.ErrorAs(t, err, &nfe)
	assert.Equal(t, "project", nfe.Entity)

	var count int64
	require.NoError(t, db.Model(&History{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestTransitionMissingTicketLeavesNoTrace(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestTransitionService(t, db)

	_, err := svc.TransitionTicket(42, "Done", 7)
	var nfe *NotFoundError
	require.ErrorAs(t, err, &nfe)
	assert.Equal(t, "ticket", nfe.Entity)
}

func TestTransitionDispatchRejectsNonStatusKinds(t *testing.T) {
	db := setupTestDB(t)
	svc := newTestTransitionService(t, db)

	_, err := svc.Transition(EntityRef{Kind: KindKanbanBoard, ID: 1}, "Done", 1)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestTransitionDispatchRoutesByKind(t *testing.T) {
	db := setupTestDB(t)
	board := createTestBoard(t, db)
	project, err := NewProjectStore(db, nil).Create(NewProject{Name: "P", Description: "d", BoardID: board.ID})
	require.NoError(t, err)

	svc := newTestTransitionService(t, db)
	result, err := svc.Transition(ProjectRef(project.ID), "Done", 2)
	require.NoError(t, err)
	updated, ok := result.(*Project)
	require.True(t, ok)
	assert.Equal(t, "Done", updated.Status)
}

// A failing history insert must roll the status write back with it. Dropping
// the history table makes step two of the transition fail after the status
// update has already been applied inside the transaction.
func TestTransitionRollsBackStatusWhenHistoryFails(t *testing.T) {
	db := setupTestDB(t)
	board := createTestBoard(t, db)
	projects := NewProjectStore(db, nil)
	project, err := projects.Create(NewProject{Name: "P", Description: "d", BoardID: board.ID, Status: "New"})
	require.NoError(t, err)

	require.NoError(t, db.Migrator().DropTable(&History{}))

	svc := newTestTransitionService(t, db)
	_, err = svc.TransitionProject(project.ID, "Done", 7)
	var se *StorageError
	require.ErrorAs(t, err, &se)

	stored, err := projects.Get(project.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "New", stored.Status, "status must keep its pre-transition value")
}
