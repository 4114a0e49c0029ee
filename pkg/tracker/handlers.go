package tracker

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"
)

// API bundles the stores behind the HTTP surface. Construct it with NewAPI
// and mount Router() into an http.Server.
type API struct {
	db          *gorm.DB
	boards      *BoardStore
	statuses    *StatusStore
	projects    *ProjectStore
	tickets     *TicketStore
	history     *HistoryStore
	transitions *TransitionService
	logger      *slog.Logger
}

// NewAPI wires all stores and the transition service over one database
// handle.
func NewAPI(db *gorm.DB, logger *slog.Logger) *API {
	if logger == nil {
		logger = slog.Default()
	}
	history := NewHistoryStore(db, logger)
	return &API{
		db:          db,
		boards:      NewBoardStore(db, logger),
		statuses:    NewStatusStore(db, logger),
		projects:    NewProjectStore(db, logger),
		tickets:     NewTicketStore(db, logger),
		history:     history,
		transitions: NewTransitionService(db, history, logger),
		logger:      logger,
	}
}

// Boards exposes the board store for non-HTTP callers (bootstrap, CLI tests).
func (a *API) Boards() *BoardStore { return a.boards }

// Projects exposes the project store.
func (a *API) Projects() *ProjectStore { return a.projects }

// Tickets exposes the ticket store.
func (a *API) Tickets() *TicketStore { return a.tickets }

// Statuses exposes the kanban status store.
func (a *API) Statuses() *StatusStore { return a.statuses }

// History exposes the history ledger.
func (a *API) History() *HistoryStore { return a.history }

// Transitions exposes the status-transition service.
func (a *API) Transitions() *TransitionService { return a.transitions }

// writeCoreError maps the package error taxonomy onto HTTP status codes.
func (a *API) writeCoreError(w http.ResponseWriter, err error) {
	var ve *ValidationError
	var nfe *NotFoundError
	switch {
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Error())
	case errors.As(err, &nfe):
		writeError(w, http.StatusNotFound, nfe.Error())
	default:
		a.logger.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func parseID(r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// parsePage reads offset/limit query params; absent or malformed values fall
// back to the store defaults.
func parsePage(r *http.Request) (offset, limit int) {
	limit = DefaultListLimit
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			offset = n
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	return offset, limit
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// statusChangeRequest is the body of the transition endpoints.
type statusChangeRequest struct {
	Status string `json:"status"`
	UserID int64  `json:"userId"`
}

// --- boards ---

func (a *API) createBoard(w http.ResponseWriter, r *http.Request) {
	var req NewBoard
	if !decodeBody(w, r, &req) {
		return
	}
	board, err := a.boards.Create(req)
	if err != nil {
		a.writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, board)
}

func (a *API) getBoard(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "boardID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid board id")
		return
	}
	board, err := a.boards.Get(id)
	if err != nil {
		a.writeCoreError(w, err)
		return
	}
	if board == nil {
		writeError(w, http.StatusNotFound, "board not found")
		return
	}
	writeJSON(w, http.StatusOK, board)
}

func (a *API) listBoards(w http.ResponseWriter, r *http.Request) {
	offset, limit := parsePage(r)
	boards, err := a.boards.List(offset, limit)
	if err != nil {
		a.writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": boards, "size": len(boards)})
}

func (a *API) updateBoard(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "boardID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid board id")
		return
	}
	var upd BoardUpdate
	if !decodeBody(w, r, &upd) {
		return
	}
	board, err := a.boards.Update(id, upd)
	if err != nil {
		a.writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

func (a *API) deleteBoard(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "boardID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid board id")
		return
	}
	board, err := a.boards.Delete(id)
	if err != nil {
		a.writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

// --- kanban statuses ---

func (a *API) createStatus(w http.ResponseWriter, r *http.Request) {
	var req NewKanbanStatus
	if !decodeBody(w, r, &req) {
		return
	}
	status, err := a.statuses.Create(req)
	if err != nil {
		a.writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, status)
}

func (a *API) getStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "statusID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid status id")
		return
	}
	status, err := a.statuses.Get(id)
	if err != nil {
		a.writeCoreError(w, err)
		return
	}
	if status == nil {
		writeError(w, http.StatusNotFound, "kanban status not found")
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (a *API) listStatuses(w http.ResponseWriter, r *http.Request) {
	offset, limit := parsePage(r)
	statuses, err := a.statuses.List(offset, limit)
	if err != nil {
		a.writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": statuses, "size": len(statuses)})
}

func (a *API) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "statusID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid status id")
		return
	}
	var upd KanbanStatusUpdate
	if !decodeBody(w, r, &upd) {
		return
	}
	status, err := a.statuses.Update(id, upd)
	if err != nil {
		a.writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (a *API) deleteStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "statusID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid status id")
		return
	}
	status, err := a.statuses.Delete(id)
	if err != nil {
		a.writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// --- projects ---

func (a *API) createProject(w http.ResponseWriter, r *http.Request) {
	var req NewProject
	if !decodeBody(w, r, &req) {
		return
	}
	project, err := a.projects.Create(req)
	if err != nil {
		a.writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, project)
}

func (a *API) getProject(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "projectID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}
	project, err := a.projects.Get(id)
	if err != nil {
		a.writeCoreError(w, err)
		return
	}
	if project == nil {
		writeError(w, http.StatusNotFound, "project not found")
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (a *API) listProjects(w http.ResponseWriter, r *http.Request) {
	offset, limit := parsePage(r)
	projects, err := a.projects.List(offset, limit)
	if err != nil {
		a.writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": projects, "size": len(projects)})
}

func (a *API) updateProject(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "projectID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}
	var upd ProjectUpdate
	if !decodeBody(w, r, &upd) {
		return
	}
	project, err := a.projects.Update(id, upd)
	if err != nil {
		a.writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (a *API) deleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "projectID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}
	project, err := a.projects.Delete(id)
	if err != nil {
		a.writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

func (a *API) transitionProject(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "projectID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid project id")
		return
	}
	var req statusChangeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	project, err := a.transitions.TransitionProject(id, req.Status, req.UserID)
	if err != nil {
		a.writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// --- tickets ---

func (a *API) createTicket(w http.ResponseWriter, r *http.Request) {
	var req NewTicket
	if !decodeBody(w, r, &req) {
		return
	}
	ticket, err := a.tickets.Create(req)
	if err != nil {
		a.writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, ticket)
}

func (a *API) getTicket(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "ticketID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid ticket id")
		return
	}
	ticket, err := a.tickets.Get(id)
	if err != nil {
		a.writeCoreError(w, err)
		return
	}
	if ticket == nil {
		writeError(w, http.StatusNotFound, "ticket not found")
		return
	}
	writeJSON(w, http.StatusOK, ticket)
}

func (a *API) listTickets(w http.ResponseWriter, r *http.Request) {
	offset, limit := parsePage(r)
	tickets, err := a.tickets.List(offset, limit)
	if err != nil {
		a.writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": tickets, "size": len(tickets)})
}

func (a *API) updateTicket(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "ticketID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid ticket id")
		return
	}
	var upd TicketUpdate
	if !decodeBody(w, r, &upd) {
		return
	}
	ticket, err := a.tickets.Update(id, upd)
	if err != nil {
		a.writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ticket)
}

func (a *API) deleteTicket(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "ticketID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid ticket id")
		return
	}
	ticket, err := a.tickets.Delete(id)
	if err != nil {
		a.writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ticket)
}

func (a *API) transitionTicket(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "ticketID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid ticket id")
		return
	}
	var req statusChangeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ticket, err := a.transitions.TransitionTicket(id, req.Status, req.UserID)
	if err != nil {
		a.writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ticket)
}

// --- history ---

func (a *API) getHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "historyID")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid history id")
		return
	}
	entry, err := a.history.Get(id)
	if err != nil {
		a.writeCoreError(w, err)
		return
	}
	if entry == nil {
		writeError(w, http.StatusNotFound, "history entry not found")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// listHistory handles GET /history?entityType=project&entityId=1. Both
// filter parameters are required: the ledger is only queryable by owner.
func (a *API) listHistory(w http.ResponseWriter, r *http.Request) {
	kind := EntityKind(r.URL.Query().Get("entityType"))
	entityID, err := strconv.ParseInt(r.URL.Query().Get("entityId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "entityId must be a positive integer")
		return
	}
	offset, limit := parsePage(r)
	entries, err := a.history.ListByEntity(EntityRef{Kind: kind, ID: entityID}, offset, limit)
	if err != nil {
		a.writeCoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": entries, "size": len(entries)})
}

func (a *API) healthz(w http.ResponseWriter, r *http.Request) {
	sqlDB, err := a.db.DB()
	if err == nil {
		err = sqlDB.PingContext(r.Context())
	}
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
