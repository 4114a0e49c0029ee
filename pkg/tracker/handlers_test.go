package tracker

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	db := setupTestDB(t)
	api := NewAPI(db, nil)
	srv := httptest.NewServer(api.Router())
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeResp(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestHealthz(t *testing.T) {
	srv := setupTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeResp(t, resp, &body)
	assert.Equal(t, "ok", body["status"])
}

// Exercises the full lifecycle over HTTP: board, project, ticket, a status
// transition, and the ledger entry it produced.
func TestAPIEndToEnd(t *testing.T) {
	srv := setupTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/boards", NewBoard{Name: "Team Board"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var board Board
	decodeResp(t, resp, &board)
	require.NotZero(t, board.ID)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/statuses", NewKanbanStatus{Name: "To Do", BoardID: board.ID})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var status KanbanStatus
	decodeResp(t, resp, &status)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/projects", NewProject{
		Name:        "Launch",
		Description: "launch tracking",
		BoardID:     board.ID,
		Status:      "New",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var project Project
	decodeResp(t, resp, &project)
	assert.Equal(t, "New", project.Status)

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/tickets", NewTicket{
		Title:          "Write docs",
		Description:    "user guide",
		Status:         "Open",
		Priority:       "high",
		ProjectID:      project.ID,
		KanbanStatusID: status.ID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var ticket Ticket
	decodeResp(t, resp, &ticket)

	resp = doJSON(t, http.MethodPut, fmt.Sprintf("%s/api/v1/projects/%d/status", srv.URL, project.ID),
		statusChangeRequest{Status: "Done", UserID: 7})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeResp(t, resp, &project)
	assert.Equal(t, "Done", project.Status)

	resp, err := http.Get(fmt.Sprintf("%s/api/v1/history?entityType=project&entityId=%d", srv.URL, project.ID))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page struct {
		Items []History `json:"items"`
		Size  int       `json:"size"`
	}
	decodeResp(t, resp, &page)
	require.Equal(t, 1, page.Size)
	assert.Equal(t, ChangeTypeStatusChange, page.Items[0].ChangeType)
	assert.Equal(t, "Status changed to Done", page.Items[0].Details)
	assert.Equal(t, int64(7), page.Items[0].UserID)

	resp = doJSON(t, http.MethodPut, fmt.Sprintf("%s/api/v1/tickets/%d/status", srv.URL, ticket.ID),
		statusChangeRequest{Status: "In Review", UserID: 7})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeResp(t, resp, &ticket)
	assert.Equal(t, "In Review", ticket.Status)
}

func TestUpdateIsPartial(t *testing.T) {
	srv := setupTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/boards", NewBoard{Name: "Before", Description: "keep me"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var board Board
	decodeResp(t, resp, &board)

	name := "After"
	resp = doJSON(t, http.MethodPut, fmt.Sprintf("%s/api/v1/boards/%d", srv.URL, board.ID), BoardUpdate{Name: &name})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeResp(t, resp, &board)
	assert.Equal(t, "After", board.Name)
	assert.Equal(t, "keep me", board.Description)
}

func TestValidationErrorsMapTo400(t *testing.T) {
	srv := setupTestServer(t)

	// missing name
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/boards", NewBoard{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// project pointing at a board that does not exist
	resp = doJSON(t, http.MethodPost, srv.URL+"/api/v1/projects", NewProject{
		Name: "Orphan", Description: "d", BoardID: 999,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body map[string]string
	decodeResp(t, resp, &body)
	assert.Contains(t, body["error"], "board 999 does not exist")

	// malformed body
	req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/v1/boards", bytes.NewBufferString("{"))
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// non-numeric id in the path
	resp, err = http.Get(srv.URL + "/api/v1/boards/abc")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestMissingEntitiesMapTo404(t *testing.T) {
	srv := setupTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/projects/42")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/v1/tickets/42", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// transition on a missing project must not leave a ledger entry
	resp = doJSON(t, http.MethodPut, srv.URL+"/api/v1/projects/42/status", statusChangeRequest{Status: "Done", UserID: 1})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/api/v1/history?entityType=project&entityId=42")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page struct {
		Size int `json:"size"`
	}
	decodeResp(t, resp, &page)
	assert.Zero(t, page.Size)
}

func TestHistoryListRequiresEntityFilter(t *testing.T) {
	srv := setupTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/history")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/api/v1/history?entityType=widget&entityId=1")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestListPaginationOverHTTP(t *testing.T) {
	srv := setupTestServer(t)

	for i := 0; i < 12; i++ {
		resp := doJSON(t, http.MethodPost, srv.URL+"/api/v1/boards", NewBoard{Name: fmt.Sprintf("board-%02d", i)})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp, err := http.Get(srv.URL + "/api/v1/boards?offset=10&limit=5")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var page struct {
		Items []Board `json:"items"`
		Size  int     `json:"size"`
	}
	decodeResp(t, resp, &page)
	require.Equal(t, 2, page.Size)
	assert.Equal(t, "board-10", page.Items[0].Name)
	assert.Equal(t, "board-11", page.Items[1].Name)
}

func TestRequestIDHeaderEcho(t *testing.T) {
	srv := setupTestServer(t)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-Id", "req-123")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "req-123", resp.Header.Get("X-Request-Id"))
}
