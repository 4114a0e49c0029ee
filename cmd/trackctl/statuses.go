package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/solaius/trackboard/pkg/tracker"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Manage kanban status lanes",
}

var (
	statusName        string
	statusDescription string
	statusBoardID     int64
)

var statusListCmd = &cobra.Command{
	Use:   "list",
	Short: "List kanban statuses",
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp struct {
			Items []tracker.KanbanStatus `json:"items"`
			Size  int                    `json:"size"`
		}
		if err := newClient().getJSON("/api/v1/statuses"+pageQuery(cmd), &resp); err != nil {
			return fmt.Errorf("failed to list statuses: %w", err)
		}
		if structured() {
			return printOutput(resp)
		}
		rows := make([][]string, 0, len(resp.Items))
		for _, s := range resp.Items {
			rows = append(rows, []string{strconv.FormatInt(s.ID, 10), s.Name, strconv.FormatInt(s.BoardID, 10), s.Description})
		}
		printTable([]string{"ID", "Name", "Board", "Description"}, rows)
		return nil
	},
}

var statusGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Get a kanban status by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var status tracker.KanbanStatus
		if err := newClient().getJSON("/api/v1/statuses/"+args[0], &status); err != nil {
			return fmt.Errorf("failed to get status: %w", err)
		}
		if structured() {
			return printOutput(status)
		}
		printTable([]string{"ID", "Name", "Board", "Description"},
			[][]string{{strconv.FormatInt(status.ID, 10), status.Name, strconv.FormatInt(status.BoardID, 10), status.Description}})
		return nil
	},
}

var statusCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a kanban status",
	RunE: func(cmd *cobra.Command, args []string) error {
		req := tracker.NewKanbanStatus{Name: statusName, Description: statusDescription, BoardID: statusBoardID}
		var status tracker.KanbanStatus
		if err := newClient().postJSON("/api/v1/statuses", req, &status); err != nil {
			return fmt.Errorf("failed to create status: %w", err)
		}
		if structured() {
			return printOutput(status)
		}
		cmd.Printf("created status %d (%s) on board %d\n", status.ID, status.Name, status.BoardID)
		return nil
	},
}

var statusDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a kanban status",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var status tracker.KanbanStatus
		if err := newClient().deleteJSON("/api/v1/statuses/"+args[0], &status); err != nil {
			return fmt.Errorf("failed to delete status: %w", err)
		}
		cmd.Printf("deleted status %d (%s)\n", status.ID, status.Name)
		return nil
	},
}

func init() {
	statusCreateCmd.Flags().StringVar(&statusName, "name", "", "Status name (required)")
	statusCreateCmd.Flags().StringVar(&statusDescription, "description", "", "Status description")
	statusCreateCmd.Flags().Int64Var(&statusBoardID, "board", 0, "Owning board id (required)")
	_ = statusCreateCmd.MarkFlagRequired("name")
	_ = statusCreateCmd.MarkFlagRequired("board")

	addPageFlags(statusListCmd)

	statusCmd.AddCommand(statusListCmd, statusGetCmd, statusCreateCmd, statusDeleteCmd)
}
