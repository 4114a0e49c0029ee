package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/solaius/trackboard/pkg/tracker"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Manage boards",
}

var (
	boardName        string
	boardDescription string
)

var boardListCmd = &cobra.Command{
	Use:   "list",
	Short: "List boards",
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp struct {
			Items []tracker.Board `json:"items"`
			Size  int             `json:"size"`
		}
		if err := newClient().getJSON("/api/v1/boards"+pageQuery(cmd), &resp); err != nil {
			return fmt.Errorf("failed to list boards: %w", err)
		}
		if structured() {
			return printOutput(resp)
		}
		rows := make([][]string, 0, len(resp.Items))
		for _, b := range resp.Items {
			rows = append(rows, []string{strconv.FormatInt(b.ID, 10), b.Name, b.Description})
		}
		printTable([]string{"ID", "Name", "Description"}, rows)
		return nil
	},
}

var boardGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Get a board by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var board tracker.Board
		if err := newClient().getJSON("/api/v1/boards/"+args[0], &board); err != nil {
			return fmt.Errorf("failed to get board: %w", err)
		}
		if structured() {
			return printOutput(board)
		}
		printTable([]string{"ID", "Name", "Description", "Created"},
			[][]string{{strconv.FormatInt(board.ID, 10), board.Name, board.Description, board.CreatedAt.Format("2006-01-02 15:04:05")}})
		return nil
	},
}

var boardCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a board",
	RunE: func(cmd *cobra.Command, args []string) error {
		req := tracker.NewBoard{Name: boardName, Description: boardDescription}
		var board tracker.Board
		if err := newClient().postJSON("/api/v1/boards", req, &board); err != nil {
			return fmt.Errorf("failed to create board: %w", err)
		}
		if structured() {
			return printOutput(board)
		}
		cmd.Printf("created board %d (%s)\n", board.ID, board.Name)
		return nil
	},
}

var boardDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a board",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var board tracker.Board
		if err := newClient().deleteJSON("/api/v1/boards/"+args[0], &board); err != nil {
			return fmt.Errorf("failed to delete board: %w", err)
		}
		cmd.Printf("deleted board %d (%s)\n", board.ID, board.Name)
		return nil
	},
}

func init() {
	boardCreateCmd.Flags().StringVar(&boardName, "name", "", "Board name (required)")
	boardCreateCmd.Flags().StringVar(&boardDescription, "description", "", "Board description")
	_ = boardCreateCmd.MarkFlagRequired("name")

	addPageFlags(boardListCmd)

	boardCmd.AddCommand(boardListCmd, boardGetCmd, boardCreateCmd, boardDeleteCmd)
}

// addPageFlags registers the shared offset/limit flags on a list command.
func addPageFlags(cmd *cobra.Command) {
	cmd.Flags().Int("offset", 0, "Number of items to skip")
	cmd.Flags().Int("limit", 10, "Maximum number of items to return")
}

// pageQuery renders the offset/limit flags as a query string.
func pageQuery(cmd *cobra.Command) string {
	offset, _ := cmd.Flags().GetInt("offset")
	limit, _ := cmd.Flags().GetInt("limit")
	return fmt.Sprintf("?offset=%d&limit=%d", offset, limit)
}
