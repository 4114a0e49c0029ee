package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/solaius/trackboard/pkg/tracker"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Query the audit history ledger",
}

var (
	historyEntityType string
	historyEntityID   int64
)

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List history entries for one entity",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := fmt.Sprintf("/api/v1/history%s&entityType=%s&entityId=%d",
			pageQuery(cmd), historyEntityType, historyEntityID)
		var resp struct {
			Items []tracker.History `json:"items"`
			Size  int               `json:"size"`
		}
		if err := newClient().getJSON(path, &resp); err != nil {
			return fmt.Errorf("failed to list history: %w", err)
		}
		if structured() {
			return printOutput(resp)
		}
		rows := make([][]string, 0, len(resp.Items))
		for _, h := range resp.Items {
			rows = append(rows, []string{
				strconv.FormatInt(h.ID, 10),
				string(h.EntityType),
				strconv.FormatInt(h.EntityID, 10),
				h.ChangeType,
				strconv.FormatInt(h.UserID, 10),
				h.Timestamp.Format("2006-01-02 15:04:05"),
				h.Details,
			})
		}
		printTable([]string{"ID", "Entity", "Entity ID", "Change", "User", "Time", "Details"}, rows)
		return nil
	},
}

var historyGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Get a history entry by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var entry tracker.History
		if err := newClient().getJSON("/api/v1/history/"+args[0], &entry); err != nil {
			return fmt.Errorf("failed to get history entry: %w", err)
		}
		if structured() {
			return printOutput(entry)
		}
		printTable([]string{"ID", "Entity", "Entity ID", "Change", "User", "Time", "Details"},
			[][]string{{strconv.FormatInt(entry.ID, 10), string(entry.EntityType),
				strconv.FormatInt(entry.EntityID, 10), entry.ChangeType,
				strconv.FormatInt(entry.UserID, 10), entry.Timestamp.Format("2006-01-02 15:04:05"),
				entry.Details}})
		return nil
	},
}

func init() {
	historyListCmd.Flags().StringVar(&historyEntityType, "entity-type", "", "Entity kind: project, ticket, kanban_board, kanban_status (required)")
	historyListCmd.Flags().Int64Var(&historyEntityID, "entity-id", 0, "Entity id (required)")
	_ = historyListCmd.MarkFlagRequired("entity-type")
	_ = historyListCmd.MarkFlagRequired("entity-id")

	addPageFlags(historyListCmd)

	historyCmd.AddCommand(historyListCmd, historyGetCmd)
}
