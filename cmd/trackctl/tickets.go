package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/solaius/trackboard/pkg/tracker"
)

var ticketCmd = &cobra.Command{
	Use:   "ticket",
	Short: "Manage tickets",
}

var (
	ticketTitle          string
	ticketDescription    string
	ticketStatus         string
	ticketPriority       string
	ticketProjectID      int64
	ticketKanbanStatusID int64
	ticketUserID         int64
)

var ticketListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tickets",
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp struct {
			Items []tracker.Ticket `json:"items"`
			Size  int              `json:"size"`
		}
		if err := newClient().getJSON("/api/v1/tickets"+pageQuery(cmd), &resp); err != nil {
			return fmt.Errorf("failed to list tickets: %w", err)
		}
		if structured() {
			return printOutput(resp)
		}
		rows := make([][]string, 0, len(resp.Items))
		for _, t := range resp.Items {
			rows = append(rows, []string{
				strconv.FormatInt(t.ID, 10), t.Title, t.Status, t.Priority,
				strconv.FormatInt(t.ProjectID, 10),
			})
		}
		printTable([]string{"ID", "Title", "Status", "Priority", "Project"}, rows)
		return nil
	},
}

var ticketGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Get a ticket by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var ticket tracker.Ticket
		if err := newClient().getJSON("/api/v1/tickets/"+args[0], &ticket); err != nil {
			return fmt.Errorf("failed to get ticket: %w", err)
		}
		if structured() {
			return printOutput(ticket)
		}
		printTable([]string{"ID", "Title", "Status", "Priority", "Project", "Lane"},
			[][]string{{strconv.FormatInt(ticket.ID, 10), ticket.Title, ticket.Status, ticket.Priority,
				strconv.FormatInt(ticket.ProjectID, 10), strconv.FormatInt(ticket.KanbanStatusID, 10)}})
		return nil
	},
}

var ticketCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a ticket",
	RunE: func(cmd *cobra.Command, args []string) error {
		req := tracker.NewTicket{
			Title:          ticketTitle,
			Description:    ticketDescription,
			Status:         ticketStatus,
			Priority:       ticketPriority,
			ProjectID:      ticketProjectID,
			KanbanStatusID: ticketKanbanStatusID,
		}
		var ticket tracker.Ticket
		if err := newClient().postJSON("/api/v1/tickets", req, &ticket); err != nil {
			return fmt.Errorf("failed to create ticket: %w", err)
		}
		if structured() {
			return printOutput(ticket)
		}
		cmd.Printf("created ticket %d (%s)\n", ticket.ID, ticket.Title)
		return nil
	},
}

var ticketDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a ticket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var ticket tracker.Ticket
		if err := newClient().deleteJSON("/api/v1/tickets/"+args[0], &ticket); err != nil {
			return fmt.Errorf("failed to delete ticket: %w", err)
		}
		cmd.Printf("deleted ticket %d (%s)\n", ticket.ID, ticket.Title)
		return nil
	},
}

var ticketSetStatusCmd = &cobra.Command{
	Use:   "set-status <id> <status>",
	Short: "Change a ticket's status (recorded in history)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]any{"status": args[1], "userId": ticketUserID}
		var ticket tracker.Ticket
		if err := newClient().putJSON("/api/v1/tickets/"+args[0]+"/status", body, &ticket); err != nil {
			return fmt.Errorf("failed to change ticket status: %w", err)
		}
		if structured() {
			return printOutput(ticket)
		}
		cmd.Printf("ticket %d status is now %q\n", ticket.ID, ticket.Status)
		return nil
	},
}

func init() {
	ticketCreateCmd.Flags().StringVar(&ticketTitle, "title", "", "Ticket title (required)")
	ticketCreateCmd.Flags().StringVar(&ticketDescription, "description", "", "Ticket description")
	ticketCreateCmd.Flags().StringVar(&ticketStatus, "status", "To Do", "Initial status")
	ticketCreateCmd.Flags().StringVar(&ticketPriority, "priority", "medium", "Priority")
	ticketCreateCmd.Flags().Int64Var(&ticketProjectID, "project", 0, "Owning project id (required)")
	ticketCreateCmd.Flags().Int64Var(&ticketKanbanStatusID, "lane", 0, "Kanban status lane id (required)")
	_ = ticketCreateCmd.MarkFlagRequired("title")
	_ = ticketCreateCmd.MarkFlagRequired("project")
	_ = ticketCreateCmd.MarkFlagRequired("lane")

	ticketSetStatusCmd.Flags().Int64Var(&ticketUserID, "user", 0, "Acting user id (required)")
	_ = ticketSetStatusCmd.MarkFlagRequired("user")

	addPageFlags(ticketListCmd)

	ticketCmd.AddCommand(ticketListCmd, ticketGetCmd, ticketCreateCmd, ticketDeleteCmd, ticketSetStatusCmd)
}
