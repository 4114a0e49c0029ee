package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/solaius/trackboard/pkg/tracker"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
}

var (
	projectName        string
	projectDescription string
	projectBoardID     int64
	projectStatus      string
	projectUserID      int64
)

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects",
	RunE: func(cmd *cobra.Command, args []string) error {
		var resp struct {
			Items []tracker.Project `json:"items"`
			Size  int               `json:"size"`
		}
		if err := newClient().getJSON("/api/v1/projects"+pageQuery(cmd), &resp); err != nil {
			return fmt.Errorf("failed to list projects: %w", err)
		}
		if structured() {
			return printOutput(resp)
		}
		rows := make([][]string, 0, len(resp.Items))
		for _, p := range resp.Items {
			rows = append(rows, []string{strconv.FormatInt(p.ID, 10), p.Name, p.Status, strconv.FormatInt(p.BoardID, 10)})
		}
		printTable([]string{"ID", "Name", "Status", "Board"}, rows)
		return nil
	},
}

var projectGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Get a project by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var project tracker.Project
		if err := newClient().getJSON("/api/v1/projects/"+args[0], &project); err != nil {
			return fmt.Errorf("failed to get project: %w", err)
		}
		if structured() {
			return printOutput(project)
		}
		printTable([]string{"ID", "Name", "Status", "Board", "Updated"},
			[][]string{{strconv.FormatInt(project.ID, 10), project.Name, project.Status,
				strconv.FormatInt(project.BoardID, 10), project.UpdatedAt.Format("2006-01-02 15:04:05")}})
		return nil
	},
}

var projectCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a project",
	RunE: func(cmd *cobra.Command, args []string) error {
		req := tracker.NewProject{
			Name:        projectName,
			Description: projectDescription,
			BoardID:     projectBoardID,
			Status:      projectStatus,
		}
		var project tracker.Project
		if err := newClient().postJSON("/api/v1/projects", req, &project); err != nil {
			return fmt.Errorf("failed to create project: %w", err)
		}
		if structured() {
			return printOutput(project)
		}
		cmd.Printf("created project %d (%s) on board %d\n", project.ID, project.Name, project.BoardID)
		return nil
	},
}

var projectDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var project tracker.Project
		if err := newClient().deleteJSON("/api/v1/projects/"+args[0], &project); err != nil {
			return fmt.Errorf("failed to delete project: %w", err)
		}
		cmd.Printf("deleted project %d (%s)\n", project.ID, project.Name)
		return nil
	},
}

var projectSetStatusCmd = &cobra.Command{
	Use:   "set-status <id> <status>",
	Short: "Change a project's status (recorded in history)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := map[string]any{"status": args[1], "userId": projectUserID}
		var project tracker.Project
		if err := newClient().putJSON("/api/v1/projects/"+args[0]+"/status", body, &project); err != nil {
			return fmt.Errorf("failed to change project status: %w", err)
		}
		if structured() {
			return printOutput(project)
		}
		cmd.Printf("project %d status is now %q\n", project.ID, project.Status)
		return nil
	},
}

func init() {
	projectCreateCmd.Flags().StringVar(&projectName, "name", "", "Project name (required)")
	projectCreateCmd.Flags().StringVar(&projectDescription, "description", "", "Project description")
	projectCreateCmd.Flags().Int64Var(&projectBoardID, "board", 0, "Owning board id (required)")
	projectCreateCmd.Flags().StringVar(&projectStatus, "status", "", "Initial status")
	_ = projectCreateCmd.MarkFlagRequired("name")
	_ = projectCreateCmd.MarkFlagRequired("board")

	projectSetStatusCmd.Flags().Int64Var(&projectUserID, "user", 0, "Acting user id (required)")
	_ = projectSetStatusCmd.MarkFlagRequired("user")

	addPageFlags(projectListCmd)

	projectCmd.AddCommand(projectListCmd, projectGetCmd, projectCreateCmd, projectDeleteCmd, projectSetStatusCmd)
}
