package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	serverURL string
	outputFmt string
)

var rootCmd = &cobra.Command{
	Use:   "trackctl",
	Short: "CLI for the trackboard server",
	Long: `trackctl manages boards, projects, tickets, and the audit history of a
trackboard server over its HTTP API.`,
}

func init() {
	defaultServer := os.Getenv("TRACKBOARD_SERVER")
	if defaultServer == "" {
		defaultServer = "http://localhost:8080"
	}

	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultServer, "Trackboard server URL")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "table", "Output format: table, json, yaml")

	rootCmd.AddCommand(boardCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(ticketCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(healthCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check server health",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		var resp struct {
			Status string `json:"status"`
		}
		if err := client.getJSON("/healthz", &resp); err != nil {
			return err
		}
		cmd.Printf("server %s: %s\n", serverURL, resp.Status)
		return nil
	},
}
