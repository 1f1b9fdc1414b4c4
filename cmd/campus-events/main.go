package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "campus-events",
	Short: "Campus event bulletin with chat reminders",
	Long: `Campus event bulletin: a REST API for the dashboard, Telegram and WhatsApp bots,
and reminders sent to chat before events start.

Configuration is read from the environment and an optional .env file.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
