package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var noColor bool

var rootCmd = &cobra.Command{
	Use:   "skynetra",
	Short: "SKYNETRA disaster risk prediction and safety assistant",
	Long: `SKYNETRA combines live weather forecasts with hazard classification and
multilingual safety guidance for Indian cities. It serves an HTTP API, an MCP
server over stdio, and a set of CLI commands for asking questions and managing
conversation sessions.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the skynetra version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("skynetra version %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(risksCmd)
	rootCmd.AddCommand(alertsCmd)
	rootCmd.AddCommand(sessionCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
