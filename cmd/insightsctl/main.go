// Command insightsctl runs the question pipeline from a terminal and manages
// the stored Gemini API key.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "insightsctl",
	Short:         "Ask rideshare questions and manage provider credentials",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	_ = godotenv.Load()

	rootCmd.AddCommand(askCmd, setKeyCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
