package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// exitIncomplete is returned by parse when required fields are missing.
const exitIncomplete = 2

var rootCmd = &cobra.Command{
	Use:   "faultctl",
	Short: "Operator tooling for AGV fault reports",
	Long: `faultctl works with AGV fault reports outside the HTTP service.

Available subcommands:
  parse  - Parse a free-text report and print the structured record
  export - Export stored faults as CSV or XLSX
  token  - Issue an operator token for the write API`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.AddCommand(parseCmd, exportCmd, tokenCmd)
	if err := rootCmd.Execute(); err != nil {
		if code, ok := err.(exitCodeError); ok {
			os.Exit(int(code))
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type exitCodeError int

func (e exitCodeError) Error() string {
	return fmt.Sprintf("exit status %d", int(e))
}
