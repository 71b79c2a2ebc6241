package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"fault-service/internal/config"
	"fault-service/internal/parser"
)

var parseTimezone string

// parseCmd runs the report parser without touching the store
var parseCmd = &cobra.Command{
	Use:   "parse [file|-]",
	Short: "Parse a free-text fault report",
	Long: `Parse a free-text fault report and print the candidate record as JSON.

The report is read from the given file, or from stdin when the argument is
omitted or "-". When required fields are missing the raw extraction and the
missing fields are printed instead and the command exits with status 2.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().StringVar(&parseTimezone, "tz", "", "timezone used to interpret the report time (default APP_TIMEZONE)")
}

func runParse(cmd *cobra.Command, args []string) error {
	loc, err := parseLocation()
	if err != nil {
		return err
	}

	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")

	report, err := parser.New(loc).Parse(text)
	if err != nil {
		var incomplete *parser.IncompleteError
		if !errors.As(err, &incomplete) {
			return err
		}
		if encErr := enc.Encode(map[string]any{
			"missing":   incomplete.Missing,
			"extracted": incomplete.Extracted,
		}); encErr != nil {
			return encErr
		}
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return exitCodeError(exitIncomplete)
	}

	return enc.Encode(report)
}

// parseLocation matches the service unless --tz overrides it.
func parseLocation() (*time.Location, error) {
	if parseTimezone == "" {
		return config.LoadLocation()
	}
	loc, err := time.LoadLocation(parseTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid --tz: %w", err)
	}
	return loc, nil
}

func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		raw, err := io.ReadAll(cmd.InOrStdin())
		return string(raw), err
	}
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
