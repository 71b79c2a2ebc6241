package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"fault-service/internal/config"
	"fault-service/internal/db"
	"fault-service/internal/export"
	"fault-service/internal/logger"
	"fault-service/internal/repository"
	"fault-service/internal/service"
)

var (
	exportFrom   string
	exportTo     string
	exportFormat string
	exportOut    string
)

// exportCmd writes the same table as GET /api/v1/export
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored faults",
	Long: `Export faults from the configured store, newest first.

The store is selected by the same environment as the service (DB_DRIVER,
DB_DSN, APP_TIMEZONE).`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFrom, "from", "", "first day to include (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&exportTo, "to", "", "last day to include (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "csv or xlsx")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	format, ok := export.ParseFormat(exportFormat)
	if !ok {
		return fmt.Errorf("unknown format %q", exportFormat)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.Environment, cfg.LogLevel)

	database, err := db.New(cfg, log)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close(database)

	svc := service.NewFaultService(repository.NewFaultRepository(database), cfg.Location)

	err = writeOutput(exportOut, cmd.OutOrStdout(), func(w io.Writer) error {
		return svc.Export(context.Background(), w, format, exportFrom, exportTo)
	})
	if err != nil {
		return err
	}
	log.Info().Str("format", string(format)).Str("out", exportOut).Msg("export written")
	return nil
}

// writeOutput sends write to stdout, or to path when set. A failed write or
// close removes the partial file.
func writeOutput(path string, stdout io.Writer, write func(io.Writer) error) error {
	if path == "" {
		return write(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
