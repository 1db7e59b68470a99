package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/rollcall/internal/excel"
	"github.com/mesh-intelligence/rollcall/internal/jsonstore"
	"github.com/mesh-intelligence/rollcall/internal/report"
)

func newExportCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the attendance spreadsheet for one day",
		Long:  "Aggregate recorded partitions and write the attendance workbook for the given day.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, date)
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "day to export as YYYY-MM-DD (default: today)")
	return cmd
}

func runExport(cmd *cobra.Command, date string) error {
	cfg, err := loadConfig()
	if err != nil {
		return exitError(cmd, exitUserError, err.Error())
	}
	loc := cfg.Location()

	target := time.Now().In(loc)
	if date != "" {
		target, err = time.ParseInLocation("2006-01-02", date, loc)
		if err != nil {
			return exitError(cmd, exitUserError, fmt.Sprintf("invalid --date %q: use YYYY-MM-DD", date))
		}
	}

	reports := report.New(jsonstore.NewReader(cfg.DataDir), excel.NewWriter(), cfg)
	res, err := reports.Export(target)
	if err != nil {
		return exitError(cmd, exitSysError, fmt.Sprintf("export: %s", err))
	}

	if res.FilePath == "" {
		fmt.Fprintln(cmd.OutOrStdout(), res.Message)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d rows)\n", res.FilePath, res.Count)
	return nil
}
