package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"cmreports/internal/reports"
	"cmreports/internal/service"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"
)

var (
	reportFrom, reportTo string
	reportXlsx           string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Prints the consolidated sales report or writes it as a spreadsheet.",
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &service.DateRangeRequest{InitDate: reportFrom, EndDate: reportTo}

		if reportXlsx == "" {
			res, err := handler.FilteredSalesReport(cmd.Context(), connect.NewRequest(req))
			if err != nil {
				return err
			}
			return output(cmd, res.Msg.Records, reports.ConsolidatedTable(res.Msg.Records))
		}

		res, err := handler.ExportFilteredSalesReport(cmd.Context(), connect.NewRequest(req))
		if err != nil {
			return err
		}
		path := reportXlsx
		info, err := os.Stat(path)
		if err == nil && info.IsDir() {
			path = filepath.Join(path, res.Msg.FileName)
		}
		err = os.WriteFile(path, res.Msg.Content, 0644)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	addDateFlags(reportCmd, &reportFrom, &reportTo)
	reportCmd.Flags().StringVar(&reportXlsx, "xlsx", "", "Write the report as an xlsx file (or into this directory) instead of printing it.")
	rootCmd.AddCommand(reportCmd)
}
