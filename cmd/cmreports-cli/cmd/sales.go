package cmd

import (
	"cmreports/internal/reports"
	"cmreports/internal/service"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"
)

var salesFrom, salesTo string

var salesCmd = &cobra.Command{
	Use:   "sales",
	Short: "Prints the pending sales orders.",
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := handler.PendingSales(cmd.Context(), connect.NewRequest(&service.DateRangeRequest{
			InitDate: salesFrom,
			EndDate:  salesTo,
		}))
		if err != nil {
			return err
		}
		return output(cmd, res.Msg.Records, reports.SalesTable(res.Msg.Records))
	},
}

func init() {
	addDateFlags(salesCmd, &salesFrom, &salesTo)
	rootCmd.AddCommand(salesCmd)
}
