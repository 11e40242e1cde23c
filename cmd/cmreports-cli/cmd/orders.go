package cmd

import (
	"cmreports/internal/reports"
	"cmreports/internal/service"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"
)

var ordersFrom, ordersTo string

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Prints the open production orders.",
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := handler.PendingOrders(cmd.Context(), connect.NewRequest(&service.DateRangeRequest{
			InitDate: ordersFrom,
			EndDate:  ordersTo,
		}))
		if err != nil {
			return err
		}
		return output(cmd, res.Msg.Records, reports.ProductionOrdersTable(res.Msg.Records))
	},
}

func init() {
	addDateFlags(ordersCmd, &ordersFrom, &ordersTo)
	rootCmd.AddCommand(ordersCmd)
}
