package cmd

import (
	"cmreports/internal/reports"
	"cmreports/internal/service"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"
)

var materialsCmd = &cobra.Command{
	Use:   "materials",
	Short: "Prints the partially supplied material requests.",
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := handler.PendingMaterials(cmd.Context(), connect.NewRequest(&service.PendingMaterialsRequest{}))
		if err != nil {
			return err
		}
		return output(cmd, res.Msg.Records, reports.PendingMaterialsTable(res.Msg.Records))
	},
}

func init() {
	rootCmd.AddCommand(materialsCmd)
}
