package triago

import (
	"context"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print knowledge-graph store statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().Bool("json", false, "Print the raw JSON response")
}

func runStats(cmd *cobra.Command, args []string) error {
	client, err := newQueryClient()
	if err != nil {
		return err
	}
	ctx := context.Background()
	defer client.Close(ctx)

	stats := client.Stats(ctx)
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return printJSON(stats)
	}
	printStoreStats(stats)
	return nil
}
