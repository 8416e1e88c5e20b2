package cli

import (
	"encoding/json"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cache statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		db, err := openDB(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.Stats(cmd.Context())
		if err != nil {
			return err
		}

		if formatFlag == "json" {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(stats)
		}

		tw := table.NewWriter()
		tw.SetOutputMirror(os.Stdout)
		tw.SetStyle(table.StyleRounded)
		tw.AppendHeader(table.Row{"Metric", "Count"})
		tw.AppendRow(table.Row{"Cached places", strconv.Itoa(stats.TotalPlaces)})
		tw.AppendRow(table.Row{"Cached batches", strconv.Itoa(stats.TotalBatches)})
		tw.AppendRow(table.Row{"Aliases", strconv.Itoa(stats.TotalAliases)})
		tw.AppendRow(table.Row{"Accessed in last 24h", strconv.Itoa(stats.RecentAccesses24h)})
		tw.Render()
		return nil
	},
}
