package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var maxAgeDaysFlag int

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete cache entries older than the retention window",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		days := maxAgeDaysFlag
		if days <= 0 {
			days = cfg.CacheExpiryDays
		}

		db, err := openDB(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		result, err := db.Cleanup(cmd.Context(), days)
		if err != nil {
			return err
		}

		fmt.Printf("Removed %d places and %d batches older than %d days\n",
			result.PlacesDeleted, result.BatchesDeleted, days)
		return nil
	},
}

func init() {
	cleanupCmd.Flags().IntVar(&maxAgeDaysFlag, "days", 0, "Retention window in days (default: $CACHE_EXPIRY_DAYS or 90)")
}
