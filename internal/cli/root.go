// Package cli implements the placecache maintenance commands.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/planitlabs/placecache/internal/config"
	"github.com/planitlabs/placecache/internal/database"
)

var (
	dbPathFlag string
	formatFlag string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "placecache",
	Short: "Place-resolution cache for venue names extracted from videos",
	Long: "placecache resolves free-text venue names to canonical, geocoded " +
		"places, caching every result in SQLite so the metered place-lookup " +
		"provider is called as rarely as possible.",
	SilenceUsage: true,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPathFlag, "db", "d", "", "Cache database path (default: $CACHE_DB_PATH or planit_cache.db)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "text", "Output format: text or json")

	RootCmd.AddCommand(resolveCmd)
	RootCmd.AddCommand(statsCmd)
	RootCmd.AddCommand(cleanupCmd)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if dbPathFlag != "" {
		cfg.DBPath = dbPathFlag
	}
	return cfg, nil
}

func openDB(cfg *config.Config) (*database.DB, error) {
	db, err := database.NewDB(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening cache database %s: %w", cfg.DBPath, err)
	}
	return db, nil
}
