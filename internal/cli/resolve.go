package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/planitlabs/placecache/internal/database"
	"github.com/planitlabs/placecache/internal/dedup"
	"github.com/planitlabs/placecache/internal/models"
	"github.com/planitlabs/placecache/internal/provider"
	"github.com/planitlabs/placecache/internal/resolver"
)

var (
	hintFlag        string
	videoIDFlag     string
	deduplicateFlag bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <name> [name...]",
	Short: "Resolve venue names to canonical places",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.APIKey() == "" {
			return fmt.Errorf("GOOGLE_MAPS_API_KEY (or GOOGLE_API_KEY) must be set")
		}

		db, err := openDB(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		ctx := cmd.Context()
		placeRepo := database.NewPlaceRepo(db)
		batchRepo := database.NewBatchRepo(db)

		prov, err := provider.NewGoogleProvider(cfg.APIKey(), cfg.MaxPhotoWidth, cfg.ProviderTimeout)
		if err != nil {
			return err
		}

		deduplicator, err := dedup.New(ctx, placeRepo, dedup.Config{Threshold: cfg.SimilarityThreshold})
		if err != nil {
			return fmt.Errorf("loading known keys: %w", err)
		}

		svc := resolver.NewService(placeRepo, batchRepo, deduplicator, prov)

		candidates := make([]models.Candidate, len(args))
		for i, name := range args {
			candidates[i] = models.Candidate{Name: name, LocationHint: hintFlag}
		}
		if deduplicateFlag {
			candidates = svc.PreDeduplicate(candidates)
		}

		result, err := svc.ResolveBatch(ctx, candidates, videoIDFlag)
		if err != nil {
			return err
		}

		if formatFlag == "json" {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		for _, p := range result.Places {
			fmt.Printf("%s\n  %s\n  place_id=%s lat=%.6f lng=%.6f\n",
				p.Name, p.FormattedAddress, p.PlaceID, p.Latitude, p.Longitude)
		}
		fmt.Printf("\n%d candidates: %d cache hits, %d API calls, %d unique places\n",
			result.Stats.TotalCandidates, result.Stats.CacheHits,
			result.Stats.APICalls, result.Stats.UniquePlaces)
		return nil
	},
}

func init() {
	resolveCmd.Flags().StringVar(&hintFlag, "hint", "", "Location hint applied to every name (e.g. \"Brooklyn NY\")")
	resolveCmd.Flags().StringVar(&videoIDFlag, "video-id", "", "Video id for whole-batch memoization")
	resolveCmd.Flags().BoolVar(&deduplicateFlag, "dedup", false, "Merge near-duplicate names before resolving")
}
