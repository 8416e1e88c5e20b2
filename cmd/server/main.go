package main

import (
	"context"
	"log"
	"net/http"

	"github.com/planitlabs/placecache/internal/api"
	"github.com/planitlabs/placecache/internal/config"
	"github.com/planitlabs/placecache/internal/database"
	"github.com/planitlabs/placecache/internal/dedup"
	"github.com/planitlabs/placecache/internal/filter"
	"github.com/planitlabs/placecache/internal/provider"
	"github.com/planitlabs/placecache/internal/resolver"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}
	if cfg.APIKey() == "" {
		log.Fatal("GOOGLE_MAPS_API_KEY (or GOOGLE_API_KEY) must be set")
	}

	db, err := database.NewDB(cfg.DBPath)
	if err != nil {
		log.Fatal("Failed to initialize cache database:", err)
	}
	defer db.Close()

	placeRepo := database.NewPlaceRepo(db)
	batchRepo := database.NewBatchRepo(db)

	prov, err := provider.NewGoogleProvider(cfg.APIKey(), cfg.MaxPhotoWidth, cfg.ProviderTimeout)
	if err != nil {
		log.Fatal("Failed to initialize place provider:", err)
	}

	deduplicator, err := dedup.New(context.Background(), placeRepo, dedup.Config{
		Threshold: cfg.SimilarityThreshold,
	})
	if err != nil {
		log.Fatal("Failed to load known place keys:", err)
	}

	svc := resolver.NewService(placeRepo, batchRepo, deduplicator, prov)

	app := &api.App{
		Resolver:          svc,
		DB:                db,
		Market:            filter.NYC(),
		DefaultMaxAgeDays: cfg.CacheExpiryDays,
	}

	router := api.NewRouter(app)

	log.Printf("Server starting on port %s", cfg.Port)
	log.Printf("Cache database: %s", cfg.DBPath)
	log.Printf("Similarity threshold: %.0f", cfg.SimilarityThreshold)

	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatal(err)
	}
}
