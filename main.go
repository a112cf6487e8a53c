package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"nearby-search-system/api"
	"nearby-search-system/config"
	"nearby-search-system/migration"
	"nearby-search-system/store"
)

func main() {
	// Initialize configuration
	config.InitConfig()

	// Open the configured document store
	st, err := openStore(context.Background())
	if err != nil {
		log.Fatal(err)
	}
	defer st.Close()

	// Register routes
	handler := &api.Handler{Store: st, GeoField: config.Cfg.Search.GeoField}
	router := api.RegisterRoutes(handler)

	// Start the server
	log.Println("Server started on :8080")
	log.Fatal(http.ListenAndServe(":8080", router))
}

func openStore(ctx context.Context) (store.Store, error) {
	cfg := config.Cfg
	indexField := cfg.Search.GeoField + ".geohash"

	switch cfg.Search.Backend {
	case "postgres":
		if err := migration.RunMigrations(); err != nil {
			return nil, err
		}
		return store.NewPostgresStore(cfg.DB, cfg.Search.Collection, cfg.Search.GeoField)
	case "redis":
		return store.NewRedisStore(cfg.Redis, cfg.Search.Collection, indexField)
	case "firestore":
		return store.NewFirestoreStore(ctx, cfg.Firestore.ProjectID, cfg.Search.Collection)
	}
	return nil, fmt.Errorf("unknown search backend %q", cfg.Search.Backend)
}
