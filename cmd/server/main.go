package main

import (
	"log"

	"storefront-be/internal/config"
	"storefront-be/internal/db"
	"storefront-be/internal/logger"
	"storefront-be/internal/server"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	e := server.New(cfg, database)

	log.Printf("🚀 Storefront API running at http://localhost:%s/", cfg.AppPort)
	log.Fatal(e.Start(":" + cfg.AppPort))
}
