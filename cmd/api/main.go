package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"lawatlas/adapters/db"
	"lawatlas/adapters/excel"
	"lawatlas/app"
	"lawatlas/domain/scoring"
	"lawatlas/internal/config"
	"lawatlas/ports"
	"lawatlas/ui"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[API] Configuration error: %v", err)
	}
	gin.SetMode(cfg.Server.GinMode)

	rubric := scoring.DefaultRubric()
	if cfg.Data.RubricFile != "" {
		rubric, err = scoring.LoadRubric(cfg.Data.RubricFile)
		if err != nil {
			log.Fatalf("[API] Rubric error: %v", err)
		}
	}

	var repo ports.DatasetRepository
	if cfg.Database.DSN != "" {
		repo, err = db.Open(cfg.Database.DSN)
		if err != nil {
			log.Fatalf("[API] Store error: %v", err)
		}
		defer repo.Close()
	}

	pipeline := app.NewPipeline(excel.NewDirectorySource(cfg.Data.WorkbookDir), repo, rubric, cfg.Data.Parallelism)
	dataset, diag, err := pipeline.Run(context.Background())
	if err != nil {
		log.Fatalf("[API] Ingestion failed: %v", err)
	}

	ops := ui.NewOpsServer(dataset, diag)
	go func() {
		log.Printf("[API] Ops server listening on :%s", cfg.Server.OpsPort)
		if err := ops.Run(":" + cfg.Server.OpsPort); err != nil {
			log.Printf("[API] Ops server stopped: %v", err)
		}
	}()

	log.Printf("[API] Serving run %s on :%s", dataset.RunID, cfg.Server.Port)
	if err := ui.NewServer(dataset, diag).Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("[API] Server failed: %v", err)
	}
}
