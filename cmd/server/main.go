package main

import (
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"osiedle/internal/db"
	"osiedle/internal/router"
	"osiedle/internal/tasks"
)

func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := godotenv.Load(); err != nil {
		log.Info("no .env file found, reading env vars from system")
	}

	db.Init(log)

	archiver := tasks.NewArchiver(db.DB, log)
	if err := archiver.Start(); err != nil {
		log.Fatal("failed to start archiver", zap.Error(err))
	}
	defer archiver.Stop()

	r := router.New(db.DB, log)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Info("server starting", zap.String("port", port))
	if err := r.Run(":" + port); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}
