package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"edushareqa/internal/app"
	"edushareqa/internal/config"
	"edushareqa/internal/database"
	"edushareqa/internal/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// @title EduShareQA API
// @version 1.0
// @description Course resources and student questions with teacher answers.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(".", "./config")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	l, err := logger.New(cfg.Log.Mode)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = l.Sync() }()

	db, err := database.Connect(cfg.Database.DSN, l)
	if err != nil {
		l.Fatal("connect database", zap.Error(err))
	}
	if err := app.Migrate(db); err != nil {
		l.Fatal("migrate database", zap.Error(err))
	}

	srv, err := app.New(cfg, l, db)
	if err != nil {
		l.Fatal("build server", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		l.Fatal("http server", zap.Error(err))
	}
}
