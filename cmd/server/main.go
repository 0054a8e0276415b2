package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"bankcompare/internal/config"
	"bankcompare/server"
	"bankcompare/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	logger := server.SetupLogger(cfg.LogLevel)

	st, err := store.Open(cfg.DatabasePath, cfg.StoreConfig())
	if err != nil {
		log.Fatalf("Ошибка открытия базы данных: %v", err)
	}
	defer st.Close()
	logger.Info("Storage opened", "path", cfg.DatabasePath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, st)
	if err := srv.Run(ctx); err != nil {
		log.Fatalf("Ошибка сервера: %v", err)
	}

	logger.Info("Server stopped")
}
