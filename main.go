package main

import (
	"context"
	"log"
	"net"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"thirtyone/internal/config"
	"thirtyone/internal/room"
	"thirtyone/internal/server"
)

func main() {
	cfg := config.Config

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry := room.NewRegistry()
	go registry.Run(ctx,
		time.Duration(cfg.RoomCleanupInterval)*time.Second,
		time.Duration(cfg.RoomIdleTimeout)*time.Second)

	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	if err := server.New(registry).Run(ctx, addr); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
