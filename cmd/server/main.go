package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/EgorLis/my-shop/internal/app"
)

// @title           my-shop catalog API
// @version         1.0
// @description     Product catalog with cache-aside Redis layer and cursor pagination
// @BasePath        /
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.Build(ctx)
	if err != nil {
		log.Fatalf("build failed: %v", err)
	}
	if err := a.Run(ctx); err != nil {
		log.Fatalf("run failed: %v", err)
	}
}
