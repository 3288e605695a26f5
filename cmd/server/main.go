package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"applyflow/internal/app"
	"applyflow/internal/config"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	application, cleanup, err := app.Bootstrap(cfg)
	if err != nil {
		log.Fatalf("failed to bootstrap app: %v", err)
	}
	defer func() {
		if err := cleanup(); err != nil {
			log.Printf("cleanup error: %v", err)
		}
	}()

	c := application.Container

	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	go c.Hub.Run()
	go c.ProfileConsumer.Run(rootCtx)
	go purgeExpiredLoop(rootCtx, c)

	addr, err := app.ListenAddr(cfg.App.HTTPPort)
	if err != nil {
		log.Fatalf("invalid HTTP port: %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- application.Fiber.Listen(addr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("server error: %v", err)
		}
	case <-sigCh:
		stop()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := application.Fiber.ShutdownWithContext(ctx); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}
}

// purgeExpiredLoop drops expired recommendation rows so the cache table
// does not grow unbounded between recomputes.
func purgeExpiredLoop(ctx context.Context, c *app.Container) {
	ticker := time.NewTicker(15 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			purgeCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			n, err := c.CacheRepo.PurgeExpired(purgeCtx)
			cancel()
			if err != nil {
				c.Logger.Printf("[Cache] purge failed | err=%v", err)
				continue
			}
			if n > 0 {
				c.Logger.Printf("[Cache] purged expired | rows=%d", n)
			}
		}
	}
}
