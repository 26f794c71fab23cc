package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gridclash/backend/internal/api"
	"github.com/gridclash/backend/internal/cache"
	"github.com/gridclash/backend/internal/config"
	"github.com/gridclash/backend/internal/demo"
	"github.com/gridclash/backend/internal/progression"
	"github.com/gridclash/backend/internal/store"
	"github.com/gridclash/backend/internal/ws"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to config file")
	port := flag.Int("port", 0, "Override server port")
	demoMode := flag.Bool("demo", false, "Seed demo data and simulate mission traffic")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *port > 0 {
		cfg.Server.Port = *port
	}

	seasonStart, err := cfg.SeasonStart()
	if err != nil {
		log.Fatalf("Invalid season start: %v", err)
	}
	season := progression.Season{Start: seasonStart}

	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer st.Close()

	var c cache.Cache
	if cfg.Cache.RedisAddr != "" {
		rc, err := cache.NewRedisCache(cfg.Cache.RedisAddr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
		if err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		defer rc.Close()
		c = rc
		log.Printf("Using redis cache at %s", cfg.Cache.RedisAddr)
	} else {
		c = cache.NewMemory()
		log.Println("Using in-memory cache")
	}

	broadcaster := ws.NewBroadcaster(cfg.Server.AllowedOrigins)
	server := api.NewServer(st, c, broadcaster, season)
	router := server.Router(cfg.Server.AllowedOrigins)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *demoMode {
		log.Println("Starting in demo mode")
		gen := demo.NewGenerator(st, broadcaster)
		if err := gen.Start(ctx); err != nil {
			log.Fatalf("Failed to start demo generator: %v", err)
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("Shutting down...")
		cancel()
	}()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Listening on %s (season start %s)", addr, seasonStart.Format("2006-01-02"))
	if err := api.ListenAndServe(ctx, addr, router); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
