package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/Gravitalia/nido/config"
	"github.com/Gravitalia/nido/database"
	"github.com/Gravitalia/nido/helpers"
	"github.com/Gravitalia/nido/jobs"
	"github.com/Gravitalia/nido/router"
	"github.com/Gravitalia/nido/storage"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Get key-value in .env file
	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()

	// Init databases
	db, err := database.Init(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("Cannot connect to postgres: %v", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Cannot migrate postgres: %v", err)
	}

	graph, err := database.InitGraph(ctx, cfg.Graph.URL, cfg.Graph.Username, cfg.Graph.Password)
	if err != nil {
		log.Printf("Graph disabled: %v", err)
	}
	defer graph.Close(ctx)

	cache := database.InitCache(cfg.MemcachedURL)

	publisher := helpers.InitNATS(cfg.NatsURL)
	defer publisher.Close()

	sessions, err := helpers.NewSessions(cfg.Session.Secret, cfg.Session.TTL, cache)
	if err != nil {
		log.Fatalf("Cannot create sessions: %v", err)
	}

	// Images go to spinoza when configured, on disk otherwise
	var (
		store storage.Store
		files http.Handler
	)
	if cfg.Storage.SpinozaAddress != "" {
		spinoza, err := storage.NewSpinoza(cfg.Storage.SpinozaAddress)
		if err != nil {
			log.Fatalf("Cannot connect to spinoza: %v", err)
		}
		defer spinoza.Close()
		store = spinoza
	} else {
		disk, err := storage.NewDisk(cfg.Storage.Dir, cfg.Storage.PublicURL)
		if err != nil {
			log.Fatalf("Cannot create storage: %v", err)
		}
		store, files = disk, disk.Handler()
	}

	// Start background jobs
	c, err := jobs.New(graph, db).Start()
	if err != nil {
		log.Fatalf("Cannot schedule jobs: %v", err)
	}
	defer c.Stop()

	// Create routes
	mux := router.New(router.Options{
		Store:          db,
		Graph:          graph,
		Cache:          cache,
		Publisher:      publisher,
		Sessions:       sessions,
		Storage:        store,
		Files:          files,
		GlobalAuth:     cfg.GlobalAuth,
		MaxUploadBytes: cfg.Storage.MaxUploadBytes,
	}).Mux()
	mux.Handle("/metrics", promhttp.HandlerFor(helpers.GetRegistery(), promhttp.HandlerOpts{}))

	limiter := router.NewRateLimiter(120, time.Minute)
	handler := router.Metrics(limiter.Middleware(mux))

	if cfg.ZipkinURL != "" {
		tracer, closer := helpers.InitTracer(cfg.ZipkinURL, cfg.Port)
		defer closer()
		if tracer != nil {
			handler = tracer(handler)
		}
	}

	log.Println("Server is starting on port", cfg.Port)

	// Create web server
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 3 * time.Second,
	}

	if err := server.ListenAndServe(); err != nil {
		log.Panic(err)
	}
}
