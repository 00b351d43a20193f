package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/doughdash/backend/internal/events"
	"github.com/doughdash/backend/internal/insights"
	"github.com/doughdash/backend/internal/ledger"
	"github.com/doughdash/backend/internal/server"
	"github.com/doughdash/backend/internal/store"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err == nil {
		slog.Info("loaded .env")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8111"
	}

	ctx := context.Background()

	var st store.Store
	if path := os.Getenv("SQLITE_PATH"); path != "" {
		sqliteStore, err := store.NewSQLiteStore(path)
		if err != nil {
			log.Fatalf("Failed to open SQLite store: %v", err)
		}
		defer sqliteStore.Close()
		st = sqliteStore
		slog.Info("using SQLite store", "path", path)
	} else {
		st = store.NewMemoryStore()
		slog.Info("using in-memory store")
	}

	// Seed an empty store with the demo dataset so every endpoint has
	// something to show on first boot.
	if meta, err := st.Meta(ctx); err != nil {
		log.Fatalf("Failed to read store meta: %v", err)
	} else if meta.Rows == 0 {
		if _, err := st.Replace(ctx, ledger.GenerateSample(90, 7, time.Now().UTC())); err != nil {
			log.Fatalf("Failed to seed sample data: %v", err)
		}
	}

	var publisher *events.Publisher
	if url := os.Getenv("AMQP_URL"); url != "" {
		var err error
		publisher, err = events.NewPublisher(url)
		if err != nil {
			log.Fatalf("Failed to connect to AMQP broker: %v", err)
		}
		defer publisher.Close()
		slog.Info("dataset change events enabled")
	}

	opts := []server.Option{server.WithEventPublisher(publisher)}
	if os.Getenv("SKIP_PII_SCAN") == "1" {
		opts = append(opts, server.WithSkipPIIScan())
	}

	svc := insights.NewService(st, insights.DefaultConfig())
	srv := server.New(st, svc, opts...)

	origins := []string{"http://localhost:5173", "http://127.0.0.1:5173"}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		origins = strings.Split(env, ",")
	}

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: h2c.NewHandler(srv.Handler(origins), &http2.Server{}),
	}

	log.Printf("Starting server on port %s", port)
	if err := httpServer.ListenAndServe(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
