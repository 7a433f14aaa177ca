/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the café credit ledger server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags, optionally merge a TOML config file
  2. Initialize SQLite store
  3. Create ledger core and report aggregator
  4. Configure HTTP router
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: 8080)
  -db      SQLite database path (default: credit.db)
           Use ":memory:" for an in-memory database
  -config  Optional TOML config file; flags set explicitly on the
           command line take precedence over file values

CONFIG FILE:
  port = 8080
  db = "./data/credit.db"

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/credit.db"

  # Run from a config file
  ./server -config=./credit.toml

  # Run on different port
  ./server -port=3000

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/cafekhata/credit-engine/api"
	"github.com/cafekhata/credit-engine/ledger"
	"github.com/cafekhata/credit-engine/reports"
	"github.com/cafekhata/credit-engine/store/sqlite"
)

type config struct {
	Port int    `toml:"port"`
	DB   string `toml:"db"`
}

// loadConfig merges flag defaults, the config file, and explicit flags,
// in increasing order of precedence.
func loadConfig() (config, error) {
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "credit.db", "SQLite database path")
	configPath := flag.String("config", "", "TOML config file (optional)")
	flag.Parse()

	cfg := config{Port: *port, DB: *dbPath}

	if *configPath != "" {
		if _, err := toml.DecodeFile(*configPath, &cfg); err != nil {
			return config{}, fmt.Errorf("read config %s: %w", *configPath, err)
		}
		// Explicit flags win over the file.
		flag.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "port":
				cfg.Port = *port
			case "db":
				cfg.DB = *dbPath
			}
		})
	}

	return cfg, nil
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize store
	store, err := sqlite.New(cfg.DB)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Wire up domain services
	core := ledger.NewCore(store)
	aggregator := reports.NewAggregator(store)
	handler := api.NewHandler(core, aggregator)

	// Create router
	router := api.NewRouter(handler)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on http://localhost:%d", cfg.Port)
		log.Printf("📊 API available at http://localhost:%d/api", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
