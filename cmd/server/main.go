// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hivemind-ai/intelligence/internal/config"
	"github.com/hivemind-ai/intelligence/internal/database"
	"github.com/hivemind-ai/intelligence/internal/engine"
	"github.com/hivemind-ai/intelligence/internal/server"
	"github.com/hivemind-ai/intelligence/pkg/scheduler"
)

// Version is set at build time via ldflags (e.g. goreleaser -X main.Version={{.Version}}).
var Version string

func main() {
	// CRITICAL: MCP servers must ONLY output JSON-RPC to stdout
	// Redirect all logging to stderr
	log.SetOutput(os.Stderr)

	// Optional .env for local development; missing files are fine
	_ = godotenv.Load()

	httpMode := flag.Bool("http", false, "Run in HTTP API mode (default: stdio for MCP)")
	seedPath := flag.String("seed", "", "Load fixture data from a YAML file and exit")
	dbType := flag.String("db-type", "", "Database type (sqlite or postgres)")
	dbPath := flag.String("db-path", "", "Database path (for sqlite)")
	dbDSN := flag.String("db-dsn", "", "Database DSN (for postgres)")
	configPath := flag.String("config", "", "Path to config file")
	port := flag.Int("port", 0, "Server port (HTTP mode only)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Hivemind Intelligence Server\n\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Server Mode:\n")
		fmt.Fprintf(os.Stderr, "  %s                Start MCP server (stdio)\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --http         Start the HTTP API server\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nFixtures:\n")
		fmt.Fprintf(os.Stderr, "  %s --seed <file>  Load agents, entries and usage events from YAML\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		fmt.Fprintf(os.Stderr, "  DB_TYPE    Database type (sqlite or postgres)\n")
		fmt.Fprintf(os.Stderr, "  DB_PATH    SQLite database path\n")
		fmt.Fprintf(os.Stderr, "  DB_DSN     PostgreSQL connection string\n")
		fmt.Fprintf(os.Stderr, "  PORT       Server port (HTTP mode only)\n")
	}

	flag.Parse()

	if *seedPath != "" && *httpMode {
		log.Fatal("ERROR: --seed and --http cannot be used together")
	}

	log.Println("Starting Hivemind Intelligence Server...")

	// Load configuration
	var cfg *config.Config
	var err error

	if *configPath != "" {
		cfg, err = config.LoadFromPath(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config from %s: %v", *configPath, err)
		}
		log.Printf("Loaded configuration from %s", *configPath)
	} else {
		cfg, err = config.Load()
		if err != nil {
			log.Printf("Warning: Failed to load default config: %v", err)
			log.Println("Using built-in defaults")
			cfg = config.DefaultConfig()
		} else {
			log.Printf("Loaded configuration from ~/%s/%s", config.DefaultConfigDir, config.DefaultConfigFile)
		}
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Apply CLI flag overrides (highest priority)
	applyCLIOverrides(cfg, *dbType, *dbPath, *dbDSN, *port)

	log.Printf("Configuration: database=%s", cfg.Database.Type)

	// Connect and migrate
	dbCfg := cfg.DatabaseParams()
	if !*httpMode {
		// Silence GORM entirely: stdout belongs to JSON-RPC in stdio mode
		dbCfg.LogLevel = logger.Silent
	}

	db, err := database.Connect(dbCfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	log.Printf("Connected to database: %s", cfg.Database.Type)

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := database.CreateIndexes(db); err != nil {
		log.Printf("Warning: Failed to create indexes: %v", err)
	}

	log.Println("Database migrations completed")

	// SEED MODE: load fixtures and exit
	if *seedPath != "" {
		if err := database.Seed(db, *seedPath); err != nil {
			log.Fatalf("Seed failed: %v", err)
		}
		log.Printf("Seeded database from %s", *seedPath)
		return
	}

	// Build the engine and take the first snapshot up front so the first
	// query does not pay the build cost
	eng := engine.New(database.NewStore(db), cfg.EngineParams())
	if err := eng.Refresh(context.Background()); err != nil {
		log.Fatalf("Failed to build initial snapshot: %v", err)
	}
	log.Println("Initial snapshot built")

	// Keep the snapshot fresh in the background
	sched := scheduler.NewScheduler(eng, cfg.Engine.RefreshInterval)
	sched.Start()
	defer sched.Stop()
	log.Printf("Snapshot refresh scheduler started (interval: %d minutes)", cfg.Engine.RefreshInterval)

	if *httpMode {
		runHTTPMode(cfg, eng, db)
	} else {
		runStdioMode(cfg, eng)
	}
}

// applyEnvOverrides applies environment variable overrides to configuration
func applyEnvOverrides(cfg *config.Config) {
	if dbType := getEnv("DB_TYPE", "HIVEMIND_DB_TYPE"); dbType != "" {
		cfg.Database.Type = dbType
		log.Printf("Database type from ENV: %s", dbType)
	}

	if dbPath := getEnv("DB_PATH", "HIVEMIND_DB_PATH"); dbPath != "" {
		cfg.Database.SQLitePath = dbPath
		log.Printf("Database path from ENV")
	}

	if dbDSN := getEnv("DB_DSN", "HIVEMIND_DB_DSN"); dbDSN != "" {
		cfg.Database.PostgresDSN = dbDSN
		log.Printf("Database DSN from ENV (hidden)")
	}

	if portStr := getEnv("PORT", "HIVEMIND_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			cfg.Server.Port = port
			log.Printf("Port from ENV: %d", port)
		}
	}
}

// applyCLIOverrides applies command-line flag overrides to configuration
func applyCLIOverrides(cfg *config.Config, dbType, dbPath, dbDSN string, port int) {
	if dbType != "" {
		cfg.Database.Type = dbType
		log.Printf("Database type from CLI: %s", dbType)
	}

	if dbPath != "" {
		cfg.Database.SQLitePath = dbPath
		log.Printf("Database path from CLI")
	}

	if dbDSN != "" {
		cfg.Database.PostgresDSN = dbDSN
		log.Printf("Database DSN from CLI (hidden)")
	}

	if port > 0 {
		cfg.Server.Port = port
		log.Printf("Port from CLI: %d", port)
	}
}

// getEnv tries multiple environment variable names and returns the first non-empty value
func getEnv(names ...string) string {
	for _, name := range names {
		if val := os.Getenv(name); val != "" {
			return val
		}
	}
	return ""
}

// runStdioMode serves MCP over stdio
func runStdioMode(cfg *config.Config, eng *engine.Engine) {
	mcpServer := server.NewMCPServer(cfg, eng)

	log.Println("MCP server ready (stdio mode) - 10 tools registered")

	if err := mcpServer.ServeStdio(); err != nil {
		log.Fatalf("MCP server error: %v", err)
	}
}

// runHTTPMode serves the read-only intelligence API
func runHTTPMode(cfg *config.Config, eng *engine.Engine, db *gorm.DB) {
	httpServer := server.NewHTTPServer(cfg, eng, db)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("HTTP server starting on %s", addr)

	if err := httpServer.ListenAndServe(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
