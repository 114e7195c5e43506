package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/snapquery/snapquery"
	"github.com/snapquery/snapquery/config"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	cfg := config.Load()

	addr := flag.String("addr", cfg.ServerAddr, "TCP address to listen on")
	snapshotURL := flag.String("snapshot", "", "Snapshot URL or %s template (overrides the environment)")
	revision := flag.String("revision", "", "Snapshot revision to load")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("snapquery server v%s\n", Version)
		return
	}

	if *snapshotURL != "" {
		cfg.SnapshotURL = *snapshotURL
	}
	if *revision != "" {
		cfg.Revision = *revision
	}

	c, err := snapquery.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to open console: %v", err)
	}
	defer c.Close()

	var authConfig *AuthConfig
	if cfg.AuthEnabled {
		if cfg.JWTSecret == "" {
			log.Fatal("Authentication enabled but SNAPQUERY_JWT_SECRET is not set")
		}
		authConfig = &AuthConfig{
			Enabled:   true,
			JWTSecret: cfg.JWTSecret,
			Issuer:    cfg.JWTIssuer,
			Audience:  cfg.JWTAudience,
		}
	}

	server := NewServer(c, authConfig)
	if err := server.Start(*addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	fmt.Println()
	fmt.Println("╔═══════════════════════════════════════╗")
	fmt.Printf("║   snapquery server v%-17s ║\n", Version)
	fmt.Println("║   Remote-Snapshot SQL Query Console   ║")
	fmt.Println("╚═══════════════════════════════════════╝")
	fmt.Println()
	fmt.Printf("Listening on %s\n", server.Addr())
	fmt.Printf("Snapshot revision: %s\n", c.Revision())
	fmt.Println("Send SQL queries (one per line), 'quit' to disconnect")
	fmt.Println()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down...")
	server.Stop()
	log.Println("Server stopped")
}
