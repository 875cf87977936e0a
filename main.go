package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	cfg := LoadConfig()
	addr := flag.String("addr", cfg.Addr, "HTTP listen address")
	publicDir := flag.String("public", cfg.PublicDir, "Path to client directory")
	dbPath := flag.String("db", cfg.DatabasePath, "Path to SQLite database ('' disables accounts and match archive)")
	flag.Parse()

	var db *DB
	if *dbPath != "" {
		var err error
		db, err = OpenDB(*dbPath)
		if err != nil {
			log.Fatalf("open database: %v", err)
		}
		defer db.Close()
	}

	hub := NewHub(db)
	go hub.Run()

	scheduler := NewScheduler(hub)
	go scheduler.Run()

	mux := SetupRoutes(hub, *publicDir)

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	server := &http.Server{Addr: *addr, Handler: mux}

	go func() {
		log.Printf("Server starting on %s", *addr)
		log.Printf("Serving client files from %s", *publicDir)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down...")
	scheduler.Stop()
	if hub.analytics != nil {
		hub.analytics.Close()
	}
	server.Close()
}
