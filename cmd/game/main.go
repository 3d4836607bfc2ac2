package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"RugTycoon/internal/catalog"
	"RugTycoon/internal/config"
	"RugTycoon/internal/engine"
	"RugTycoon/internal/model"
	"RugTycoon/internal/recorder"
	"RugTycoon/internal/scheduler"
	"RugTycoon/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] RugTycoon starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Load seed catalogs
	assets, err := catalog.LoadAssets(cfg.Catalog.AssetsPath)
	if err != nil {
		log.Fatalf("[FATAL] load asset catalog: %v", err)
	}
	newsDeck, err := catalog.LoadNews(cfg.Catalog.NewsPath)
	if err != nil {
		log.Fatalf("[FATAL] load news catalog: %v", err)
	}
	log.Printf("[INFO] loaded %d assets, %d headlines", len(assets), len(newsDeck))

	// Init snapshot store and resume if a profile exists
	fileStore := store.NewFileStore(cfg.Storage.SnapshotPath)
	var snap *model.Snapshot
	if os.Getenv("FRESH_START") == "true" {
		if err := fileStore.Clear(); err != nil {
			log.Printf("[WARN] clear profile: %v", err)
		}
	} else {
		snap, err = fileStore.Load()
		if err != nil {
			log.Printf("[WARN] load profile failed, starting fresh: %v", err)
			snap = nil
		}
	}
	if snap != nil {
		log.Printf("[INFO] resuming profile at tick %d (day %d)", snap.Tick, snap.Day)
	}

	// Init recorder
	var rec recorder.Recorder
	if cfg.Storage.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Storage.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init engine; snapshots are handed off after each tick commits and
	// a failed save never stalls the simulation.
	game := engine.New(cfg, assets, newsDeck, snap, rec)
	game.OnCommit(func(s *model.Snapshot) {
		if err := fileStore.Save(s); err != nil {
			log.Printf("[ERROR] save profile: %v", err)
		}
	})

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, game)
	if err := sched.RegisterAll(cfg.Schedule.TickCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Command loop on stdin
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		fmt.Println("RugTycoon ready. Type 'market' to look around, 'quit' to exit.")
		for scanner.Scan() {
			line := scanner.Text()
			if line == "quit" || line == "exit" {
				cancel()
				return
			}
			if reply := sched.HandleCommand(line); reply != "" {
				fmt.Println(reply)
			}
		}
	}()

	log.Println("[INFO] RugTycoon is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
	case <-ctx.Done():
	}

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	if err := fileStore.Save(game.Snapshot()); err != nil {
		log.Printf("[ERROR] final save: %v", err)
	}
	log.Println("[INFO] RugTycoon stopped")
}
