package main

import (
	"context"
	"firewatch/config"
	"firewatch/db"
	"firewatch/logger"
	"flag"
	stdlog "log"
	"time"
)

func main() {
	driver := flag.String("driver", "", "where to seed: json or firestore (defaults to SOURCE_DRIVER)")
	flag.Parse()

	// Load configuration
	cfg := config.Load()
	if *driver != "" {
		cfg.Source.Driver = *driver
	}
	if err := cfg.Validate(); err != nil {
		stdlog.Fatalf("Invalid configuration: %v", err)
	}

	log := logger.New(cfg.Logging)
	for _, warning := range cfg.Warnings() {
		log.Warn("⚠️  " + warning)
	}

	log.Println("🌱 Starting database seeding...")
	ds := db.FixtureDataset(time.Now())

	switch cfg.Source.Driver {
	case config.DriverFirestore:
		ctx := context.Background()
		firestoreDB, err := db.NewFirestoreDB(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsPath, log)
		if err != nil {
			log.Fatalf("Failed to initialize Firestore: %v", err)
		}
		defer firestoreDB.Close()

		if err := firestoreDB.Seed(ctx, ds); err != nil {
			log.Fatalf("Failed to seed Firestore: %v", err)
		}
	default:
		if err := db.WriteFixtures(cfg.Source.DataDir, ds); err != nil {
			log.Fatalf("Failed to write fixtures: %v", err)
		}
		log.Printf("📁 Fixtures written to %s", cfg.Source.DataDir)
	}

	log.Printf("✅ Seeded %d users, %d jobs and %d shifts (report user: %s)", len(ds.Users), len(ds.Jobs), len(ds.Shifts), db.FixtureUserID)
}
