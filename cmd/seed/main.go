// Command main runs the database seeder for Guildhall.
package main

import (
	"flag"
	"log"

	"guildhall/internal/config"
	"guildhall/internal/database"
	"guildhall/internal/seed"
)

func main() {
	// Parse command line flags
	numUsers := flag.Int("users", 50, "Number of users to create")
	numThreads := flag.Int("threads", 100, "Number of threads to create")
	numReplies := flag.Int("replies", 400, "Number of replies to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("🌱 Forum Seeder")
	log.Println("===============")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db)

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("❌ Cleanup failed: %v", err)
		}
	}

	if err := s.Seed(seed.Options{
		NumUsers:   *numUsers,
		NumThreads: *numThreads,
		NumReplies: *numReplies,
	}); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Println("✨ All done! Your forum is now populated with demo data.")
}
