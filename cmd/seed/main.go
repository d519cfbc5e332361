// Command main runs the database seeder for Moneta.
package main

import (
	"flag"
	"log"

	"moneta/internal/config"
	"moneta/internal/database"
	"moneta/internal/seed"
)

func main() {
	numProfiles := flag.Int("profiles", 20, "Number of profiles to create")
	numPosts := flag.Int("posts", 100, "Number of feed posts to create")
	numTransactions := flag.Int("transactions", 40, "Number of transactions per profile")
	maxDays := flag.Int("days", 90, "How far back in time to spread generated data")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d profiles, %d posts, %d transactions each, clean=%v\n",
		*numProfiles, *numPosts, *numTransactions, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Seed(db, seed.Options{
		NumProfiles:     *numProfiles,
		NumPosts:        *numPosts,
		NumTransactions: *numTransactions,
		MaxDays:         *maxDays,
		ShouldClean:     *shouldClean,
	}); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Println("✨ All done! Your database is now populated with demo data.")
	log.Println("📧 All seeded profiles share the password: Seed$Password123")
}
