// Command main runs the database seeder for Questlog.
package main

import (
	"flag"
	"log"

	"questlog/internal/config"
	"questlog/internal/database"
	"questlog/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 30, "Number of users to create")
	numPosts := flag.Int("posts", 150, "Number of posts to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if _, err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(database.DB)

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	if err := s.Seed(*numUsers, *numPosts); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
