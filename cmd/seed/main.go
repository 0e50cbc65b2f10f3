package main

import (
	"context"
	"flag"
	"log"

	"github.com/BridgeWatch/BW-Backend/internal/db"
	"github.com/BridgeWatch/BW-Backend/internal/inspection"
	"github.com/BridgeWatch/BW-Backend/internal/seeds"
	"github.com/joho/godotenv"
)

func main() {
	fixtures := flag.String("fixtures", "seeds/fixtures.yaml", "path to the YAML fixture file")
	flag.Parse()

	_ = godotenv.Load(".env.local")
	db.Connect()
	inspection.Init()

	// No resolver installed: seeding never calls the geocoding service.
	if err := seeds.SeedAll(context.Background(), *fixtures); err != nil {
		log.Fatal("Seed failed: ", err)
	}
	log.Println("Seed complete")
}
