package main

import (
	"context"
	"log"

	"github.com/BridgeWatch/BW-Backend/internal/db"
	"github.com/BridgeWatch/BW-Backend/internal/inspection"
	"github.com/joho/godotenv"
)

// Rebuilds every bridge's summary_stats row from live observations.
func main() {
	_ = godotenv.Load(".env.local")
	db.Connect()
	inspection.Init()

	n, err := inspection.RefreshAllSummaryStats(context.Background())
	if err != nil {
		log.Fatal("Refresh failed: ", err)
	}
	log.Printf("Refreshed summary stats for %d bridges", n)
}
