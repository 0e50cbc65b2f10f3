package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/BridgeWatch/BW-Backend/internal/db"
	"github.com/BridgeWatch/BW-Backend/internal/geocoding"
	"github.com/BridgeWatch/BW-Backend/internal/inspection"
	"github.com/BridgeWatch/BW-Backend/internal/middleware"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	response := "Server is up!"
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, response)
}

func main() {
	_ = godotenv.Load(".env.local")
	db.Connect()

	port := os.Getenv("PORT")
	if port == "" {
		port = "5050"
	}

	inspection.Init()
	if client := geocoding.NewClient(); client != nil {
		inspection.SetLocationResolver(client)
	}
	if _, err := inspection.EnsureDefaultProject(context.Background()); err != nil {
		log.Fatal("Failed to ensure default project: ", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware)
	r.Get("/", RootHandler)

	r.Mount("/inspection", inspection.SetupRoutes())

	fmt.Println("Server listening on port :" + port + "...")

	http.ListenAndServe("0.0.0.0:"+port, r)
}
