package main

import (
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/depeter/lookbook/internal/suggest"
)

func main() {
	key := strings.TrimSpace(os.Getenv("GROQ_API_KEY"))
	if key == "" {
		log.Printf("GROQ_API_KEY is not set; /suggest will answer 500")
	}

	h := suggest.NewHandler(key)
	h.SetEndpoint(os.Getenv("GROQ_ENDPOINT"))
	h.SetModel(os.Getenv("GROQ_MODEL"))

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(45 * time.Second))

	h.RegisterRoutes(r)

	addr := ":" + strings.TrimSpace(os.Getenv("PORT"))
	if addr == ":" {
		addr = ":8080"
	}
	server := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       20 * time.Second,
		WriteTimeout:      50 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("suggestd listening on http://localhost%s", addr)
	if err := server.ListenAndServe(); err != nil {
		log.Fatal(err)
	}
}
