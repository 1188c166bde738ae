package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"

	"github.com/wrtingacer/Lending-tracker/internal/logging"
)

// Static table shaped like the exchangerate-api v4 response, for local dev
// without hitting the real provider.
var rates = map[string]float64{
	"USD": 1,
	"KES": 155,
	"EUR": 0.92,
	"GBP": 0.79,
	"ZAR": 18.5,
	"NGN": 900,
	"TZS": 2300,
}

func main() {
	logging.Init("rates-provider", "info", os.Getenv("APP_ENV"))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
			slog.Error("failed to write health response", "error", err)
		}
	})
	mux.HandleFunc("GET /v4/latest/USD", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		payload := map[string]any{"base": "USD", "rates": rates}
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			slog.Error("failed to write rates response", "error", err)
		}
	})

	slog.Info("rates provider started", "addr", ":8081")
	if err := http.ListenAndServe(":8081", mux); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
