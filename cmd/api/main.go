package main

import (
	"database/sql"
	"flag"
	"net/http"
	"os"
	"time"

	"memocha/internal/adapters/auth/gateway"
	"memocha/internal/adapters/storage/postgres"
	"memocha/internal/config"
	"memocha/internal/platform/logger"
	"memocha/internal/ports/auth"
	"memocha/internal/router"
)

// @title Memocha API
// @version 1.0
// @description Recordatorio de medicación con certificación por video: doctores registran pacientes y recetas, los pacientes graban sus dosis y el doctor las revisa.
// @BasePath /
func main() {
	configPath := flag.String("config", config.DefaultPath, "ruta del archivo de configuración TOML")
	flag.Parse()

	cfg, err := config.LoadFrom(*configPath)
	if err != nil {
		logger.NewFromEnv().Error("invalid config", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: logger.ParseFormat(cfg.Log.Format),
		App:    "memocha",
	})

	var db *sql.DB
	if cfg.Database.DSN != "" {
		db, err = postgres.Open(cfg.Database.DSN)
		if err != nil {
			log.Error("postgres unavailable", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		defer db.Close()
		log.Info("using postgres storage", nil)
	} else {
		log.Info("using in-memory storage", nil)
	}

	// Sin verify_url corre en modo dev: identidad por X-Debug-User-ID.
	var verifier auth.AuthVerifier
	if cfg.Auth.VerifyURL != "" {
		client, err := gateway.NewClient(gateway.Config{
			BaseURL: cfg.Auth.VerifyURL,
			APIKey:  cfg.Auth.APIKey,
		})
		if err != nil {
			log.Error("auth gateway misconfigured", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
		verifier = gateway.NewVerifier(client)
		log.Info("token verification enabled", map[string]any{"verify_url": cfg.Auth.VerifyURL})
	} else {
		log.Warn("auth verifier disabled, dev mode", nil)
	}

	r := router.NewRouter(router.Options{
		AuthVerifier: verifier,
		DB:           db,
		Wiggle:       cfg.Wiggle(),
		Location:     cfg.Location(),
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": cfg.Server.Addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}
