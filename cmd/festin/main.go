package main

import (
	"flag"
	"log"

	"github.com/ajoux/festin/internal/auth"
	"github.com/ajoux/festin/internal/config"
	"github.com/ajoux/festin/internal/db"
	"github.com/ajoux/festin/internal/invalidate"
	"github.com/ajoux/festin/internal/logging"
	"github.com/ajoux/festin/internal/mutation"
	"github.com/ajoux/festin/internal/service"
	"github.com/ajoux/festin/internal/store"
	"github.com/ajoux/festin/internal/validation"
	"github.com/ajoux/festin/internal/web"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, cleanup, err := logging.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	database, err := db.Open(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	key, err := auth.LoadOrGenerateKey(cfg.Auth.KeyPath)
	if err != nil {
		logger.Error("failed to load auth key", "error", err)
		return
	}
	tokens, err := auth.NewTokenService(key, cfg.Auth.TokenTTL)
	if err != nil {
		logger.Error("failed to initialize token service", "error", err)
		return
	}

	userStore := store.NewUserStore(database)
	eventStore := store.NewEventStore(database)
	dayStore := store.NewDayStore(database)
	mealStore := store.NewMealStore(database)
	itemStore := store.NewItemStore(database)
	personStore := store.NewPersonStore(database)
	auditStore := store.NewAuditStore(database)

	validator := validation.New()
	policy := auth.NewPolicy(eventStore, personStore)
	hub := invalidate.NewHub(logger)
	pipeline := mutation.NewPipeline(database, validator, auditStore, hub, logger)

	planner := service.NewPlanner(pipeline, policy, tokens, validator,
		userStore, eventStore, dayStore, mealStore, itemStore, personStore, auditStore, logger)

	server := web.NewServer(planner, hub, tokens, cfg.CORS.AllowedOrigins, logger)
	if err := server.ListenAndServe(cfg.Server); err != nil {
		logger.Error("server error", "error", err)
	}
}
