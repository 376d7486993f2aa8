// Command devtoken signs a bearer token for local testing. Tokens are
// normally issued by the identity service; the roles of the actor still
// come from the actor_roles table.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fieldsales/erp/internal/infrastructure/auth"
	"github.com/fieldsales/erp/internal/infrastructure/config"
	"github.com/fieldsales/erp/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	var (
		actor    string
		username string
		ttl      time.Duration
	)
	flag.StringVar(&actor, "actor", "", "Actor ID (UUID); a random one is generated when empty")
	flag.StringVar(&username, "username", "dev", "Username claim")
	flag.DurationVar(&ttl, "ttl", 8*time.Hour, "Token lifetime")
	flag.Parse()

	log, err := logger.New(&logger.Config{Level: "info", Format: "console", Output: "stderr"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	actorID := uuid.New()
	if actor != "" {
		if actorID, err = uuid.Parse(actor); err != nil {
			log.Fatal("Invalid actor ID", zap.String("actor", actor), zap.Error(err))
		}
	}

	token, err := auth.NewJWTService(cfg.JWT).Issue(actorID, username, ttl)
	if err != nil {
		log.Fatal("Failed to sign token", zap.Error(err))
	}

	log.Info("Token issued",
		zap.String("actor_id", actorID.String()),
		zap.String("username", username),
		zap.Duration("ttl", ttl),
	)
	fmt.Println(token)
}
