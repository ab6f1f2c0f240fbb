package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/ignis_incident_service/internal/auth"
	"github.com/shenikar/ignis_incident_service/internal/config"
	"github.com/sirupsen/logrus"
)

// Выпускает токен доступа для локальной работы с API
func main() {
	userID := flag.String("user", "", "User ID (uuid); random when empty")
	email := flag.String("email", "", "User email")
	role := flag.String("role", auth.RoleOperator, "operator, supervisor or administrator")
	ttl := flag.Duration("ttl", 24*time.Hour, "Token lifetime")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	switch *role {
	case auth.RoleOperator, auth.RoleSupervisor, auth.RoleAdministrator:
	default:
		logrus.Fatalf("Unknown role %q", *role)
	}

	id := uuid.New()
	if *userID != "" {
		if id, err = uuid.Parse(*userID); err != nil {
			logrus.Fatalf("Invalid user ID: %v", err)
		}
	}

	token, err := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer).Issue(id, *email, *role, *ttl)
	if err != nil {
		logrus.Fatalf("Failed to issue token: %v", err)
	}
	fmt.Println(token)
}
