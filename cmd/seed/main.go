package main

import (
	"context"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/agenda-api/config"
	contactapp "github.com/oksasatya/agenda-api/internal/application"
	"github.com/oksasatya/agenda-api/internal/domain/entity"
	pginfra "github.com/oksasatya/agenda-api/internal/infrastructure/postgres"
	"github.com/oksasatya/agenda-api/pkg/helpers"
)

var samples = []entity.Contact{
	{Name: "Ana Souza", Email: "ana.souza@example.com", PhoneNumber: "+55 11 91234-5678", Observations: "work"},
	{Name: "Bruno Lima", Email: "bruno.lima@example.com", PhoneNumber: "+55 21 99876-5432"},
	{Name: "Carla Mendes", PhoneNumber: "+55 31 3333-4444", Observations: "dentist, mornings only"},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)

	ctx := context.Background()
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	svc := contactapp.NewService(pginfra.NewContactRepository(pool), nil, nil, logger)
	for i := range samples {
		c := samples[i]
		created, err := svc.Create(ctx, &c)
		if err != nil {
			log.Fatalf("failed to seed contact %q: %v", c.Name, err)
		}
		fmt.Printf("seeded contact: id=%d name=%s\n", created.ID, created.Name)
	}
}
