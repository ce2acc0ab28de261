package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/agenda-api/config"
	"github.com/oksasatya/agenda-api/internal/domain/repository"
	pginfra "github.com/oksasatya/agenda-api/internal/infrastructure/postgres"
	handlers "github.com/oksasatya/agenda-api/internal/interface/http"
	"github.com/oksasatya/agenda-api/pkg/helpers"
)

type snapshot struct {
	ExportedAt time.Time             `json:"exported_at"`
	Count      int                   `json:"count"`
	Contacts   []handlers.ContactDTO `json:"contacts"`
}

// writeSnapshot encodes every stored contact in wire shape and returns how many were written.
func writeSnapshot(ctx context.Context, repo repository.ContactRepository, now time.Time, w io.Writer) (int, error) {
	cs, err := repo.FindAll(ctx)
	if err != nil {
		return 0, err
	}
	s := snapshot{ExportedAt: now.UTC(), Count: len(cs), Contacts: handlers.NewContactDTOs(cs)}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return 0, err
	}
	return s.Count, nil
}

func objectPath(prefix string, now time.Time) string {
	return fmt.Sprintf("%s-%s.json", strings.TrimRight(prefix, "/"), now.UTC().Format("20060102T150405Z"))
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-export", cfg.Env)

	if cfg.GCSBucket == "" {
		log.Fatal("GCS_BUCKET not configured")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	gcs, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
	if err != nil {
		log.Fatalf("failed to init GCS client: %v", err)
	}
	defer func() { _ = gcs.Close() }()

	now := time.Now()
	var buf bytes.Buffer
	n, err := writeSnapshot(ctx, pginfra.NewContactRepository(pool), now, &buf)
	if err != nil {
		log.Fatalf("snapshot failed: %v", err)
	}

	url, err := helpers.UploadObject(ctx, gcs, cfg.GCSBucket, objectPath(cfg.GCSExportPrefix, now), "application/json", &buf)
	if err != nil {
		log.Fatalf("upload failed: %v", err)
	}
	logger.WithField("count", n).WithField("object", url).Info("contacts exported")
}
