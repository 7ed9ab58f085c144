package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/uniexpo/symposium-api/internal/api"
	"github.com/uniexpo/symposium-api/internal/config"
	"github.com/uniexpo/symposium-api/internal/db"
	"github.com/uniexpo/symposium-api/internal/logger"
	"github.com/uniexpo/symposium-api/internal/metrics"
	"github.com/uniexpo/symposium-api/internal/service"
)

const defaultSyncInterval = 60 * time.Second

func Start() error {
	conf, err := config.Load("./cmd/app/config.yml")
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}

	dbURL := os.Getenv("DATABASE_URL")
	var postgresDB *gorm.DB
	if dbURL != "" {
		postgresDB, err = db.OpenPostgresWithURL(dbURL)
	} else {
		postgresDB, err = db.OpenPostgres(conf.Postgres)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	s := api.NewServer(conf, postgresDB)

	go runScheduleSync(s.Schedule, syncInterval(conf.Schedule))

	addr := ":" + s.Config.API.Port
	zap.L().Info(fmt.Sprintf("starting server at %v", addr))
	if err = s.Router.Run(addr); err != nil {
		return fmt.Errorf("failed to start the server -> %w", err)
	}

	return nil
}

func syncInterval(conf *config.ScheduleConfig) time.Duration {
	if conf == nil || conf.SyncIntervalSeconds <= 0 {
		return defaultSyncInterval
	}

	return time.Duration(conf.SyncIntervalSeconds) * time.Second
}

// runScheduleSync drives the status sync loop. Each pass recomputes event
// instance statuses from their schedule windows and cascades submission
// transitions; a failed pass is logged and retried on the next tick.
func runScheduleSync(svc *service.ScheduleService, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		if err := svc.Sync(context.Background()); err != nil {
			metrics.RecordSyncError()
			zap.L().Error("schedule sync pass failed", zap.Error(err))
		}
	}
}
