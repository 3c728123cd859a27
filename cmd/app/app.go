package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mertdogan/sportspot-api/internal/api"
	"github.com/mertdogan/sportspot-api/internal/config"
	"github.com/mertdogan/sportspot-api/internal/db"
	"github.com/mertdogan/sportspot-api/internal/logger"
	"github.com/mertdogan/sportspot-api/internal/repository/dao"
	"github.com/mertdogan/sportspot-api/internal/service"
)

const defaultSweepInterval = time.Minute

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

	if err = dao.InitTables(postgresDB); err != nil {
		return fmt.Errorf("failed to initialize tables -> %w", err)
	}

	var redisClient *redis.Client
	if conf.Redis != nil && conf.Redis.Addr != "" {
		redisClient, err = db.OpenRedis(conf.Redis)
		if err != nil {
			return fmt.Errorf("failed to initialize redis -> %w", err)
		}
		defer redisClient.Close()
	} else {
		zap.L().Info("redis is not configured, live slot updates are disabled")
	}

	s := api.NewServer(conf, postgresDB, redisClient)

	sweepInterval := defaultSweepInterval
	if conf.Reservation != nil && conf.Reservation.SweepIntervalSeconds > 0 {
		sweepInterval = time.Duration(conf.Reservation.SweepIntervalSeconds) * time.Second
	}
	sweeper := service.NewNoShowSweeper(s.ReservationSvc, sweepInterval, zap.L())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sweeper.Run(ctx)

	addr := ":" + s.Config.API.Port
	zap.L().Info(fmt.Sprintf("starting server at %v", addr))
	if err = s.Router.Run(addr); err != nil {
		return fmt.Errorf("failed to start the server -> %w", err)
	}

	return nil
}
