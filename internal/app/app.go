package app

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/exchange/internal/cache"
	"github.com/Additional-Code/exchange/internal/config"
	"github.com/Additional-Code/exchange/internal/database"
	"github.com/Additional-Code/exchange/internal/logger"
	"github.com/Additional-Code/exchange/internal/messaging"
	"github.com/Additional-Code/exchange/internal/migration"
	"github.com/Additional-Code/exchange/internal/observability"
	repositoryoffer "github.com/Additional-Code/exchange/internal/repository/offer"
	repositoryorder "github.com/Additional-Code/exchange/internal/repository/order"
	repositoryuser "github.com/Additional-Code/exchange/internal/repository/user"
	"github.com/Additional-Code/exchange/internal/seeder"
	grpcserver "github.com/Additional-Code/exchange/internal/server/grpc"
	httpserver "github.com/Additional-Code/exchange/internal/server/http"
	serviceoffer "github.com/Additional-Code/exchange/internal/service/offer"
	serviceorder "github.com/Additional-Code/exchange/internal/service/order"
	serviceuser "github.com/Additional-Code/exchange/internal/service/user"
	transporthttp "github.com/Additional-Code/exchange/internal/transport/http"
	"github.com/Additional-Code/exchange/internal/worker"
	workerrecord "github.com/Additional-Code/exchange/internal/worker/record"
)

// Infrastructure provides configuration, logging and external clients.
var Infrastructure = fx.Options(
	config.Module,
	logger.Module,
	Platform,
)

// Platform provides the clients built from an already supplied config and logger.
var Platform = fx.Options(
	cache.Module,
	database.Module,
	messaging.Module,
	observability.Module,
)

// Records provides repositories and services for every entity type.
var Records = fx.Options(
	repositoryuser.Module,
	repositoryorder.Module,
	repositoryoffer.Module,
	serviceuser.Module,
	serviceorder.Module,
	serviceoffer.Module,
)

// Core provides the foundational modules shared across executables.
var Core = fx.Options(
	Infrastructure,
	Records,
)

// Bootstrap migrates the schema and loads seed data before any server starts.
var Bootstrap = fx.Options(
	migration.Module,
	seeder.Module,
	fx.Invoke(registerBootstrap),
)

// HTTP wires the HTTP transport on top of the core modules. Record events on
// the in-process bus are consumed here too.
var HTTP = fx.Options(
	Core,
	Bootstrap,
	httpserver.Module,
	grpcserver.Module,
	transporthttp.Module,
	worker.EmbeddedModule,
	workerrecord.Module,
)

// Worker exposes background worker processing.
var Worker = fx.Options(
	Core,
	worker.Module,
	workerrecord.Module,
)

// Module is the default application wiring (HTTP only).
var Module = HTTP

func registerBootstrap(lc fx.Lifecycle, cfg config.Config, mig *migration.Migrator, seed *seeder.Seeder, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if cfg.Database.AutoMigrate {
				if err := mig.Up(ctx); err != nil {
					return err
				}
			}
			if !cfg.Seed.Enabled {
				logger.Info("seeding disabled")
				return nil
			}
			return seed.Load(ctx)
		},
	})
}
