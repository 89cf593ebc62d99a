package injector

import (
	"github.com/zeusync/rebound/internal/config"
	"github.com/zeusync/rebound/internal/core/events/bus"
	"github.com/zeusync/rebound/internal/core/observability/log"
	"github.com/zeusync/rebound/internal/core/sandbox"
	"github.com/zeusync/rebound/internal/core/systems/physics"
	"github.com/zeusync/rebound/internal/server"
)

// App is the fully wired process.
type App struct {
	Config  config.Config
	Logger  *log.Logger
	Bus     bus.EventBus
	Sandbox *sandbox.Sandbox
	Server  *server.Server
}

func NewApp(cfg config.Config, logger *log.Logger, eventBus bus.EventBus, sb *sandbox.Sandbox, srv *server.Server) *App {
	return &App{
		Config:  cfg,
		Logger:  logger,
		Bus:     eventBus,
		Sandbox: sb,
		Server:  srv,
	}
}

func ProvideLogger(cfg config.Config) *log.Logger {
	return log.New(cfg.LogLevel())
}

func ProvideEventBus() bus.EventBus {
	return bus.New()
}

func ProvideArena(cfg config.Config) *physics.ResizableArena {
	return physics.NewResizableArena(cfg.Sandbox.ArenaWidth, cfg.Sandbox.ArenaHeight)
}

// ProvideSandbox seeds placement from cfg.Sandbox.Seed.
func ProvideSandbox(cfg config.Config, arena physics.Arena, eventBus bus.EventBus, logger log.Log) (*sandbox.Sandbox, error) {
	return sandbox.New(cfg.Sandbox, arena, eventBus, logger, nil)
}

func ProvideServer(cfg config.Config, controller server.Controller, eventBus bus.EventBus, logger log.Log) (*server.Server, error) {
	return server.NewServer(cfg.Server, controller, eventBus, logger)
}
