//go:build wireinject
// +build wireinject

// The build tag makes sure the stub is not built in the final build.

package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/rebound/internal/config"
	"github.com/zeusync/rebound/internal/core/observability/log"
	"github.com/zeusync/rebound/internal/core/sandbox"
	"github.com/zeusync/rebound/internal/core/systems/physics"
	"github.com/zeusync/rebound/internal/server"
)

func InitializeApp(cfg config.Config) (*App, error) {
	wire.Build(
		ProvideLogger,
		wire.Bind(new(log.Log), new(*log.Logger)),
		ProvideEventBus,
		ProvideArena,
		wire.Bind(new(physics.Arena), new(*physics.ResizableArena)),
		ProvideSandbox,
		wire.Bind(new(server.Controller), new(*sandbox.Sandbox)),
		ProvideServer,
		NewApp,
	)
	return nil, nil
}
