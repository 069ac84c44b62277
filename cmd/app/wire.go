//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/userdirectory/internal/bootstrap"
	"github.com/yanqian/userdirectory/internal/domain/directory"
	"github.com/yanqian/userdirectory/internal/infra/config"
	"github.com/yanqian/userdirectory/internal/infra/userrepo"
	"github.com/yanqian/userdirectory/internal/interface/console"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		provideLogger,
		provideSeedUsers,
		provideUserRepository,
		wire.Bind(new(directory.Repository), new(*userrepo.MemoryRepository)),
		directory.NewService,
		console.NewConsole,
		bootstrap.NewApp,
	)
	return nil, nil
}
