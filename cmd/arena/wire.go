//go:build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/cory-johannsen/arena/internal/config"
)

func initializeApp(cfg config.Config) (*App, func(), error) {
	wire.Build(ProviderSet)
	return nil, nil, nil
}
