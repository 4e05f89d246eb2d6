//go:build wireinject
// +build wireinject

package service

import (
	"github.com/google/wire"

	"github.com/livekit/rtprx/pkg/config"
)

func InitializeServer(conf *config.Config) (*ReceiverServer, error) {
	wire.Build(
		ServiceSet,
	)
	return &ReceiverServer{}, nil
}
