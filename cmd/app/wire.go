//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/seven-day-fit/internal/bootstrap"
	"github.com/yanqian/seven-day-fit/internal/domain/forecast"
	"github.com/yanqian/seven-day-fit/internal/domain/location"
	"github.com/yanqian/seven-day-fit/internal/domain/planner"
	"github.com/yanqian/seven-day-fit/internal/infra/config"
	"github.com/yanqian/seven-day-fit/internal/infra/llm/chatgpt"
	"github.com/yanqian/seven-day-fit/internal/infra/weather/openmeteo"
	httpiface "github.com/yanqian/seven-day-fit/internal/interface/http"
	"github.com/yanqian/seven-day-fit/pkg/logger"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		provideLocationConfig,
		provideForecastConfig,
		provideChatGPTClient,
		provideWeatherClient,
		provideLocationCache,
		provideLocationStore,
		provideCacheSweeper,
		provideSearchHistory,
		provideForecastArchive,
		provideJanitor,
		location.NewService,
		forecast.NewService,
		planner.NewService,
		wire.Bind(new(location.ChatClient), new(*chatgpt.Client)),
		wire.Bind(new(forecast.Client), new(*openmeteo.Client)),
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
