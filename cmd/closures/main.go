package main

import (
	"linkuup/internal/closures/handler"
	"linkuup/internal/closures/repository"
	"linkuup/internal/closures/service"
	"linkuup/internal/closures/validator"
	placeshandler "linkuup/internal/places/handler"
	placesrepository "linkuup/internal/places/repository"
	placesservice "linkuup/internal/places/service"
	placesvalidator "linkuup/internal/places/validator"
	"linkuup/pkg/app"
	"linkuup/pkg/config"
	"linkuup/pkg/contracts"
)

const ServiceName = "closures"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Closures service")

	handlers := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handlers)
	serverApp.Run()
}

func initServices(cfg *config.Config) contracts.Handler {
	closureValidator := validator.NewClosureValidator(cfg.Log)
	closureRepo := repository.NewMongoClosureRepository(cfg)
	timeOffRepo := repository.NewMongoTimeOffRepository(cfg)

	closureService := service.NewClosureService(closureRepo, closureValidator, cfg)
	timeOffService := service.NewTimeOffService(timeOffRepo, closureValidator, cfg)

	placeValidator := placesvalidator.NewPlaceValidator(cfg.Log)
	placeRepo := placesrepository.NewMongoPlaceRepository(cfg)
	placeService := placesservice.NewPlaceService(placeRepo, placeValidator, cfg)

	cfg.Log.Info("Closure services initialized", "database", cfg.MongoDatabaseName)

	return contracts.Handlers{
		handler.NewClosureHandler(closureService, cfg.Log),
		handler.NewTimeOffHandler(timeOffService, cfg.Log),
		placeshandler.NewPlaceHandler(placeService, cfg.Log),
	}
}
