package main

import (
	availabilityhandler "linkuup/internal/availability/handler"
	availabilityservice "linkuup/internal/availability/service"
	"linkuup/internal/bookings/handler"
	"linkuup/internal/bookings/repository"
	"linkuup/internal/bookings/service"
	"linkuup/internal/bookings/validator"
	closurerepository "linkuup/internal/closures/repository"
	placesrepository "linkuup/internal/places/repository"
	"linkuup/pkg/app"
	"linkuup/pkg/config"
	"linkuup/pkg/contracts"
	"linkuup/pkg/kafka"
	kafka_config "linkuup/pkg/kafka/config"
	kafka_middleware "linkuup/pkg/kafka/middleware"
)

const ServiceName = "bookings"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Bookings service")

	producer := initProducer(cfg)
	defer func() {
		if producer != nil {
			if err := producer.Close(); err != nil {
				cfg.Log.Error("Failed to close Kafka producer", "error", err)
			}
		}
	}()

	handlers := initServices(cfg, producer)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handlers)
	serverApp.Run()
}

func initProducer(cfg *config.Config) *kafka.Producer {
	kafkaCfg := kafka_config.Load()
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.BookingEventsTopic, cfg.BookingEventsDLQTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}

	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
	producer.Use(kafka_middleware.MetricsProducerMiddleware(&kafka_middleware.Metrics{}))

	return producer
}

func initServices(cfg *config.Config, producer *kafka.Producer) contracts.Handler {
	placeRepo := placesrepository.NewMongoPlaceRepository(cfg)
	closureRepo := closurerepository.NewMongoClosureRepository(cfg)
	timeOffRepo := closurerepository.NewMongoTimeOffRepository(cfg)
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	lockRepo := repository.NewMongoSlotLockRepository(cfg)

	availabilityService := availabilityservice.NewAvailabilityService(
		placeRepo,
		closureRepo,
		timeOffRepo,
		bookingRepo,
		lockRepo,
		producer,
		cfg,
	)

	bookingValidator := validator.NewBookingValidator(cfg.Log)
	bookingService := service.NewBookingService(
		bookingRepo,
		availabilityService,
		bookingValidator,
		cfg,
	)

	cfg.Log.Info("Booking services initialized", "database", cfg.MongoDatabaseName)

	return contracts.Handlers{
		handler.NewBookingHandler(bookingService, cfg.Log),
		availabilityhandler.NewAvailabilityHandler(availabilityService, cfg.Log),
	}
}
