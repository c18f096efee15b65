package main

import (
	"context"

	"github.com/joho/godotenv"

	availabilityhandler "bookable/internal/availability/handler"
	availabilityrepo "bookable/internal/availability/repository"
	availabilityservice "bookable/internal/availability/service"
	availabilityvalidator "bookable/internal/availability/validator"
	"bookable/internal/events"
	"bookable/internal/export"
	hostsrepo "bookable/internal/hosts/repository"
	meetingshandler "bookable/internal/meetings/handler"
	meetingsrepo "bookable/internal/meetings/repository"
	meetingsservice "bookable/internal/meetings/service"
	meetingsvalidator "bookable/internal/meetings/validator"
	schedulinghandler "bookable/internal/scheduling/handler"
	schedulingservice "bookable/internal/scheduling/service"
	schedulingvalidator "bookable/internal/scheduling/validator"
	"bookable/pkg/app"
	"bookable/pkg/config"
	"bookable/pkg/contracts"
)

const ServiceName = "bookable"

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)

	if cfg.StoreBackend == config.BackendMongo {
		cfg.SetMongo()
	}
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting bookable service")
	handlers := initServices(cfg)
	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handlers...)
	serverApp.Run()
}

func initServices(cfg *config.Config) []contracts.Handler {
	hostRepo, err := hostsrepo.New(cfg)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize host repository", "error", err)
	}
	windowRepo, err := availabilityrepo.New(cfg)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize availability repository", "error", err)
	}
	meetingRepo, err := meetingsrepo.New(cfg)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize meeting repository", "error", err)
	}
	if err := meetingRepo.EnsureIndexes(context.Background()); err != nil {
		cfg.Log.Fatal("Failed to ensure meeting indexes", "error", err)
	}

	exporter, err := export.NewExporter(cfg)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize calendar exporter", "error", err)
	}

	publisher, err := events.New(cfg)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize event publisher", "error", err)
	}

	availabilityService := availabilityservice.NewAvailabilityService(
		windowRepo,
		hostRepo,
		availabilityvalidator.NewWindowValidator(cfg.Log),
		cfg,
	)

	slotService := schedulingservice.NewSlotService(hostRepo, windowRepo, meetingRepo, cfg)
	bookingService := schedulingservice.NewBookingService(
		hostRepo,
		meetingRepo,
		slotService,
		schedulingvalidator.NewBookingValidator(cfg.Log),
		exporter,
		publisher,
		cfg,
	)

	meetingService := meetingsservice.NewMeetingService(
		hostRepo,
		meetingRepo,
		meetingsvalidator.NewMeetingValidator(cfg.Log),
		exporter,
		publisher,
		cfg,
	)

	cfg.Log.Info("Services initialized", "store_backend", cfg.StoreBackend)

	return []contracts.Handler{
		availabilityhandler.NewAvailabilityHandler(availabilityService, cfg.Log),
		schedulinghandler.NewScheduleHandler(slotService, bookingService, cfg),
		meetingshandler.NewMeetingHandler(meetingService, cfg.Log),
	}
}
