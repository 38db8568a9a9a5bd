package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"acenumerik.fr/configs"
	"acenumerik.fr/configs/configslog"
	"acenumerik.fr/pkg/availability"
	"acenumerik.fr/pkg/events"
	"acenumerik.fr/pkg/renderer"
	"acenumerik.fr/pkg/slotcache"
	"acenumerik.fr/repositories"
	"acenumerik.fr/routes"
	"acenumerik.fr/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

func main() {
	configslog.InitLogger()
	defer configslog.SyncLogger()

	cfg, err := configs.Load()
	if err != nil {
		configslog.Log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db := configs.InitDB()
	defer configs.CloseDB()

	hours, err := availability.NewBusinessHours(cfg.Booking.OpeningTime, cfg.Booking.ClosingTime, cfg.Booking.SlotStep)
	if err != nil {
		configslog.Log.Fatal("Invalid business hours", zap.Error(err))
	}

	var cache slotcache.Cache
	if client := configs.InitRedis(); client != nil {
		cache = slotcache.NewRedisCache(client, cfg.Booking.SlotCacheTTL)
	} else {
		cache = slotcache.NewMemoryCache(cfg.Booking.SlotCacheSize, cfg.Booking.SlotCacheTTL)
	}
	defer configs.CloseRedis()

	var publisher events.Publisher
	if brokers := cfg.KafkaBrokers(); len(brokers) > 0 {
		publisher = events.NewKafkaPublisher(brokers, cfg.Kafka.Topic)
		configslog.SLog.Infof("Publishing domain events to kafka topic %s", cfg.Kafka.Topic)
	} else {
		publisher = events.NewLogPublisher(configslog.Log)
		configslog.SLog.Info("KAFKA_BROKERS not set, domain events are only logged")
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			configslog.Log.Error("Failed to close event publisher", zap.Error(err))
		}
	}()

	appointmentRepo := repositories.NewAppointmentRepository()
	appointmentTypeRepo := repositories.NewAppointmentTypeRepository()
	userRepo := repositories.NewUserRepository()

	sections := services.NewSectionService(repositories.NewSectionRepository())
	if err := sections.Load(context.Background()); err != nil {
		configslog.Log.Fatal("Failed to load section configuration", zap.Error(err))
	}

	leads := services.NewLeadService(repositories.NewLeadRepository(), publisher)
	avail := services.NewAvailabilityService(appointmentTypeRepo, appointmentRepo, hours, cfg.Location(), cache)
	reminders := services.NewReminderService(appointmentRepo, publisher, cfg.Location())

	deps := routes.Dependencies{
		Config:       cfg,
		Sections:     sections,
		Templates:    services.NewTemplateService(repositories.NewTemplateRepository(), sections),
		Availability: avail,
		Appointments: services.NewAppointmentService(appointmentRepo, appointmentTypeRepo, avail, repositories.NewTransactor(), leads, publisher),
		Leads:        leads,
		CVs:          services.NewCVService(repositories.NewCVRepository(), publisher),
		Auth:         services.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Users:        services.NewUserService(userRepo),

		Team:             services.NewTeamMemberService(repositories.NewTeamMemberRepository()),
		Testimonials:     services.NewTestimonialService(repositories.NewTestimonialRepository()),
		FAQs:             services.NewFAQService(repositories.NewFAQRepository()),
		Pricing:          services.NewPricingPlanService(repositories.NewPricingPlanRepository()),
		TrustedClients:   services.NewTrustedClientService(repositories.NewTrustedClientRepository()),
		Jobs:             services.NewJobService(repositories.NewJobRepository()),
		BlogPosts:        services.NewBlogPostService(repositories.NewBlogPostRepository()),
		AppointmentTypes: services.NewAppointmentTypeService(appointmentTypeRepo),

		Ping: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}

	scheduler := cron.New(cron.WithLocation(cfg.Location()))
	if cfg.Cron.Enabled {
		if _, err := reminders.Schedule(scheduler, cfg.Cron.ReminderSpec); err != nil {
			configslog.Log.Fatal("Invalid reminder schedule", zap.String("spec", cfg.Cron.ReminderSpec), zap.Error(err))
		}
		scheduler.Start()
		configslog.SLog.Infof("Reminder job scheduled (%s)", cfg.Cron.ReminderSpec)
	}

	engine := html.New(cfg.App.Views, ".html")
	engine.Reload(!cfg.IsProduction())

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		Views:        engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		ErrorHandler: renderer.ErrorHandler,
	})
	routes.SetupRoutes(app, deps)

	addr := cfg.App.Host + ":" + cfg.App.Port
	go func() {
		configslog.SLog.Infof("HTTP server listening on %s", addr)
		if err := app.Listen(addr); err != nil {
			configslog.Log.Error("HTTP server stopped with error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	configslog.SLog.Info("Shutting down...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		configslog.Log.Error("HTTP server shutdown failed", zap.Error(err))
	}
	<-scheduler.Stop().Done()
	configslog.SLog.Info("Shutdown complete")
}
