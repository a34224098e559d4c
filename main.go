package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coursehub/cache"
	"coursehub/checkout"
	"coursehub/config"
	"coursehub/database"
	"coursehub/events"
	"coursehub/logger"
	"coursehub/mailer"
	"coursehub/middleware"
	"coursehub/routers"
	"coursehub/schedulers"
	"coursehub/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	cfg := config.LoadConfig()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	db, err := database.ConnectDb(cfg, log)
	if err != nil {
		log.Fatal("database connection failed", "error", err)
	}
	if err := database.Seed(db, database.SeedOptions{
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
		SaltRound:     cfg.SaltRound,
	}); err != nil {
		log.Fatal("database seeding failed", "error", err)
	}

	provider, err := checkoutProvider(cfg)
	if err != nil {
		log.Fatal("checkout provider setup failed", "error", err)
	}

	var publisher events.Publisher = events.Noop{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(events.KafkaOptions{
			Brokers:  cfg.KafkaBrokers,
			Topic:    cfg.KafkaTopic,
			Username: cfg.KafkaUsername,
			Password: cfg.KafkaPassword,
		}, log)
		log.Info("publishing domain events to kafka", "topic", cfg.KafkaTopic)
	}
	defer publisher.Close()

	var statsCache cache.Cache = cache.Noop{}
	if cfg.RedisAddr != "" {
		redisCache, err := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, "coursehub:")
		if err != nil {
			log.Warn("redis unavailable, statistics are not cached", "addr", cfg.RedisAddr, "error", err)
		} else {
			statsCache = redisCache
			defer redisCache.Close()
		}
	}

	svc := services.NewContainer(services.Deps{
		DB:       db,
		Provider: provider,
		Events:   publisher,
		Mail: mailer.New(mailer.Options{
			APIKey:    cfg.SendgridAPIKey,
			FromEmail: cfg.EmailSender,
			FromName:  cfg.EmailSenderName,
			AppName:   "CourseHub",
		}, log),
		Cache: statsCache,
		Log:   log,
		Identity: services.IdentityConfig{
			JWTSecret: cfg.JWTKey,
			TokenTTL:  time.Duration(cfg.JWTTTLHours) * time.Hour,
			SaltRound: cfg.SaltRound,
		},
		Payment: services.PaymentConfig{
			SuccessURL:     cfg.BaseURL + "/api/v1/payments/success?session_id={CHECKOUT_SESSION_ID}",
			CancelURL:      cfg.BaseURL + "/api/v1/payments/cancel?session_id={CHECKOUT_SESSION_ID}",
			Currency:       cfg.PaymentCurrency,
			ReconcileGrace: 5 * time.Minute,
		},
	})

	jobs, err := schedulers.Start(svc, log)
	if err != nil {
		log.Fatal("scheduler setup failed", "error", err)
	}

	app := fiber.New(fiber.Config{
		AppName:      "CourseHub",
		ErrorHandler: middleware.ErrorHandler(log),
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	routers.Setup(app, svc)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info("shutting down")
		<-jobs.Stop().Done()
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	log.Info("Server is running", "port", cfg.Port, "env", cfg.AppEnv, "checkout", provider.Name())
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal("server stopped", "error", err)
	}
}

func checkoutProvider(cfg *config.Config) (checkout.Provider, error) {
	switch cfg.CheckoutProvider {
	case "midtrans":
		return checkout.NewMidtransClient(cfg.MidtransServerKey, cfg.MidtransEnv == "production"), nil
	case "stripe", "":
		return checkout.NewStripeClient(cfg.StripeSecretKey, cfg.StripeAPIURL, 15*time.Second), nil
	default:
		return nil, fmt.Errorf("unsupported CHECKOUT_PROVIDER %q", cfg.CheckoutProvider)
	}
}
