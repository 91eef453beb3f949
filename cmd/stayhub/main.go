package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stayhub/internal/app/commands"
	availabilityapp "stayhub/internal/app/handlers/availability"
	bookingapp "stayhub/internal/app/handlers/booking"
	listingapp "stayhub/internal/app/handlers/listings"
	pricingapp "stayhub/internal/app/handlers/pricing"
	reviewapp "stayhub/internal/app/handlers/reviews"
	userapp "stayhub/internal/app/handlers/users"
	"stayhub/internal/app/middleware"
	appoutbox "stayhub/internal/app/outbox"
	"stayhub/internal/app/queries"
	authsvc "stayhub/internal/app/services/auth"
	"stayhub/internal/infra/broker/kafka"
	"stayhub/internal/infra/config"
	mongodb "stayhub/internal/infra/db/mongo"
	ginserver "stayhub/internal/infra/http/gin"
	"stayhub/internal/infra/notify"
	"stayhub/internal/infra/obs"
	outboxinfra "stayhub/internal/infra/outbox"
	"stayhub/internal/infra/security"
	"stayhub/internal/infra/storage/s3"
	taskrunner "stayhub/internal/infra/tasks"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration invalid", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	client, err := mongodb.New(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Error("mongo connect failed", "error", err)
		os.Exit(1)
	}
	if err := client.Ping(ctx); err != nil {
		logger.Error("mongo ping failed", "error", err)
		os.Exit(1)
	}
	defer client.Close(context.Background())

	producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
	if err != nil {
		logger.Error("kafka connect failed", "error", err)
		os.Exit(1)
	}
	defer producer.Close()

	factory := mongodb.Factory{
		DB:           client.DB,
		ListingsRepo: mongodb.NewListingRepository(client.DB),
		BookingsRepo: mongodb.NewBookingRepository(client.DB),
		BlocksRepo:   mongodb.NewBlockRepository(client.DB),
		RulesRepo:    mongodb.NewPriceRuleRepository(client.DB),
		ReviewsRepo:  mongodb.NewReviewRepository(client.DB),
		UsersRepo:    mongodb.NewUserRepository(client.DB),
		SessionsRepo: mongodb.NewSessionRepository(client.DB),
	}

	outboxStore := outboxinfra.NewStore(client.DB)
	worker := &outboxinfra.Worker{
		Store:        outboxStore,
		Producer:     producer,
		PollInterval: cfg.OutboxPollInterval,
		TopicPrefix:  cfg.KafkaTopicPrefix,
		Backoff:      cfg.RetryBackoff,
		Logger:       logger,
	}
	go func() {
		if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("outbox worker stopped", "error", err)
		}
	}()

	taskStore := mongodb.NewTaskStore(client.DB)
	poller := &taskrunner.Poller{
		Queue:    taskStore,
		Notifier: &notify.KafkaNotifier{Producer: producer, Logger: logger},
		Spec:     cfg.TaskPollSpec,
		Logger:   logger,
	}
	if err := poller.Start(ctx); err != nil {
		logger.Error("task poller start failed", "error", err)
		os.Exit(1)
	}
	defer poller.Stop()

	var photos s3.PhotoStore
	s3Client, err := s3.NewClient(cfg.S3Endpoint, cfg.S3UseSSL, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicEndpoint, logger)
	if err != nil {
		logger.Warn("object storage unavailable, photo uploads disabled", "error", err)
		photos = s3.Disabled{}
	} else {
		photos = s3Client
	}

	authService := &authsvc.Service{
		Users:      factory.UsersRepo,
		Sessions:   factory.SessionsRepo,
		Secrets:    security.BcryptHasher{},
		Generator:  security.RandomTokenGenerator{},
		SessionTTL: cfg.SessionTTL,
		Logger:     logger,
	}

	encoder := appoutbox.JSONEventEncoder{}

	commandBus := commands.NewInMemoryBus()
	commands.RegisterHandler(commandBus, availabilityapp.SetBlocksCommand{}.Key(), &availabilityapp.SetBlocksHandler{UoWFactory: factory})
	commands.RegisterHandler(commandBus, pricingapp.AddRuleCommand{}.Key(), &pricingapp.AddRuleHandler{UoWFactory: factory})
	commands.RegisterHandler(commandBus, pricingapp.DeleteRuleCommand{}.Key(), &pricingapp.DeleteRuleHandler{UoWFactory: factory})
	commands.RegisterHandler(commandBus, bookingapp.RequestBookingCommand{}.Key(), &bookingapp.RequestBookingHandler{
		UoWFactory: factory,
		Outbox:     outboxStore,
		Encoder:    encoder,
	})
	commands.RegisterHandler(commandBus, bookingapp.DecideBookingCommand{}.Key(), &bookingapp.DecideBookingHandler{
		UoWFactory: factory,
		Outbox:     outboxStore,
		Encoder:    encoder,
		Tasks:      taskStore,
	})
	commands.RegisterHandler(commandBus, listingapp.CreateListingCommand{}.Key(), &listingapp.CreateListingHandler{
		UoWFactory: factory,
		Outbox:     outboxStore,
		Encoder:    encoder,
	})
	commands.RegisterHandler(commandBus, listingapp.UpdateListingCommand{}.Key(), &listingapp.UpdateListingHandler{UoWFactory: factory})
	commands.RegisterHandler(commandBus, listingapp.ToggleActiveCommand{}.Key(), &listingapp.ToggleActiveHandler{UoWFactory: factory})
	commands.RegisterHandler(commandBus, listingapp.DeleteListingCommand{}.Key(), &listingapp.DeleteListingHandler{UoWFactory: factory})
	commands.RegisterHandler(commandBus, listingapp.VerifyListingCommand{}.Key(), &listingapp.VerifyListingHandler{UoWFactory: factory})
	commands.RegisterHandler(commandBus, listingapp.UploadPhotoCommand{}.Key(), &listingapp.UploadPhotoHandler{
		Logger:     logger,
		Photos:     photos,
		UoWFactory: factory,
	})
	commands.RegisterHandler(commandBus, reviewapp.SubmitReviewCommand{}.Key(), &reviewapp.SubmitReviewHandler{
		UoWFactory: factory,
		Outbox:     outboxStore,
		Logger:     logger,
	})
	commands.RegisterHandler(commandBus, userapp.RegisterUserCommand{}.Key(), &userapp.RegisterUserHandler{UoWFactory: factory, Logger: logger})
	commands.RegisterHandler(commandBus, userapp.SetRoleCommand{}.Key(), &userapp.SetRoleHandler{UoWFactory: factory, Logger: logger})

	queryBus := queries.NewInMemoryBus()
	queries.RegisterHandler(queryBus, availabilityapp.ResolveMonthQuery{}.Key(), &availabilityapp.ResolveMonthHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, pricingapp.ListRulesQuery{}.Key(), &pricingapp.ListRulesHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, listingapp.SearchCatalogQuery{}.Key(), &listingapp.SearchCatalogHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, listingapp.GetListingQuery{}.Key(), &listingapp.GetListingHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, listingapp.GetOverviewQuery{}.Key(), &listingapp.GetOverviewHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, listingapp.OwnerListingsQuery{}.Key(), &listingapp.OwnerListingsHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, listingapp.OwnerSummaryQuery{}.Key(), &listingapp.OwnerSummaryHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, bookingapp.OwnerBookingsQuery{}.Key(), &bookingapp.OwnerBookingsHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, bookingapp.RenterBookingsQuery{}.Key(), &bookingapp.RenterBookingsHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, bookingapp.PendingCountQuery{}.Key(), &bookingapp.PendingCountHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, reviewapp.ListListingReviewsQuery{}.Key(), &reviewapp.ListListingReviewsHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, reviewapp.ReviewSummaryQuery{}.Key(), &reviewapp.ReviewSummaryHandler{UoWFactory: factory})
	queries.RegisterHandler(queryBus, userapp.GetProfileQuery{}.Key(), &userapp.GetProfileHandler{UoWFactory: factory})

	idStore := mongodb.NewIdempotencyStore(client.DB, cfg.IdempotencyTTL)
	commandPipeline := middleware.ChainCommands(
		commandBus,
		middleware.Idempotency(idStore, nil),
		middleware.Transaction(factory, nil),
		middleware.OutboxFlush(outboxStore),
	)
	queryPipeline := middleware.ChainQueries(queryBus)

	handlers := ginserver.Handlers{
		Calendar: ginserver.CalendarHandler{Commands: commandPipeline, Queries: queryPipeline},
		Listing:  ginserver.ListingHandler{Commands: commandPipeline, Queries: queryPipeline},
		Booking:  ginserver.BookingHandler{Commands: commandPipeline, Queries: queryPipeline},
		Review:   ginserver.ReviewHandler{Commands: commandPipeline, Queries: queryPipeline},
		User:     ginserver.UserHandler{Commands: commandPipeline, Queries: queryPipeline},
		Auth:     ginserver.AuthHandler{Commands: commandPipeline, Service: authService},
		AuthMiddleware: ginserver.AuthMiddleware{
			Service: authService,
			Logger:  logger,
		}.Handle,
	}

	health := obs.HealthHandlers{
		Ready: func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		},
	}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, health, handlers)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}
