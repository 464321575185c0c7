package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"media-catalog/domain/repository"
	"media-catalog/infrastructure/cache"
	"media-catalog/infrastructure/clients/mediastore"
	"media-catalog/infrastructure/configuration"
	"media-catalog/infrastructure/logger"
	"media-catalog/infrastructure/persistence"
	"media-catalog/infrastructure/pubsub"
	"media-catalog/infrastructure/realtime"
	"media-catalog/infrastructure/servicebus"
	httpHandler "media-catalog/interfaces/http"
	"media-catalog/server"
	"media-catalog/usecase"

	"golang.org/x/sync/errgroup"
)

var httpServer *http.Server

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	app := configuration.C.App

	mongoDb, err := persistence.NewMongoDb(
		configuration.C.Database.Mongo.Host,
		configuration.C.Database.Mongo.Port,
		configuration.C.Database.Mongo.User,
		configuration.C.Database.Mongo.Password,
		configuration.C.Database.Mongo.Name,
	)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("MongoDB initialization failed")
		os.Exit(1)
	}
	if err := mongoDb.Ping(ctx, nil); err != nil {
		logger.GetLogger().WithField("error", err).Error("MongoDB ping failed - record store is required")
		os.Exit(1)
	}
	logger.GetLogger().Info("MongoDB connected successfully")

	// Cache is fail-open: a dead Redis degrades every fetch to a miss
	redisClient, _ := cache.NewCache(
		ctx,
		fmt.Sprintf("%s:%s", configuration.C.RedisClient.Host, configuration.C.RedisClient.Port),
		configuration.C.RedisClient.Username,
		configuration.C.RedisClient.Password,
	)
	cacheStore := cache.NewRedisStore(redisClient)
	tagRegistry := cache.NewTagRegistry(cacheStore)
	coordinator := cache.NewCoordinator(cacheStore, tagRegistry, time.Duration(configuration.C.Cache.TTLSeconds)*time.Second)
	logger.GetLogger().Info("Redis client initialized successfully.")

	// listing entries written by a previous process are not in this
	// process's tag registry; purge them so they cannot go stale forever
	if purged, err := coordinator.PurgeKind(ctx, usecase.KindVideoList); err == nil && purged > 0 {
		logger.GetLogger().WithField("purged", purged).Info("Purged listing cache entries from previous run")
	}

	var eventPublisher repository.IEventPublisher
	if configuration.C.Pubsub.ProjectID != "" {
		pubSubClient, err := pubsub.NewPubSub(ctx, configuration.C.Pubsub.ProjectID)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("PubSub not available - continuing without mutation events")
		} else {
			eventPublisher = pubsub.NewEventPublisher(pubSubClient)
		}
	}

	var eventBus repository.IEventBus
	if configuration.C.ServiceBus.Namespace != "" {
		azServiceBusClient, err := servicebus.NewServiceBus(ctx, configuration.C.ServiceBus.Namespace)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("Azure Service Bus not available - continuing without queue mirror")
		} else {
			eventBus = servicebus.NewEventBus(azServiceBusClient, configuration.C.ServiceBus.Queue)
		}
	}

	var mediaStore repository.IMediaStore
	if configuration.C.MediaStore.Host != "" {
		mediaStore = mediastore.NewMediaStore(&mediastore.Config{
			Host:   configuration.C.MediaStore.Host,
			APIKey: configuration.C.MediaStore.APIKey,
			Folder: configuration.C.MediaStore.Folder,
		})
	} else {
		logger.GetLogger().Warn("Media store not configured - publish/update with attachments will fail upstream")
	}

	videoRepository := persistence.NewVideoRepository(mongoDb, configuration.C.Database.Mongo.Name)

	catalogHub := realtime.NewCatalogHub()
	videoUsecase := usecase.NewVideoUsecase(videoRepository, coordinator, mediaStore).
		WithEvents(eventPublisher, eventBus, configuration.C.Pubsub.Topic).
		WithBroadcaster(func(eventType, videoID string) { catalogHub.Broadcast(eventType, videoID) })

	videoHandler := httpHandler.NewVideoHandler(videoUsecase)
	healthHandler := httpHandler.NewHealthHandler()

	router := server.InitiateRouter(videoHandler, healthHandler, catalogHub)

	port := app.Port
	logger.GetLogger().WithFields(map[string]interface{}{"port": port, "tls": app.TLSEnabled}).Info("Starting application")
	g.Go(func() error {
		httpServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: router,
		}
		if app.TLSEnabled {
			cert := app.TLSCertFile
			key := app.TLSKeyFile
			if cert == "" || key == "" {
				logger.GetLogger().Error("TLS enabled but cert or key path empty; falling back to HTTP")
				if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			} else {
				logger.GetLogger().WithFields(map[string]interface{}{"cert": cert, "key": key}).Info("Serving HTTPS")
				if err := httpServer.ListenAndServeTLS(cert, key); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			}
		} else {
			if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if httpServer != nil {
		_ = httpServer.Shutdown(shutdownCtx)
	}
	if err := mongoDb.Disconnect(shutdownCtx); err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while disconnecting MongoDB")
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}

	if err := g.Wait(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}
