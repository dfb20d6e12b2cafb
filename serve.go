package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"rvpark-listings/internal/database"
	"rvpark-listings/internal/handler"
	"rvpark-listings/internal/logger"
	"rvpark-listings/internal/middleware"
	"rvpark-listings/internal/mongo"
	"rvpark-listings/internal/repository"
	"rvpark-listings/internal/service"
	"rvpark-listings/internal/storage"
	"rvpark-listings/internal/validator"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	appLog := logger.NewZapAdapter(log)

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	mongoClient, err := mongo.NewClient(ctx, cfg.Mongo.URI)
	if err != nil {
		return err
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	resolver := storage.NewResolver(cfg.Storage.PublicBaseURL, cfg.Storage.Bucket)
	listingRepo := repository.NewListingRepository(db, cfg.Database.QueryTimeout)
	imageRepo := repository.NewImageRepository(mongoClient, cfg.Mongo.Database, resolver.Bucket)

	normalizer := service.NewNormalizer(resolver)
	listings := service.NewListingService(listingRepo, normalizer, appLog)
	catalog := service.NewCatalog(listings, appLog)
	moderation := service.NewModerationService(listingRepo, normalizer, appLog)
	images := service.NewImageService(imageRepo, listingRepo, resolver, appLog)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(appLog))

	r.GET("/healthz", handler.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	imageHandler := handler.NewImageHandler(images, resolver.Bucket)
	imageHandler.RegisterPublicRoutes(r)

	api := r.Group("/api")
	api.Use(middleware.RateLimit(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst))
	handler.NewListingHandler(catalog, validator.New()).RegisterRoutes(api)

	admin := api.Group("/admin")
	admin.Use(middleware.JWTAuthMiddleware(cfg.Auth.JWTSecret, cfg.Auth.AdminRole))
	handler.NewAdminHandler(moderation).RegisterRoutes(admin)
	imageHandler.RegisterAdminRoutes(admin)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listing service running", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
