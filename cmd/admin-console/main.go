package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/zoomwifi/admin-console/api/swagger"
	"github.com/zoomwifi/admin-console/internal/auth"
	"github.com/zoomwifi/admin-console/internal/gateway"
	"github.com/zoomwifi/admin-console/internal/handler"
	internalmiddleware "github.com/zoomwifi/admin-console/internal/middleware"
	"github.com/zoomwifi/admin-console/internal/listsync"
	"github.com/zoomwifi/admin-console/internal/models"
	"github.com/zoomwifi/admin-console/internal/mutation"
	"github.com/zoomwifi/admin-console/internal/query"
	"github.com/zoomwifi/admin-console/internal/repository"
	"github.com/zoomwifi/admin-console/internal/service"
	"github.com/zoomwifi/admin-console/pkg/cache"
	"github.com/zoomwifi/admin-console/pkg/config"
	"github.com/zoomwifi/admin-console/pkg/database"
	"github.com/zoomwifi/admin-console/pkg/i18n"
	"github.com/zoomwifi/admin-console/pkg/logger"
	corsmiddleware "github.com/zoomwifi/admin-console/pkg/middleware/cors"
	reqidmiddleware "github.com/zoomwifi/admin-console/pkg/middleware/requestid"
	"github.com/zoomwifi/admin-console/pkg/storage"
)

// @title ZOOM WIFI Admin Console API
// @version 1.0.0
// @description Operator console over the ZOOM WIFI backend: synchronized lists, mutation commands and exports
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := service.NewMetricsService()
	validate := validator.New()
	translator := i18n.New(cfg.I18n.DefaultLocale)
	checks := map[string]handler.ReadinessCheck{}

	var redisClient *redis.Client
	if cfg.Session.Persist || cfg.Cache.Enabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			logr.Fatal("failed to connect redis", zap.Error(err))
		}
		defer redisClient.Close()
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	var tokenStore auth.Store = auth.NewMemoryStore()
	if cfg.Session.Persist {
		tokenStore = auth.NewRedisStore(redisClient, cfg.Session.TokenKey)
	}
	tokens := auth.NewProvider(tokenStore, logger.Component(logr, "auth"))
	if err := tokens.Restore(ctx); err != nil {
		logr.Warn("failed to restore session", zap.Error(err))
	}

	client := gateway.NewClient(cfg.Backend.BaseURL, tokens,
		gateway.WithTimeout(cfg.Backend.Timeout),
		gateway.WithUserAgent(cfg.Backend.UserAgent),
		gateway.WithLogger(logger.Component(logr, "gateway")),
		gateway.WithObserver(metrics),
	)
	users := gateway.NewUserGateway(client)
	partners := gateway.NewPartnerGateway(client)
	transactions := gateway.NewTransactionGateway(client)
	admins := gateway.NewAdminGateway(client)
	alerts := gateway.NewAlertGateway(client)
	settings := gateway.NewSettingsGateway(client)

	listCfg := func(name string, pageSize int) listsync.Config {
		return listsync.Config{
			PageSize: pageSize,
			Debounce: cfg.Lists.SearchDebounce,
			Logger:   logger.Component(logr, "list."+name),
			Metrics:  metrics,
		}
	}
	userList := listsync.New[models.Client](query.Users(), users, models.Client.Key, listCfg("users", cfg.Lists.PageSize))
	partnerList := listsync.New[models.Partner](query.Partners(), partners, models.Partner.Key, listCfg("partners", cfg.Lists.PageSize))
	transactionList := listsync.New[models.Transaction](query.Transactions(), transactions, models.Transaction.Key, listCfg("transactions", cfg.Lists.PageSize))
	adminList := listsync.New[models.Admin](query.Admins(), admins, models.Admin.Key, listCfg("admins", cfg.Lists.PageSize))
	alertList := listsync.New[models.Alert](query.Alerts(), alerts, models.Alert.Key, listCfg("alerts", cfg.Alerts.PageSize))
	defer userList.Close()
	defer partnerList.Close()
	defer transactionList.Close()
	defer adminList.Close()
	defer alertList.Close()

	authSvc := service.NewAuthService(admins, tokens, validate, logger.Component(logr, "auth"))

	runnerOpts := []mutation.Option{
		mutation.WithValidator(validate),
		mutation.WithObserver(metrics),
		mutation.WithLogger(logger.Component(logr, "mutation")),
	}
	if cfg.Audit.Enabled {
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			logr.Fatal("failed to connect database", zap.Error(err))
		}
		defer db.Close()
		if err := database.EnsureSchema(ctx, db); err != nil {
			logr.Fatal("failed to prepare audit schema", zap.Error(err))
		}
		runnerOpts = append(runnerOpts, mutation.WithAuditor(repository.NewAuditRepository(db)))
		checks["database"] = pingDB(db)
	}

	userRunner := mutation.NewRunner[models.Client](userList, mutation.NewUserExecutor(users, transactions, authSvc.OperatorID), runnerOpts...)
	partnerRunner := mutation.NewRunner[models.Partner](partnerList, mutation.NewPartnerExecutor(partners, transactions, authSvc.OperatorID), runnerOpts...)
	transactionRunner := mutation.NewRunner[models.Transaction](transactionList, mutation.NewTransactionExecutor(transactions), runnerOpts...)
	adminRunner := mutation.NewRunner[models.Admin](adminList, mutation.NewAdminExecutor(admins), runnerOpts...)
	alertRunner := mutation.NewRunner[models.Alert](alertList, mutation.NewAlertExecutor(alerts), runnerOpts...)

	var countriesCache service.CacheRepository
	if cfg.Cache.Enabled {
		countriesCache = repository.NewCacheRepository(redisClient, "zoomwifi:console", logger.Component(logr, "cache"))
	}
	referenceSvc := service.NewReferenceService(users, countriesCache, metrics, cfg.Cache.CountriesTTL, logger.Component(logr, "reference"))
	dashboardSvc := service.NewDashboardService(admins, logger.Component(logr, "dashboard"))
	settingsSvc := service.NewSettingsService(settings, validate, logger.Component(logr, "settings"))
	registrationSvc := service.NewRegistrationService(users, partners, admins, service.RegistrationLists{
		Users:    userList,
		Partners: partnerList,
		Admins:   adminList,
	}, validate, logger.Component(logr, "registration"))
	alertSvc := service.NewAlertService(alertList, cfg.Alerts.PollInterval, metrics, logger.Component(logr, "alerts"))

	exportSvc := buildExports(ctx, cfg, metrics, logr)

	userList.Start()
	partnerList.Start()
	transactionList.Start()
	adminList.Start()
	alertList.Start()
	alertSvc.Start(ctx)
	defer alertSvc.Stop()
	exportSvc.Start(ctx)
	defer exportSvc.Stop()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.Metrics(metrics, "/metrics"))

	health := handler.NewHealthHandler(checks)
	r.GET("/health", health.Health)
	r.GET("/ready", health.Ready)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	authHandler := handler.NewAuthHandler(authSvc)
	api.POST("/auth/login", authHandler.Login)
	api.GET("/auth/session", authHandler.Session)

	referenceHandler := handler.NewReferenceHandler(referenceSvc, translator, alertSvc)
	api.GET("/i18n/:locale", referenceHandler.Translations)

	exportHandler := handler.NewExportHandler(exportSvc)
	api.GET("/exports/:token", exportHandler.Download)

	secured := api.Group("")
	secured.Use(internalmiddleware.RequireSession(tokens))
	secured.POST("/auth/logout", authHandler.Logout)
	secured.GET("/countries", referenceHandler.Countries)
	secured.GET("/alerts/unread-count", referenceHandler.UnreadAlerts)
	secured.GET("/exports/jobs/:id", exportHandler.Status)

	dashboardHandler := handler.NewDashboardHandler(dashboardSvc)
	secured.GET("/dashboard", dashboardHandler.Stats)

	settingsHandler := handler.NewSettingsHandler(settingsSvc)
	secured.GET("/settings/billing/:country", settingsHandler.Billing)
	secured.PUT("/settings/billing/:country", settingsHandler.SaveBilling)
	secured.GET("/settings/company", settingsHandler.Company)
	secured.PATCH("/settings/company", settingsHandler.SaveCompany)

	registrationHandler := handler.NewRegistrationHandler(registrationSvc)
	secured.POST("/users", registrationHandler.CreateUser)
	secured.POST("/partners", registrationHandler.RegisterPartner)
	secured.POST("/admins", registrationHandler.RegisterAdmin)

	handler.NewListHandler[models.Client]("users", userList, userRunner, exportSvc, service.UsersDataset, translator).Register(secured)
	handler.NewListHandler[models.Partner]("partners", partnerList, partnerRunner, exportSvc, service.PartnersDataset, translator).Register(secured)
	handler.NewListHandler[models.Transaction]("transactions", transactionList, transactionRunner, exportSvc, service.TransactionsDataset, translator).Register(secured)
	handler.NewListHandler[models.Admin]("admins", adminList, adminRunner, exportSvc, service.AdminsDataset, translator).Register(secured)
	handler.NewListHandler[models.Alert]("alerts", alertList, alertRunner, exportSvc, service.AlertsDataset, translator).Register(secured)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

func buildExports(ctx context.Context, cfg *config.Config, metrics *service.MetricsService, logr *zap.Logger) *service.ExportService {
	exportCfg := service.ExportConfig{
		Enabled:    cfg.Exports.Enabled,
		APIPrefix:  cfg.APIPrefix,
		ResultTTL:  cfg.Exports.SignedURLTTL,
		Workers:    cfg.Exports.WorkerConcurrency,
		MaxRetries: cfg.Exports.WorkerRetries,
	}
	exportLogger := logger.Component(logr, "exports")
	if !cfg.Exports.Enabled {
		return service.NewExportService(nil, nil, metrics, exportCfg, exportLogger)
	}

	store, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
	if err != nil {
		logr.Fatal("failed to prepare export storage", zap.Error(err))
	}
	signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
	svc := service.NewExportService(store, signer, metrics, exportCfg, exportLogger)

	if cfg.Exports.CleanupInterval > 0 {
		go func() {
			ticker := time.NewTicker(cfg.Exports.CleanupInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					removed, err := svc.Cleanup()
					if err != nil {
						exportLogger.Warn("export cleanup failed", zap.Error(err))
						continue
					}
					if len(removed) > 0 {
						exportLogger.Info("expired exports removed", zap.Int("count", len(removed)))
					}
				}
			}
		}()
	}
	return svc
}

func pingDB(db *sqlx.DB) handler.ReadinessCheck {
	return func(ctx context.Context) error { return db.PingContext(ctx) }
}
