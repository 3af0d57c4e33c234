package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"gorm.io/gorm"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/flokiorg/storehub/auth"
	"github.com/flokiorg/storehub/cache"
	"github.com/flokiorg/storehub/catalog"
	"github.com/flokiorg/storehub/config"
	"github.com/flokiorg/storehub/db"
	"github.com/flokiorg/storehub/events"
	"github.com/flokiorg/storehub/logger"
	"github.com/flokiorg/storehub/pkg/version"
	"github.com/flokiorg/storehub/remote"
)

type service struct {
	cfg            config.Config
	db             *gorm.DB
	eventPublisher events.EventPublisher
	catalogStore   *catalog.Store
	session        *auth.Session
	ctx            context.Context
}

func NewService(ctx context.Context) (*service, error) {
	// Load config from environment variables / .env file
	godotenv.Load(".env")
	appConfig := &config.AppConfig{}
	err := envconfig.Process("", appConfig)
	if err != nil {
		return nil, err
	}

	logger.Init(appConfig.LogLevel)
	logger.Logger.Info().Msg("Storehub " + version.Tag)

	if appConfig.Workdir == "" {
		appConfig.Workdir = filepath.Join(xdg.DataHome, "storehub")
		logger.Logger.Info().Str("workdir", appConfig.Workdir).Msg("No workdir specified, using default")
	}
	// make sure workdir exists
	os.MkdirAll(appConfig.Workdir, os.ModePerm)

	if appConfig.LogToFile {
		err = logger.AddFileLogger(appConfig.Workdir)
		if err != nil {
			return nil, err
		}
	}

	// If DATABASE_URI is a URI or a path, leave it unchanged.
	// If it only contains a filename, prepend the workdir.
	if !strings.HasPrefix(appConfig.DatabaseUri, "file:") {
		databasePath, _ := filepath.Split(appConfig.DatabaseUri)
		if databasePath == "" {
			appConfig.DatabaseUri = filepath.Join(appConfig.Workdir, appConfig.DatabaseUri)
		}
	}

	gormDB, err := db.NewDB(appConfig.DatabaseUri, appConfig.LogDBQueries)
	if err != nil {
		return nil, err
	}

	cfg, err := config.NewConfig(appConfig)
	if err != nil {
		return nil, err
	}

	if appConfig.AdminPasswordHash == "" {
		logger.Logger.Warn().Msg("No ADMIN_PASSWORD_HASH configured, catalog is read-only")
	}

	eventPublisher := events.NewEventPublisher()

	session := auth.NewSession(auth.NewVerifier(appConfig.AdminPasswordHash))
	cacheStore := cache.NewStore(gormDB)
	remoteClient := remote.NewClient(cfg)

	catalogStore := catalog.NewStore(cacheStore, remoteClient, session, eventPublisher)
	catalogStore.Start(ctx)

	svc := &service{
		cfg:            cfg,
		db:             gormDB,
		eventPublisher: eventPublisher,
		catalogStore:   catalogStore,
		session:        session,
		ctx:            ctx,
	}

	eventPublisher.Publish(&events.Event{Event: "storehub_started"})

	return svc, nil
}

func (svc *service) GetConfig() config.Config {
	return svc.cfg
}

func (svc *service) GetDB() *gorm.DB {
	return svc.db
}

func (svc *service) GetEventPublisher() events.EventPublisher {
	return svc.eventPublisher
}

func (svc *service) GetCatalogStore() *catalog.Store {
	return svc.catalogStore
}

func (svc *service) GetSession() *auth.Session {
	return svc.session
}

func (svc *service) Shutdown() {
	svc.catalogStore.WaitShutdown()
	logger.Logger.Info().Msg("Service exited")
}
