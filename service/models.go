package service

import (
	"github.com/flokiorg/storehub/auth"
	"github.com/flokiorg/storehub/catalog"
	"github.com/flokiorg/storehub/config"
	"github.com/flokiorg/storehub/events"
	"gorm.io/gorm"
)

type Service interface {
	GetConfig() config.Config
	GetDB() *gorm.DB
	GetEventPublisher() events.EventPublisher
	GetCatalogStore() *catalog.Store
	GetSession() *auth.Session
	Shutdown()
}
