package di

import (
	"time"

	"gorm.io/gorm"

	"estante/internal/config"
	"estante/internal/dbmongo"
	"estante/internal/friendship"
	"estante/internal/notif"
	"estante/internal/web"
)

// Application bundles everything main needs to run and shut down the server.
type Application struct {
	Config        *config.Config
	DB            *gorm.DB
	Mongo         *dbmongo.MongoClient
	Store         *dbmongo.FriendshipStore
	Sessions      *web.SessionManager
	Notifications *notif.NotificationService
	Hub           *web.Hub
	Server        *web.Server
}

// ProvideHub builds the websocket hub and starts its dispatch loop.
func ProvideHub() *web.Hub {
	hub := web.NewHub()
	go hub.Run()
	return hub
}

// ProvideCache builds the friends-list cache with the configured TTL.
func ProvideCache(cfg *config.Config) *friendship.Cache {
	return friendship.NewCache(time.Duration(cfg.Friendship.CacheTTL) * time.Minute)
}

// ProvideOptions maps config onto session loader tuning.
func ProvideOptions(cfg *config.Config) friendship.Options {
	return friendship.Options{
		PageSize:      cfg.Friendship.PageSize,
		MaxPages:      cfg.Friendship.MaxPages,
		PageDelay:     time.Duration(cfg.Friendship.PageDelay) * time.Millisecond,
		SnapshotLimit: cfg.Friendship.SnapshotLimit,
	}
}

// ProvideSessionManager wires the manager to the hub's idle notifications so
// sessions are released when users disconnect.
func ProvideSessionManager(store *dbmongo.FriendshipStore, cache *friendship.Cache, hub *web.Hub, opts friendship.Options) *web.SessionManager {
	manager := web.NewSessionManager(store, cache, hub, opts)
	hub.SetIdleHandler(manager.HandleDisconnect)
	return manager
}
