//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"estante/internal/admin"
	"estante/internal/chat"
	"estante/internal/config"
	"estante/internal/dbmongo"
	"estante/internal/dbmysql"
	"estante/internal/notif"
	"estante/internal/user"
	"estante/internal/web"
)

// InitializeApplication assembles the full dependency graph. Wire generates
// the real body in wire_gen.go.
func InitializeApplication(cfg *config.Config) (*Application, error) {
	wire.Build(
		dbmysql.NewMySQL,
		dbmongo.NewMongoConnection,
		dbmysql.NewNotificationRepository,
		user.NewUserRepository,
		user.NewProfileSource,
		wire.Bind(new(dbmongo.ProfileSource), new(*user.ProfileSource)),
		dbmongo.NewFriendshipStore,
		wire.Bind(new(user.SnapshotRefresher), new(*dbmongo.FriendshipStore)),
		wire.Bind(new(chat.FriendChecker), new(*dbmongo.FriendshipStore)),
		wire.Bind(new(admin.EdgeCounter), new(*dbmongo.FriendshipStore)),
		user.NewUserService,
		chat.NewMessageRepository,
		ProvideHub,
		wire.Bind(new(notif.Pusher), new(*web.Hub)),
		notif.NewNotificationService,
		wire.Bind(new(chat.EventPublisher), new(*notif.NotificationService)),
		wire.Bind(new(web.NotificationSender), new(*notif.NotificationService)),
		chat.NewChatService,
		wire.Bind(new(admin.UserCounter), new(user.UserRepository)),
		wire.Bind(new(admin.MessageCounter), new(chat.MessageRepository)),
		admin.NewDashboardService,
		dbmongo.NewAvatarStorage,
		ProvideCache,
		ProvideOptions,
		ProvideSessionManager,
		web.NewServer,
		wire.Struct(new(Application), "*"),
	)
	return &Application{}, nil
}
