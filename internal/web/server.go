package web

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"estante/internal/admin"
	"estante/internal/chat"
	"estante/internal/common"
	"estante/internal/dbmongo"
	"estante/internal/dbmysql"
	"estante/internal/user"
)

// NotificationSender is the slice of the notification service the handlers
// depend on.
type NotificationSender interface {
	SendFriendRequestNotification(ctx context.Context, fromUserID, toUserID, fromDisplayName string) error
	SendFriendAcceptedNotification(ctx context.Context, accepterID, requesterID, accepterDisplayName string) error
	ListNotifications(ctx context.Context, userID string, limit, offset int) ([]*dbmysql.Notification, error)
	MarkRead(ctx context.Context, id string) error
	CountUnread(ctx context.Context, userID string) (int64, error)
}

// Server wires every HTTP surface of the application behind one mux router.
type Server struct {
	users         user.UserService
	chats         chat.ChatService
	notifications NotificationSender
	dashboard     *admin.DashboardService
	avatars       *dbmongo.AvatarStorage
	sessions      *SessionManager
	hub           *Hub
}

func NewServer(
	users user.UserService,
	chats chat.ChatService,
	notifications NotificationSender,
	dashboard *admin.DashboardService,
	avatars *dbmongo.AvatarStorage,
	sessions *SessionManager,
	hub *Hub,
) *Server {
	return &Server{
		users:         users,
		chats:         chats,
		notifications: notifications,
		dashboard:     dashboard,
		avatars:       avatars,
		sessions:      sessions,
		hub:           hub,
	}
}

func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/health", s.health).Methods("GET")

	// Public auth endpoints
	router.HandleFunc("/api/auth/register", s.handleRegister).Methods("POST")
	router.HandleFunc("/api/auth/login", s.handleLogin).Methods("POST")

	// Avatar files are public, profile pictures render for everyone
	router.HandleFunc("/avatars/{fileId}", s.serveAvatar).Methods("GET")

	api := router.PathPrefix("/api").Subrouter()
	api.Use(common.AuthMiddleware)

	api.HandleFunc("/auth/logout", s.handleLogout).Methods("POST")

	api.HandleFunc("/me", s.handleGetProfile).Methods("GET")
	api.HandleFunc("/me", s.handleUpdateProfile).Methods("PUT")
	api.HandleFunc("/me/avatar", s.handleUploadAvatar).Methods("POST")
	api.HandleFunc("/users/search", s.handleSearchUsers).Methods("GET")

	api.HandleFunc("/friends", s.handleFriendsState).Methods("GET")
	api.HandleFunc("/friends/search", s.handleSetSearch).Methods("PUT")
	api.HandleFunc("/friends/sort", s.handleSetSort).Methods("PUT")
	api.HandleFunc("/friends/load-more", s.handleLoadMore).Methods("POST")
	api.HandleFunc("/friends/refresh", s.handleRefresh).Methods("POST")
	api.HandleFunc("/friends/requests", s.handleSendRequest).Methods("POST")
	api.HandleFunc("/friends/requests/{edgeId}/accept", s.handleAcceptRequest).Methods("POST")
	api.HandleFunc("/friends/requests/{edgeId}/reject", s.handleRejectRequest).Methods("POST")
	api.HandleFunc("/friends/sent/{edgeId}", s.handleCancelSentRequest).Methods("DELETE")
	api.HandleFunc("/friends/sent", s.handleCancelAllSentRequests).Methods("DELETE")
	api.HandleFunc("/friends/{edgeId}", s.handleRemoveFriend).Methods("DELETE")
	api.HandleFunc("/friends/status/{userId}", s.handleFriendshipStatus).Methods("GET")

	api.HandleFunc("/conversations", s.handleListConversations).Methods("GET")
	api.HandleFunc("/messages/{userId}", s.handleSendMessage).Methods("POST")
	api.HandleFunc("/messages/{userId}", s.handleGetConversation).Methods("GET")
	api.HandleFunc("/messages/{userId}/read", s.handleMarkConversationRead).Methods("POST")

	api.HandleFunc("/notifications", s.handleListNotifications).Methods("GET")
	api.HandleFunc("/notifications/{id}/read", s.handleMarkNotificationRead).Methods("POST")
	api.HandleFunc("/notifications/unread-count", s.handleUnreadCount).Methods("GET")

	api.HandleFunc("/ws", s.HandleWebSocket).Methods("GET")

	adminAPI := api.PathPrefix("/admin").Subrouter()
	adminAPI.Use(common.AdminMiddleware)
	adminAPI.HandleFunc("/dashboard", s.handleDashboard).Methods("GET")

	return router
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func decodeJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}
