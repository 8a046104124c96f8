package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"estante/internal/chat"
	"estante/internal/common"
)

type sendMessageRequest struct {
	Content string `json:"content"`
}

func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	userID := common.CurrentUserID(r.Context())
	recipientID := mux.Vars(r)["userId"]

	var req sendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	msg, err := s.chats.SendMessage(r.Context(), userID, recipientID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrNotFriends):
			writeError(w, http.StatusForbidden, "you can only message friends")
		case errors.Is(err, chat.ErrEmptyMessage):
			writeError(w, http.StatusBadRequest, "message content is empty")
		default:
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	s.hub.SendToUser(recipientID, &PushMessage{Event: "new_message", Data: msg})
	writeJSON(w, http.StatusCreated, msg)
}

func (s *Server) handleListConversations(w http.ResponseWriter, r *http.Request) {
	userID := common.CurrentUserID(r.Context())

	partners, err := s.chats.ListConversations(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list conversations")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"conversations": partners})
}

func (s *Server) handleGetConversation(w http.ResponseWriter, r *http.Request) {
	userID := common.CurrentUserID(r.Context())
	otherID := mux.Vars(r)["userId"]

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	messages, err := s.chats.GetConversation(r.Context(), userID, otherID, limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load conversation")
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

func (s *Server) handleMarkConversationRead(w http.ResponseWriter, r *http.Request) {
	userID := common.CurrentUserID(r.Context())
	otherID := mux.Vars(r)["userId"]

	if err := s.chats.MarkRead(r.Context(), userID, otherID); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to mark conversation read")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "read"})
}
