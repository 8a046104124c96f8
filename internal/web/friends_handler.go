package web

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"estante/internal/common"
	"estante/internal/friendship"
)

// friendsState is the full read model rendered to the friends page. Every
// list is already filtered and sorted by the session's memoized views.
type friendsState struct {
	Friends        []friendship.Friendship  `json:"friends"`
	AllFriends     []friendship.Friendship  `json:"all_friends"`
	Requests       []friendship.Friendship  `json:"requests"`
	SentRequests   []friendship.Friendship  `json:"sent_requests"`
	Stats          friendship.Stats         `json:"stats"`
	Loading        bool                     `json:"loading"`
	LoadingMore    bool                     `json:"loading_more"`
	HasMoreFriends bool                     `json:"has_more_friends"`
	Error          string                   `json:"error,omitempty"`
	SearchQuery    string                   `json:"search_query"`
	SortField      friendship.SortField     `json:"sort_field"`
	SortDirection  friendship.SortDirection `json:"sort_direction"`
}

func (s *Server) session(w http.ResponseWriter, r *http.Request) *friendship.Session {
	userID := common.CurrentUserID(r.Context())
	session, err := s.sessions.Acquire(userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not open friends session")
		return nil
	}
	return session
}

func stateOf(session *friendship.Session) friendsState {
	field, direction := session.SortBy()
	return friendsState{
		Friends:        session.Friends(),
		AllFriends:     session.AllFriends(),
		Requests:       session.Requests(),
		SentRequests:   session.SentRequests(),
		Stats:          session.Stats(),
		Loading:        session.Loading(),
		LoadingMore:    session.LoadingMore(),
		HasMoreFriends: session.HasMoreFriends(),
		Error:          session.Err(),
		SearchQuery:    session.SearchQuery(),
		SortField:      field,
		SortDirection:  direction,
	}
}

func (s *Server) handleFriendsState(w http.ResponseWriter, r *http.Request) {
	session := s.session(w, r)
	if session == nil {
		return
	}
	writeJSON(w, http.StatusOK, stateOf(session))
}

type searchRequest struct {
	Query string `json:"query"`
}

func (s *Server) handleSetSearch(w http.ResponseWriter, r *http.Request) {
	session := s.session(w, r)
	if session == nil {
		return
	}

	var req searchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session.SetSearchQuery(req.Query)
	writeJSON(w, http.StatusOK, stateOf(session))
}

type sortRequest struct {
	Field     string `json:"field"`
	Direction string `json:"direction"`
}

func (s *Server) handleSetSort(w http.ResponseWriter, r *http.Request) {
	session := s.session(w, r)
	if session == nil {
		return
	}

	var req sortRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	switch friendship.SortField(req.Field) {
	case friendship.SortDefault, friendship.SortName, friendship.SortNickname, friendship.SortFriendshipDate:
		session.SetSortField(friendship.SortField(req.Field))
	default:
		writeError(w, http.StatusBadRequest, "unknown sort field")
		return
	}

	switch friendship.SortDirection(req.Direction) {
	case friendship.SortAsc, friendship.SortDesc:
		session.SetSortDirection(friendship.SortDirection(req.Direction))
	case "":
		// keep current direction
	default:
		writeError(w, http.StatusBadRequest, "unknown sort direction")
		return
	}

	writeJSON(w, http.StatusOK, stateOf(session))
}

func (s *Server) handleLoadMore(w http.ResponseWriter, r *http.Request) {
	session := s.session(w, r)
	if session == nil {
		return
	}
	session.LoadMore(r.Context())
	writeJSON(w, http.StatusOK, stateOf(session))
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	session := s.session(w, r)
	if session == nil {
		return
	}
	session.Refresh(r.Context())
	writeJSON(w, http.StatusOK, stateOf(session))
}

type sendRequestBody struct {
	UserID string `json:"user_id"`
}

func (s *Server) handleSendRequest(w http.ResponseWriter, r *http.Request) {
	session := s.session(w, r)
	if session == nil {
		return
	}

	var req sendRequestBody
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := session.SendRequest(r.Context(), req.UserID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if u, err := s.users.GetProfile(r.Context(), session.UserID()); err == nil {
		if err := s.notifications.SendFriendRequestNotification(r.Context(), session.UserID(), req.UserID, u.DisplayName); err != nil {
			logrus.WithError(err).WithField("user_id", req.UserID).Warn("failed to send friend request notification")
		}
	}
	writeJSON(w, http.StatusOK, stateOf(session))
}

func (s *Server) handleAcceptRequest(w http.ResponseWriter, r *http.Request) {
	session := s.session(w, r)
	if session == nil {
		return
	}
	edgeID := mux.Vars(r)["edgeId"]

	requesterID := ""
	for _, edge := range session.Requests() {
		if edge.ID == edgeID {
			requesterID = edge.FriendID
			break
		}
	}

	if err := session.AcceptRequest(r.Context(), edgeID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if requesterID != "" {
		if u, err := s.users.GetProfile(r.Context(), session.UserID()); err == nil {
			if err := s.notifications.SendFriendAcceptedNotification(r.Context(), session.UserID(), requesterID, u.DisplayName); err != nil {
				logrus.WithError(err).WithField("user_id", requesterID).Warn("failed to send friend accepted notification")
			}
		}
	}
	writeJSON(w, http.StatusOK, stateOf(session))
}

func (s *Server) handleRejectRequest(w http.ResponseWriter, r *http.Request) {
	session := s.session(w, r)
	if session == nil {
		return
	}
	if err := session.RejectRequest(r.Context(), mux.Vars(r)["edgeId"]); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stateOf(session))
}

func (s *Server) handleCancelSentRequest(w http.ResponseWriter, r *http.Request) {
	session := s.session(w, r)
	if session == nil {
		return
	}
	if err := session.CancelSentRequest(r.Context(), mux.Vars(r)["edgeId"]); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stateOf(session))
}

func (s *Server) handleCancelAllSentRequests(w http.ResponseWriter, r *http.Request) {
	session := s.session(w, r)
	if session == nil {
		return
	}
	if err := session.CancelAllSentRequests(r.Context()); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stateOf(session))
}

func (s *Server) handleRemoveFriend(w http.ResponseWriter, r *http.Request) {
	session := s.session(w, r)
	if session == nil {
		return
	}
	if err := session.RemoveFriend(r.Context(), mux.Vars(r)["edgeId"]); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stateOf(session))
}

func (s *Server) handleFriendshipStatus(w http.ResponseWriter, r *http.Request) {
	session := s.session(w, r)
	if session == nil {
		return
	}
	status := session.FriendshipStatus(mux.Vars(r)["userId"])
	writeJSON(w, http.StatusOK, map[string]string{"status": status})
}
