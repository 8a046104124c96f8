package web

import (
	"net/http"
	"time"

	"estante/internal/common"
	"estante/internal/dbmysql"
)

const sessionCookieName = "estante_session"

type registerRequest struct {
	Handle      string `json:"handle"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

type loginRequest struct {
	Handle   string `json:"handle"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *userPayload `json:"user"`
}

type userPayload struct {
	UserID      string `json:"user_id"`
	Handle      string `json:"handle"`
	DisplayName string `json:"display_name"`
	Nickname    string `json:"nickname,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	Bio         string `json:"bio,omitempty"`
}

func toUserPayload(u *dbmysql.User) *userPayload {
	avatarURL := ""
	if u.AvatarFileID != "" {
		avatarURL = "/avatars/" + u.AvatarFileID
	}
	return &userPayload{
		UserID:      u.UserID,
		Handle:      u.Handle,
		DisplayName: u.DisplayName,
		Nickname:    u.Nickname,
		AvatarURL:   avatarURL,
		Bio:         u.Bio,
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, token, err := s.users.RegisterUser(r.Context(), req.Handle, req.DisplayName, req.Email, req.Password)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	setSessionCookie(w, token)
	writeJSON(w, http.StatusCreated, authResponse{Token: token, User: toUserPayload(u)})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, token, err := s.users.LoginUser(r.Context(), req.Handle, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	setSessionCookie(w, token)
	writeJSON(w, http.StatusOK, authResponse{Token: token, User: toUserPayload(u)})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	userID := common.CurrentUserID(r.Context())
	s.sessions.Close(userID)

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

func setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(24 * time.Hour),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
