package web

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"estante/internal/common"
)

const maxAvatarSize = 5 << 20 // 5 MiB

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID := common.CurrentUserID(r.Context())

	u, err := s.users.GetProfile(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, toUserPayload(u))
}

type updateProfileRequest struct {
	DisplayName string `json:"display_name"`
	Nickname    string `json:"nickname"`
	Bio         string `json:"bio"`
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := common.CurrentUserID(r.Context())

	var req updateProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.users.UpdateProfile(r.Context(), userID, req.DisplayName, req.Nickname, req.Bio, ""); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleUploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID := common.CurrentUserID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarSize)
	if err := r.ParseMultipartForm(maxAvatarSize); err != nil {
		writeError(w, http.StatusBadRequest, "avatar too large or malformed upload")
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		writeError(w, http.StatusBadRequest, "avatar file is required")
		return
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	stored, err := s.avatars.Upload(r.Context(), header.Filename, mimeType, userID, file)
	if err != nil {
		logrus.WithError(err).Error("avatar upload failed")
		writeError(w, http.StatusInternalServerError, "failed to store avatar")
		return
	}

	if err := s.users.UpdateProfile(r.Context(), userID, "", "", "", stored.ID); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to link avatar")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"file_id":    stored.ID,
		"avatar_url": "/avatars/" + stored.ID,
	})
}

func (s *Server) serveAvatar(w http.ResponseWriter, r *http.Request) {
	fileID := mux.Vars(r)["fileId"]

	reader, meta, err := s.avatars.Download(r.Context(), fileID)
	if err != nil {
		http.Error(w, "file not found", http.StatusNotFound)
		return
	}

	if meta.MimeType != "" {
		w.Header().Set("Content-Type", meta.MimeType)
	}
	w.Header().Set("Content-Length", fmt.Sprintf("%d", meta.Size))
	w.Header().Set("Cache-Control", "public, max-age=86400")

	if _, err := io.Copy(w, reader); err != nil {
		logrus.WithError(err).Debug("error streaming avatar")
	}
}

func (s *Server) handleSearchUsers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	users, err := s.users.SearchUsers(r.Context(), query, limit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	payload := make([]*userPayload, 0, len(users))
	for _, u := range users {
		payload = append(payload, toUserPayload(u))
	}
	writeJSON(w, http.StatusOK, payload)
}
