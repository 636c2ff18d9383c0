package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avolkova/glucolog/internal/api"
	"github.com/avolkova/glucolog/internal/common"
	"github.com/avolkova/glucolog/internal/server/models"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, api.ErrorResponse{Error: msg})
}

// writeServiceError maps the shared error sentinels to HTTP statuses.
func (s *HTTPServer) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, common.ErrorAlreadyExists):
		writeError(w, http.StatusConflict, "already exists")
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrRefreshTokenExpired),
		errors.Is(err, common.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, common.ErrorValidation):
		writeError(w, http.StatusBadRequest, "validation error")
	default:
		s.logger.Error(r.Context(), err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func (s *HTTPServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password required")
		return
	}

	if _, err := s.users.Register(r.Context(), req.Email, []byte(req.Password)); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}

	user, tokens, err := s.users.Login(r.Context(), req.Email, []byte(req.Password))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, api.LoginResponse{
		UserID:       user.ID,
		Email:        user.Email,
		Name:         user.Name,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

func (s *HTTPServer) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req api.RefreshRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}

	tokens, err := s.users.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, api.RefreshResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

func (s *HTTPServer) handlePing(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (s *HTTPServer) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.users.Logout(r.Context(), userIDFromContext(r.Context())); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func entryToWire(e *models.Entry) api.Entry {
	return api.Entry{
		ID:      e.ID,
		Date:    e.Date,
		Time:    e.Time,
		Sugar:   e.Sugar,
		Insulin: e.Insulin,
		Type:    e.Type,
		Food:    e.Food,
	}
}

func (s *HTTPServer) handleListEntries(w http.ResponseWriter, r *http.Request) {
	entries, err := s.diary.ListEntries(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	result := make([]api.Entry, 0, len(entries))
	for _, e := range entries {
		result = append(result, entryToWire(e))
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *HTTPServer) handleInsertEntry(w http.ResponseWriter, r *http.Request) {
	var req api.Entry
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}
	if req.Date == "" || req.Time == "" {
		writeError(w, http.StatusBadRequest, "date and time required")
		return
	}

	entry := &models.Entry{
		Date:    req.Date,
		Time:    req.Time,
		Sugar:   req.Sugar,
		Insulin: req.Insulin,
		Type:    req.Type,
		Food:    req.Food,
	}

	saved, err := s.diary.InsertEntry(r.Context(), userIDFromContext(r.Context()), entry)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, entryToWire(saved))
}

func (s *HTTPServer) handleUpdateEntry(w http.ResponseWriter, r *http.Request) {
	var req api.EntryPatch
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}

	patch := models.EntryPatch{
		Time:    req.Time,
		Sugar:   req.Sugar,
		Insulin: req.Insulin,
		Type:    req.Type,
		Food:    req.Food,
	}

	err := s.diary.UpdateEntry(r.Context(), userIDFromContext(r.Context()), r.PathValue("id"), patch)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (s *HTTPServer) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	err := s.diary.DeleteEntry(r.Context(), userIDFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func favoriteToWire(f *models.Favorite) api.Favorite {
	return api.Favorite{
		ID:    f.ID,
		Code:  f.Code,
		Name:  f.Name,
		Image: f.Image,
		Carbs: f.Carbs,
		Info:  f.Info,
	}
}

func (s *HTTPServer) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	favorites, err := s.diary.ListFavorites(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	result := make([]api.Favorite, 0, len(favorites))
	for _, f := range favorites {
		result = append(result, favoriteToWire(f))
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *HTTPServer) handleInsertFavorite(w http.ResponseWriter, r *http.Request) {
	var req api.Favorite
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name required")
		return
	}

	favorite := &models.Favorite{
		Code:  req.Code,
		Name:  req.Name,
		Image: req.Image,
		Carbs: req.Carbs,
		Info:  req.Info,
	}

	saved, err := s.diary.InsertFavorite(r.Context(), userIDFromContext(r.Context()), favorite)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	// a duplicate of (code, info) comes back without an ID and is not
	// stored again
	if saved.ID == "" {
		writeJSON(w, http.StatusOK, favoriteToWire(saved))
		return
	}

	writeJSON(w, http.StatusCreated, favoriteToWire(saved))
}

func (s *HTTPServer) handleDeleteFavorite(w http.ResponseWriter, r *http.Request) {
	err := s.diary.DeleteFavorite(r.Context(), userIDFromContext(r.Context()), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *HTTPServer) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := s.users.GetProfile(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, api.ProfileResponse{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
	})
}

func (s *HTTPServer) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req api.ProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad request")
		return
	}

	err := s.users.UpdateName(r.Context(), userIDFromContext(r.Context()), req.Name)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (s *HTTPServer) handlePhotoUploadURL(w http.ResponseWriter, r *http.Request) {
	url, err := s.photos.GetUploadURL(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, api.PhotoURLResponse{URL: url})
}

func (s *HTTPServer) handlePhotoDownloadURL(w http.ResponseWriter, r *http.Request) {
	url, err := s.photos.GetDownloadURL(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, api.PhotoURLResponse{URL: url})
}
