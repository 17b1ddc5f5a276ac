package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/apponta/apponta-server/internal/common"
	"github.com/apponta/apponta-server/internal/server/models"
	"github.com/go-chi/chi/v5"
)

func idParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s", common.ErrorValidation, name)
	}
	return id, nil
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body", common.ErrorValidation)
	}
	return nil
}

// --- users ---

type registerRequest struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	Password      string `json:"password"`
	TermsAccepted bool   `json:"terms_accepted"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	req := &registerRequest{}
	if err := decode(r, req); err != nil {
		writeError(w, err)
		return
	}

	result, err := s.accounts.Register(r.Context(), req.Name, req.Email, req.Password, req.TermsAccepted)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"user_id":     result.UserID,
		"external_id": result.ExternalID,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	req := &loginRequest{}
	if err := decode(r, req); err != nil {
		writeError(w, err)
		return
	}

	result, err := s.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user_id":      result.UserID,
		"external_id":  result.ExternalID,
		"access_token": result.AccessToken,
	})
}

type userResponse struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	TermsAccepted bool      `json:"terms_accepted"`
	ExternalID    string    `json:"external_id"`
	CreatedAt     time.Time `json:"created_at"`
}

func toUserResponse(u *models.User) *userResponse {
	return &userResponse{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		TermsAccepted: u.TermsAccepted,
		ExternalID:    u.ExternalID,
		CreatedAt:     u.CreatedAt,
	}
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := s.accounts.GetUser(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *Server) handleUpdateUserName(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	req := &struct {
		Name string `json:"name"`
	}{}
	if err := decode(r, req); err != nil {
		writeError(w, err)
		return
	}

	if err := s.accounts.UpdateName(r.Context(), id, req.Name); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "name updated"})
}

func (s *Server) handleUpdateUserEmail(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	req := &struct {
		Email string `json:"email"`
	}{}
	if err := decode(r, req); err != nil {
		writeError(w, err)
		return
	}

	if err := s.accounts.UpdateEmail(r.Context(), id, req.Email); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "email updated"})
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	req := &struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}{}
	if err := decode(r, req); err != nil {
		writeError(w, err)
		return
	}

	if err := s.accounts.ChangePassword(r.Context(), id, req.CurrentPassword, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.accounts.DeleteUser(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
}

// --- categories ---

type categoryResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Icon         string `json:"icon"`
	Color        string `json:"color"`
	UserID       int64  `json:"user_id"`
	ArticleCount int64  `json:"article_count,omitempty"`
}

func toCategoryResponse(c *models.Category) *categoryResponse {
	return &categoryResponse{
		ID:           c.ID,
		Name:         c.Name,
		Icon:         c.Icon,
		Color:        c.Color,
		UserID:       c.UserID,
		ArticleCount: c.ArticleCount,
	}
}

type categoryRequest struct {
	Name   string `json:"name"`
	Icon   string `json:"icon"`
	Color  string `json:"color"`
	UserID int64  `json:"user_id"`
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	req := &categoryRequest{}
	if err := decode(r, req); err != nil {
		writeError(w, err)
		return
	}

	category, err := s.categories.Create(r.Context(), req.Name, req.Icon, req.Color, req.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCategoryResponse(category))
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	req := &categoryRequest{}
	if err := decode(r, req); err != nil {
		writeError(w, err)
		return
	}

	if err := s.categories.Update(r.Context(), id, req.Name, req.Icon, req.Color); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "category updated"})
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.categories.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "category deleted"})
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	userID, err := idParam(r, "userID")
	if err != nil {
		writeError(w, err)
		return
	}

	list, err := s.categories.ListByUser(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]*categoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCategoryResponse(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	userID, err := idParam(r, "userID")
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := s.categories.Search(r.Context(), userID, r.URL.Query().Get("query"))
	if err != nil {
		writeError(w, err)
		return
	}

	cats := make([]*categoryResponse, 0, len(result.Categories))
	for _, c := range result.Categories {
		cats = append(cats, toCategoryResponse(c))
	}
	arts := make([]*articleResponse, 0, len(result.Articles))
	for _, a := range result.Articles {
		arts = append(arts, toArticleResponse(a))
	}

	writeJSON(w, http.StatusOK, map[string]any{"categories": cats, "articles": arts})
}

// --- articles ---

type articleResponse struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	Priority   bool      `json:"priority"`
	CategoryID int64     `json:"category_id"`
	UserID     int64     `json:"user_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toArticleResponse(a *models.Article) *articleResponse {
	return &articleResponse{
		ID:         a.ID,
		Title:      a.Title,
		Body:       a.Body,
		Priority:   a.Priority,
		CategoryID: a.CategoryID,
		UserID:     a.UserID,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

type articleRequest struct {
	Title      string `json:"title"`
	Body       string `json:"body"`
	Priority   bool   `json:"priority"`
	CategoryID int64  `json:"category_id"`
}

func (s *Server) handleCreateArticle(w http.ResponseWriter, r *http.Request) {
	req := &articleRequest{}
	if err := decode(r, req); err != nil {
		writeError(w, err)
		return
	}

	article, err := s.articles.Create(r.Context(), req.Title, req.Body, req.Priority, req.CategoryID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toArticleResponse(article))
}

func (s *Server) handleUpdateArticle(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	req := &articleRequest{}
	if err := decode(r, req); err != nil {
		writeError(w, err)
		return
	}

	if err := s.articles.Update(r.Context(), id, req.Title, req.Body, req.Priority, req.CategoryID); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "article updated"})
}

func (s *Server) handleDeleteArticle(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	if err := s.articles.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "article deleted"})
}

func (s *Server) handleArticlesByCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := idParam(r, "categoryID")
	if err != nil {
		writeError(w, err)
		return
	}

	list, err := s.articles.ListByCategory(r.Context(), categoryID)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]*articleResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toArticleResponse(a))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleArticlesByPriority(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(r.URL.Query().Get("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		writeError(w, fmt.Errorf("%w: user_id is required", common.ErrorValidation))
		return
	}

	list, err := s.articles.ListByPriority(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]*articleResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toArticleResponse(a))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleSetArticlePriority(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	req := &struct {
		Priority *bool `json:"priority"`
	}{}
	if err := decode(r, req); err != nil {
		writeError(w, err)
		return
	}
	if req.Priority == nil {
		writeError(w, fmt.Errorf("%w: priority must be true or false", common.ErrorValidation))
		return
	}

	if err := s.articles.SetPriority(r.Context(), id, *req.Priority); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "priority updated"})
}

func (s *Server) handleArticlesByDate(w http.ResponseWriter, r *http.Request) {
	userID, err := idParam(r, "userID")
	if err != nil {
		writeError(w, err)
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		writeError(w, fmt.Errorf("%w: date is required", common.ErrorValidation))
		return
	}

	list, err := s.articles.ListByDate(r.Context(), userID, date)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]*articleResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toArticleResponse(a))
	}
	writeJSON(w, http.StatusOK, out)
}
