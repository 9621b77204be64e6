package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/vitabuddy/vitabuddy/internal/common"
	"github.com/vitabuddy/vitabuddy/internal/server/chat"
	"github.com/vitabuddy/vitabuddy/internal/server/users"
)

// Handler builds the API route table. Everything under /api except the auth
// endpoints and the health probe requires a Bearer access token.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", s.handleHealth)

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/auth/refresh", s.handleRefresh)
	mux.HandleFunc("POST /api/auth/logout", s.handleLogout)

	mux.HandleFunc("GET /api/profile", s.requireAuth(s.handleProfile))
	mux.HandleFunc("POST /api/profile/welcome-seen", s.requireAuth(s.handleWelcomeSeen))

	mux.HandleFunc("GET /api/activities", s.requireAuth(s.handleListActivities))
	mux.HandleFunc("POST /api/activities", s.requireAuth(s.handleCreateActivity))
	mux.HandleFunc("GET /api/activities/stats", s.requireAuth(s.handleActivityStats))
	mux.HandleFunc("PUT /api/activities/{id}", s.requireAuth(s.handleUpdateActivity))
	mux.HandleFunc("DELETE /api/activities/{id}", s.requireAuth(s.handleDeleteActivity))

	mux.HandleFunc("GET /api/goals", s.requireAuth(s.handleListGoals))
	mux.HandleFunc("POST /api/goals", s.requireAuth(s.handleCreateGoal))
	mux.HandleFunc("PUT /api/goals/{id}", s.requireAuth(s.handleUpdateGoal))
	mux.HandleFunc("DELETE /api/goals/{id}", s.requireAuth(s.handleDeleteGoal))

	mux.HandleFunc("GET /api/reminders", s.requireAuth(s.handleGetReminders))
	mux.HandleFunc("POST /api/reminders", s.requireAuth(s.handleSaveReminders))

	mux.HandleFunc("POST /api/chat", s.requireAuth(s.handleChat))
	mux.HandleFunc("GET /api/chat/history", s.requireAuth(s.handleChatHistory))

	return chainMiddlewares(mux, s.withCORS, s.withLogging)
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type profileResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	HasSeenWelcome bool   `json:"has_seen_welcome"`
}

type loginResponse struct {
	AccessToken  string           `json:"access_token"`
	RefreshToken string           `json:"refresh_token"`
	UserID       string           `json:"user_id"`
	Profile      *profileResponse `json:"profile,omitempty"`
}

type activityRequest struct {
	Description string    `json:"description"`
	Date        time.Time `json:"date,omitempty"`
}

type activityResponse struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"created_at"`
}

type statsResponse struct {
	Week  int `json:"week"`
	Month int `json:"month"`
	Year  int `json:"year"`
}

type goalRequest struct {
	GoalText string `json:"goal_text"`
}

type goalResponse struct {
	ID        string    `json:"id"`
	GoalText  string    `json:"goal_text"`
	CreatedAt time.Time `json:"created_at"`
}

type remindersRequest struct {
	Reminders string `json:"reminders"`
}

type remindersResponse struct {
	Reminders string `json:"reminders"`
}

type chatRequest struct {
	Message      string        `json:"message"`
	Context      *chat.Context `json:"context,omitempty"`
	SystemPrompt string        `json:"system_prompt,omitempty"`

	// Ephemeral marks synthetic prompts (the sign-in welcome) that must not
	// be stored as chat history.
	Ephemeral bool `json:"ephemeral,omitempty"`
}

type chatResponse struct {
	Message string `json:"message"`
}

type chatHistoryItem struct {
	ID          string    `json:"id"`
	UserMessage string    `json:"user_message"`
	BotResponse string    `json:"bot_response"`
	Timestamp   time.Time `json:"timestamp"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := s.users.Register(r.Context(), req.Email, []byte(req.Password), req.Name)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.users.Login(r.Context(), user.Email, []byte(req.Password))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, loginResponseFrom(result))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.users.Login(r.Context(), req.Email, []byte(req.Password))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponseFrom(result))
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decodeBody(w, r, &req) {
		return
	}

	tokens, err := s.users.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := s.users.Logout(r.Context(), req.RefreshToken); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	profile, err := s.users.Profile(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{
		ID:             profile.ID,
		Name:           profile.Name,
		Email:          profile.Email,
		HasSeenWelcome: profile.HasSeenWelcome,
	})
}

func (s *Server) handleWelcomeSeen(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	if err := s.users.MarkWelcomeSeen(r.Context(), userID); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListActivities(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	list, err := s.activities.List(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]activityResponse, 0, len(list))
	for _, a := range list {
		out = append(out, activityResponse{
			ID:          a.ID,
			Description: a.Description,
			Date:        a.Date,
			CreatedAt:   a.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateActivity(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var req activityRequest
	if !decodeBody(w, r, &req) {
		return
	}

	activity, err := s.activities.Create(r.Context(), userID, req.Description, req.Date)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, activityResponse{
		ID:          activity.ID,
		Description: activity.Description,
		Date:        activity.Date,
		CreatedAt:   activity.CreatedAt,
	})
}

func (s *Server) handleUpdateActivity(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var req activityRequest
	if !decodeBody(w, r, &req) {
		return
	}

	activity, err := s.activities.Update(r.Context(), userID, r.PathValue("id"), req.Description, req.Date)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, activityResponse{
		ID:          activity.ID,
		Description: activity.Description,
		Date:        activity.Date,
		CreatedAt:   activity.CreatedAt,
	})
}

func (s *Server) handleDeleteActivity(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	if err := s.activities.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleActivityStats(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	stats, err := s.activities.Stats(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, statsResponse{
		Week:  stats.Week,
		Month: stats.Month,
		Year:  stats.Year,
	})
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	list, err := s.goals.List(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]goalResponse, 0, len(list))
	for _, g := range list {
		out = append(out, goalResponse{ID: g.ID, GoalText: g.GoalText, CreatedAt: g.CreatedAt})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var req goalRequest
	if !decodeBody(w, r, &req) {
		return
	}

	goal, err := s.goals.Create(r.Context(), userID, req.GoalText)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, goalResponse{ID: goal.ID, GoalText: goal.GoalText, CreatedAt: goal.CreatedAt})
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var req goalRequest
	if !decodeBody(w, r, &req) {
		return
	}

	goal, err := s.goals.Update(r.Context(), userID, r.PathValue("id"), req.GoalText)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, goalResponse{ID: goal.ID, GoalText: goal.GoalText, CreatedAt: goal.CreatedAt})
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	if err := s.goals.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetReminders(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	reminder, err := s.reminders.Get(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, remindersResponse{Reminders: reminder.Reminders})
}

func (s *Server) handleSaveReminders(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var req remindersRequest
	if !decodeBody(w, r, &req) {
		return
	}

	reminder, err := s.reminders.Save(r.Context(), userID, req.Reminders)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, remindersResponse{Reminders: reminder.Reminders})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	var req chatRequest
	if !decodeBody(w, r, &req) {
		return
	}

	response, err := s.chat.Respond(r.Context(), userID, req.Message, req.Context, req.SystemPrompt, !req.Ephemeral)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Message: response})
}

func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			badRequest(w, "limit must be a positive integer")
			return
		}
		limit = n
	}

	history, err := s.chat.History(r.Context(), userID, limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]chatHistoryItem, 0, len(history))
	for _, m := range history {
		out = append(out, chatHistoryItem{
			ID:          m.ID,
			UserMessage: m.UserMessage,
			BotResponse: m.BotResponse,
			Timestamp:   m.Timestamp,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func loginResponseFrom(result *users.AuthResult) loginResponse {
	resp := loginResponse{
		AccessToken:  result.Tokens.AccessToken,
		RefreshToken: result.Tokens.RefreshToken,
		UserID:       result.UserID,
	}
	if result.Profile != nil {
		resp.Profile = &profileResponse{
			ID:             result.Profile.ID,
			Name:           result.Profile.Name,
			Email:          result.Profile.Email,
			HasSeenWelcome: result.Profile.HasSeenWelcome,
		}
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		badRequest(w, "invalid request body")
		return false
	}
	return true
}

func badRequest(w http.ResponseWriter, details string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad request", Details: details})
}

func unauthorized(w http.ResponseWriter, details string) {
	writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized", Details: details})
}

// writeError maps domain errors to HTTP status codes. Ownership failures
// arrive as not-found and stay that way on the wire.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Details: err.Error()})
	case errors.Is(err, common.ErrorNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrRefreshTokenExpired):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
	case errors.Is(err, common.ErrorAlreadyExists):
		writeJSON(w, http.StatusConflict, errorResponse{Error: "already exists"})
	default:
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error", Details: "Failed to get response from assistant"})
	}
}
