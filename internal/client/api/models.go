package api

import "time"

// Profile is the server-side user profile.
type Profile struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	HasSeenWelcome bool   `json:"has_seen_welcome"`
}

// AuthResult is returned by Login and Register.
type AuthResult struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	UserID       string   `json:"user_id"`
	Profile      *Profile `json:"profile,omitempty"`
}

// TokenPair is returned by Refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Activity is a logged activity as the server returns it.
type Activity struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"created_at"`
}

// Stats holds rolling-window activity counts.
type Stats struct {
	Week  int `json:"week"`
	Month int `json:"month"`
	Year  int `json:"year"`
}

// Goal is a user goal as the server returns it.
type Goal struct {
	ID        string    `json:"id"`
	GoalText  string    `json:"goal_text"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatExchange is one persisted user/assistant exchange.
type ChatExchange struct {
	ID          string    `json:"id"`
	UserMessage string    `json:"user_message"`
	BotResponse string    `json:"bot_response"`
	Timestamp   time.Time `json:"timestamp"`
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

type activityRequest struct {
	Description string     `json:"description"`
	Date        *time.Time `json:"date,omitempty"`
}

type goalRequest struct {
	GoalText string `json:"goal_text"`
}

type remindersPayload struct {
	Reminders string `json:"reminders"`
}

type chatRequest struct {
	Message      string `json:"message"`
	SystemPrompt string `json:"system_prompt,omitempty"`
	Ephemeral    bool   `json:"ephemeral,omitempty"`
}

type chatResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
