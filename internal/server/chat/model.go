package chat

import "time"

// ChatMessage is one persisted exchange: the user's message and the
// assistant's response. Rows are append-only.
type ChatMessage struct {
	ID          string
	UserID      string
	UserMessage string
	BotResponse string
	Timestamp   time.Time
}

// ActivityContext is a recent activity as it appears in the prompt context.
type ActivityContext struct {
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
}

// GoalContext is a goal as it appears in the prompt context.
type GoalContext struct {
	Description string `json:"description"`
}

// Context is the free-form situational block the proxy flattens into the
// prompt. Clients may supply it; when absent the server assembles it from
// the store.
type Context struct {
	RecentActivities   []ActivityContext `json:"recent_activities"`
	ThingsToKeepInMind string            `json:"things_to_keep_in_mind"`
	Goals              []GoalContext     `json:"goals"`
}
