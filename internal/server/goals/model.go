package goals

import "time"

// Goal is a user-owned free-text goal.
type Goal struct {
	ID        string
	UserID    string
	GoalText  string
	CreatedAt time.Time
}
