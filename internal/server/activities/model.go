package activities

import "time"

// Activity is a user-owned free-text log entry with the date it happened.
type Activity struct {
	ID          string
	UserID      string
	Description string
	Date        time.Time
	CreatedAt   time.Time
}

// Stats holds rolling-window activity counts.
type Stats struct {
	Week  int
	Month int
	Year  int
}
