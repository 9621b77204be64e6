package reminders

// Reminder is a one-per-user free-text blob of things the assistant should
// keep in mind.
type Reminder struct {
	UserID    string
	Reminders string
}
