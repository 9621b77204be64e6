package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"
)

var errNotLoggedIn = errors.New("sign in first (login or register)")

const dateLayout = "2006-01-02"

func (a *App) requireLogin() error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	return nil
}

// promptDate reads an optional YYYY-MM-DD date. An empty answer returns nil;
// emptyHint tells the user what an empty answer means in this flow.
func (a *App) promptDate(prompt string, emptyHint string) (*time.Time, error) {
	answer, err := getSimpleText(a.reader, fmt.Sprintf("%s (YYYY-MM-DD, %s)", prompt, emptyHint), os.Stdout)
	if err != nil {
		return nil, err
	}
	if answer == "" {
		return nil, nil
	}
	date, err := time.Parse(dateLayout, answer)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", answer, err)
	}
	return &date, nil
}

func (a *App) logActivity(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	description, err := getSimpleText(a.reader, "What did you do?", os.Stdout)
	if err != nil {
		return err
	}

	date, err := a.promptDate("When", "empty for today")
	if err != nil {
		return err
	}

	created, err := a.activityService.Log(ctx, description, date)
	if err != nil {
		return err
	}

	fmt.Printf("Logged: %s (%s)\n", created.Description, created.Date.Format(dateLayout))
	return nil
}

func (a *App) listActivities(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	list, err := a.activityService.List(ctx)
	if err != nil {
		return err
	}

	if len(list) == 0 {
		fmt.Println("No activities yet. Use 'log' to add one.")
		return nil
	}

	for _, activity := range list {
		fmt.Printf("%s  %s  %s\n", activity.ID, activity.Date.Format(dateLayout), activity.Description)
	}
	return nil
}

func (a *App) refreshActivities(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	list, err := a.activityService.Refresh(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Refreshed, %d activities.\n", len(list))
	return nil
}

func (a *App) editActivity(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	id, err := getSimpleText(a.reader, "Activity id", os.Stdout)
	if err != nil {
		return err
	}

	description, err := getSimpleText(a.reader, "New description", os.Stdout)
	if err != nil {
		return err
	}

	date, err := a.promptDate("New date", "empty keeps current")
	if err != nil {
		return err
	}

	updated, err := a.activityService.Edit(ctx, id, description, date)
	if err != nil {
		return err
	}

	fmt.Printf("Updated: %s (%s)\n", updated.Description, updated.Date.Format(dateLayout))
	return nil
}

func (a *App) deleteActivity(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	id, err := getSimpleText(a.reader, "Activity id", os.Stdout)
	if err != nil {
		return err
	}

	ok, err := Confirm(a.reader, "Delete this activity?", os.Stdout)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Cancelled.")
		return nil
	}

	if err := a.activityService.Delete(ctx, id); err != nil {
		return err
	}

	fmt.Println("Deleted.")
	return nil
}

func (a *App) showStats(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	stats, err := a.activityService.Stats(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Activities: %d this week, %d this month, %d this year\n",
		stats.Week, stats.Month, stats.Year)
	return nil
}
