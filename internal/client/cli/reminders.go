package cli

import (
	"context"
	"fmt"
	"os"
)

func (a *App) showReminders(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	reminders, err := a.api.GetReminders(ctx)
	if err != nil {
		return err
	}

	if reminders == "" {
		fmt.Println("No reminders set. Use 'setreminders' to add things I should keep in mind.")
		return nil
	}

	fmt.Println("Things I keep in mind about you:")
	fmt.Println(reminders)
	return nil
}

func (a *App) editReminders(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	text, err := GetMultiline(a.reader,
		"Enter health notes, conditions, allergies, or preferences", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.api.SaveReminders(ctx, text); err != nil {
		return err
	}

	fmt.Println("Saved.")
	return nil
}
