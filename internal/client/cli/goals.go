package cli

import (
	"context"
	"fmt"
	"os"
)

func (a *App) listGoals(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	goals, err := a.api.ListGoals(ctx)
	if err != nil {
		return err
	}

	if len(goals) == 0 {
		fmt.Println("No goals yet. Use 'addgoal' to add one.")
		return nil
	}

	for _, goal := range goals {
		fmt.Printf("%s  %s\n", goal.ID, goal.GoalText)
	}
	return nil
}

func (a *App) addGoal(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	text, err := getSimpleText(a.reader, "Enter your goal", os.Stdout)
	if err != nil {
		return err
	}

	created, err := a.api.CreateGoal(ctx, text)
	if err != nil {
		return err
	}

	fmt.Printf("Added goal: %s\n", created.GoalText)
	return nil
}

func (a *App) editGoal(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	id, err := getSimpleText(a.reader, "Goal id", os.Stdout)
	if err != nil {
		return err
	}

	text, err := getSimpleText(a.reader, "New goal text", os.Stdout)
	if err != nil {
		return err
	}

	updated, err := a.api.UpdateGoal(ctx, id, text)
	if err != nil {
		return err
	}

	fmt.Printf("Updated goal: %s\n", updated.GoalText)
	return nil
}

func (a *App) deleteGoal(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	id, err := getSimpleText(a.reader, "Goal id", os.Stdout)
	if err != nil {
		return err
	}

	ok, err := Confirm(a.reader, "Delete this goal?", os.Stdout)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("Cancelled.")
		return nil
	}

	if err := a.api.DeleteGoal(ctx, id); err != nil {
		return err
	}

	fmt.Println("Deleted.")
	return nil
}
