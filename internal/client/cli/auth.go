package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/vitabuddy/vitabuddy/internal/client/services"
	"github.com/vitabuddy/vitabuddy/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

const welcomeNotice = `Welcome to VitaBuddy! 🎉
I'm your AI health coach, and I'm here to help you achieve your health and fitness goals.

Here's what you can do to get started:
  * Set Your Health Goals — add them with 'addgoal'. This helps me provide personalized advice.
  * Add Important Health Notes — share conditions, allergies, or preferences with 'setreminders'.
  * Track Your Activities — log workouts, meals, and other healthy activities with 'log'.
    The more you track, the better I can help!

Remember: Small, consistent changes lead to big results! 🌱`

// Register prompts for name, email, and password, creates the account, and
// starts the session.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter your name", os.Stdout)
	if err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	session, err := a.authService.Register(ctx, email, password, name)
	if err != nil {
		return err
	}

	fmt.Println("Account created!")
	return a.startSession(ctx, session)
}

// Login prompts for credentials and starts the session.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	session, err := a.authService.Login(ctx, email, password)
	if err != nil {
		return err
	}

	return a.startSession(ctx, session)
}

// startSession notifies the conversation controller (which fires the single
// welcome call) and shows the one-time welcome notice to first-time users.
func (a *App) startSession(ctx context.Context, session *services.Session) error {
	a.session = session

	isNewUser, err := a.conversation.OnSignIn(ctx)
	if err != nil {
		return err
	}

	a.printTranscript()

	if isNewUser {
		fmt.Println()
		fmt.Println(welcomeNotice)
		fmt.Println()
		if _, err := getSimpleText(a.reader, "Press Enter to continue", os.Stdout); err != nil {
			return err
		}
		if err := a.authService.MarkWelcomeSeen(ctx); err != nil {
			return fmt.Errorf("error saving welcome state: %w", err)
		}
	}

	return nil
}

// Logout ends the session server-side, wipes local caches, and reseeds the
// signed-out greeting.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Println("Not signed in.")
		return nil
	}

	if err := a.authService.Logout(ctx); err != nil {
		return err
	}

	a.session = nil
	a.conversation.OnSignOut(ctx)
	a.printTranscript()
	return nil
}
