package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/vitabuddy/vitabuddy/internal/client/conversation"
)

// sendChat dispatches a plain REPL line to the assistant.
func (a *App) sendChat(ctx context.Context, text string) {
	if !a.isLoggedIn() {
		fmt.Println(conversation.CannedGreeting)
		return
	}

	fmt.Println("HealthBuddy is typing...")

	response, err := a.conversation.Send(ctx, text)
	if err != nil {
		if errors.Is(err, conversation.ErrBusy) {
			fmt.Println("Hold on, I'm still answering your last message.")
			return
		}
		fmt.Println("Error:", err)
		return
	}

	fmt.Printf("%s: %s\n", conversation.SenderAssistant, response)
}

// showHistory reprints the transcript owned by the conversation controller.
func (a *App) showHistory(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	a.printTranscript()
	return nil
}
