package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn and printfFn are test seams for REPL output.
var (
	printlnFn = fmt.Println
	printfFn  = fmt.Printf
)

func (a *App) getStatus() string {
	if a.session == nil {
		return "(signed out)"
	}
	name := a.session.Name
	if name == "" {
		name = a.session.Email
	}
	return fmt.Sprintf("(%s)", name)
}

// execIface is the command surface the REPL dispatches to. App satisfies it;
// tests can provide a stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	logActivity(ctx context.Context) error
	listActivities(ctx context.Context) error
	editActivity(ctx context.Context) error
	deleteActivity(ctx context.Context) error
	refreshActivities(ctx context.Context) error
	showStats(ctx context.Context) error
	listGoals(ctx context.Context) error
	addGoal(ctx context.Context) error
	editGoal(ctx context.Context) error
	deleteGoal(ctx context.Context) error
	showReminders(ctx context.Context) error
	editReminders(ctx context.Context) error
	showHistory(ctx context.Context) error
	sendChat(ctx context.Context, text string)
}

// Root runs the REPL. Plain lines go to the assistant; everything else is a
// command.
func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to VitaBuddy CLI (type 'help' for commands)")
	a.printTranscript()
	runREPL(ctx, a, a.getStatus, a.reader)
}

// runREPL reads one line per iteration from reader and dispatches it.
// Command handlers prompt through the SAME reader, so the loop must never
// read ahead of them.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	run := func(fn func(ctx context.Context) error) {
		if err := fn(ctx); err != nil {
			printlnFn("Error:", err)
		}
	}

	for {
		printfFn("vb %s> ", statusFn())
		raw, err := reader.ReadString('\n')
		line := strings.TrimSpace(raw)
		if line == "" {
			if err != nil {
				return
			}
			continue
		}

		parts := strings.Fields(line)
		cmd := parts[0]

		switch cmd {
		case "help":
			printHelp(a.isLoggedIn())

		case "register":
			run(a.Register)
		case "login":
			run(a.Login)
		case "logout":
			run(a.Logout)

		case "log":
			run(a.logActivity)
		case "activities":
			run(a.listActivities)
		case "edit":
			run(a.editActivity)
		case "delete":
			run(a.deleteActivity)
		case "refresh":
			run(a.refreshActivities)
		case "stats":
			run(a.showStats)

		case "goals":
			run(a.listGoals)
		case "addgoal":
			run(a.addGoal)
		case "editgoal":
			run(a.editGoal)
		case "delgoal":
			run(a.deleteGoal)

		case "reminders":
			run(a.showReminders)
		case "setreminders":
			run(a.editReminders)

		case "history":
			run(a.showHistory)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			// anything that is not a command is a chat message
			a.sendChat(ctx, line)
		}

		if err != nil {
			return
		}
	}
}

func printHelp(loggedIn bool) {
	if loggedIn {
		printlnFn("Type a message to chat with your health buddy, or use a command:")
		printlnFn("  activities, log, edit, delete, refresh, stats")
		printlnFn("  goals, addgoal, editgoal, delgoal")
		printlnFn("  reminders, setreminders")
		printlnFn("  history, logout, exit")
	} else {
		printlnFn("Available commands: register, login, exit")
	}
}

func (a *App) printTranscript() {
	for _, msg := range a.conversation.Transcript() {
		printfFn("%s: %s\n", msg.Sender, msg.Content)
	}
}
