package chat

import (
	"sort"
	"strings"

	"github.com/vitabuddy/vitabuddy/internal/server/llm"
)

// maxContextActivities caps how many recent activities make it into the
// flattened context block, regardless of how many the caller supplies.
const maxContextActivities = 5

// historyLimit bounds how many persisted exchanges are replayed into the
// prompt for conversational memory.
const historyLimit = 20

// FormatContext flattens the situational context into the text block that is
// sent as a second system message. Activities are ordered newest first and
// capped at maxContextActivities. An entirely empty context yields "".
func FormatContext(c Context) string {
	var b strings.Builder

	if len(c.RecentActivities) > 0 {
		recent := make([]ActivityContext, len(c.RecentActivities))
		copy(recent, c.RecentActivities)
		sort.SliceStable(recent, func(i, j int) bool {
			return recent[i].Date.After(recent[j].Date)
		})
		if len(recent) > maxContextActivities {
			recent = recent[:maxContextActivities]
		}

		b.WriteString("Recent activities:\n")
		for _, a := range recent {
			b.WriteString("• " + a.Description + " (" + a.Date.Format("1/2/2006") + ")\n")
		}
		b.WriteString("\n")
	}

	if c.ThingsToKeepInMind != "" {
		b.WriteString("Things to keep in mind:\n")
		b.WriteString(c.ThingsToKeepInMind + "\n\n")
	}

	if len(c.Goals) > 0 {
		b.WriteString("Current goals:\n")
		for _, g := range c.Goals {
			b.WriteString("• " + g.Description + "\n")
		}
		b.WriteString("\n")
	}

	return b.String()
}

// BuildMessages assembles the prompt: system prompt, formatted context as a
// second system message, replayed history oldest first, then the user's
// message. Empty context and history blocks are skipped.
func BuildMessages(systemPrompt string, formattedContext string, history []ChatMessage, userMessage string) []llm.Message {
	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: systemPrompt},
	}

	if formattedContext != "" {
		messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: formattedContext})
	}

	// history arrives newest first; replay it chronologically
	for i := len(history) - 1; i >= 0; i-- {
		m := history[i]
		if m.UserMessage != "" {
			messages = append(messages, llm.Message{Role: llm.RoleUser, Content: m.UserMessage})
		}
		if m.BotResponse != "" {
			messages = append(messages, llm.Message{Role: llm.RoleAssistant, Content: m.BotResponse})
		}
	}

	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: userMessage})

	return messages
}
