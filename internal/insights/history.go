package insights

import (
	"strings"
	"sync"

	"github.com/jonathan/market-copilot/internal/prompts"
	"github.com/jonathan/market-copilot/internal/types"
)

type promptSet struct {
	system         string
	task           string
	analysis       string
	question       string
	historyHeader  string
	userLabel      string
	assistantLabel string
	noData         string
}

var loadPrompts = sync.OnceValue(func() promptSet {
	get := func(key string) string { return prompts.MustGet(prompts.Insights, key) }
	return promptSet{
		system:         get("system-instructions"),
		task:           get("user-task"),
		analysis:       get("analysis-prompt"),
		question:       get("question-line"),
		historyHeader:  get("history-header"),
		userLabel:      get("history-user-label"),
		assistantLabel: get("history-assistant-label"),
		noData:         get("data-unavailable"),
	}
})

// BuildHistoryBlock renders the last window turns, oldest first, as labeled
// lines under a header. Turns with empty content are skipped after windowing.
// It returns "" when no turn in the window has content.
func BuildHistoryBlock(history types.History, window int) string {
	p := loadPrompts()

	var lines []string
	for _, turn := range history.Window(window) {
		if turn.Content == "" {
			continue
		}
		label := p.userLabel
		if turn.Role == types.RoleAssistant {
			label = p.assistantLabel
		}
		lines = append(lines, label+" "+turn.Content)
	}
	if len(lines) == 0 {
		return ""
	}
	return p.historyHeader + "\n" + strings.Join(lines, "\n") + "\n\n"
}
