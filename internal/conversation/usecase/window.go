package usecase

import (
	"time"

	"reminder-assistant/internal/model"
	"reminder-assistant/pkg/llmprovider"
)

// sessionStart is the lower bound of the history window. The first tracked
// turn starts at now; later ones look back at most window but never before
// the previous start.
func sessionStart(now time.Time, window time.Duration, previous *time.Time) time.Time {
	if previous == nil {
		return now
	}
	start := now.Add(-window)
	if previous.After(start) {
		start = *previous
	}
	return start
}

// buildMessages assembles system prompt, history and question. Turns are
// taken oldest first and the scan stops at the first turn that would bring
// the running total to contextWindow. It returns the number of turns used.
func buildMessages(system, question string, seed, contextWindow int, turns []model.Turn) ([]llmprovider.Message, int) {
	msgs := []llmprovider.Message{{Role: llmprovider.RoleSystem, Content: system}}

	total, used := seed, 0
	for _, t := range turns {
		if !t.Answered() {
			continue
		}
		cost := t.QuestionTokens + t.AnswerTokens + turnOverhead
		if total+cost >= contextWindow {
			break
		}
		total += cost
		used++
		msgs = append(msgs,
			llmprovider.Message{Role: llmprovider.RoleUser, Content: t.Question},
			llmprovider.Message{Role: llmprovider.RoleAssistant, Content: *t.Answer},
		)
	}

	msgs = append(msgs, llmprovider.Message{Role: llmprovider.RoleUser, Content: question})
	return msgs, used
}
