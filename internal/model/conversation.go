package model

import "time"

// Turn is one question/answer exchange with the LLM. Only answered turns are
// replayed into later prompts.
type Turn struct {
	ID             string
	OwnerID        int64
	Question       string
	QuestionTokens int
	Answer         *string
	AnswerTokens   int
	CreatedAt      time.Time
}

// Answered reports whether the turn carries an answer.
func (t Turn) Answered() bool {
	return t.Answer != nil
}

// ModelSelection is an owner's active model and conversation session.
type ModelSelection struct {
	OwnerID           int64
	Model             string
	AllowedModels     []string
	PromptTemplate    string
	TimeWindowMinutes int
	// SessionStart is the lower bound of the history window. It never moves
	// backward; nil until the owner's first tracked turn.
	SessionStart *time.Time
}

// Allows reports whether model is in the allowed set. An empty set allows all.
func (s ModelSelection) Allows(model string) bool {
	if len(s.AllowedModels) == 0 {
		return true
	}
	for _, m := range s.AllowedModels {
		if m == model {
			return true
		}
	}
	return false
}
