package conversation

import "errors"

var (
	ErrEmptyQuestion   = errors.New("empty question")
	ErrLongQuery       = errors.New("query exceeds the model's request budget")
	ErrInWork          = errors.New("a previous request is still in progress")
	ErrModelNotAllowed = errors.New("model is not allowed for this owner")
	ErrEmptyAnswer     = errors.New("llm returned an empty answer")
)

// Error codes carried by classified errors.
const (
	CodeEmptyQuestion   = "empty_question"
	CodeLongQuery       = "long_query"
	CodeInWork          = "in_work"
	CodeModelNotAllowed = "model_not_allowed"
	CodeEmptyAnswer     = "llm_empty_answer"
)
