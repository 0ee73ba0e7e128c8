package conversation

type AskInput struct {
	Text string
}

type AskOutput struct {
	Answer           string
	Model            string
	PromptTokens     int
	CompletionTokens int
	// HistoryTurns is how many earlier turns went into the prompt.
	HistoryTurns int
}
