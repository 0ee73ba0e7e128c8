package router

// Intent represents the user's intention.
type Intent string

const (
	IntentTask Intent = "task"
	IntentChat Intent = "chat"
)

// RouterOutput is the routing decision for one message.
type RouterOutput struct {
	Intent    Intent
	Reasoning string
	Fallback  bool
}
