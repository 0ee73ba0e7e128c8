package router

// Log prefixes
const (
	LogPrefixClassify = "internal.router.Classify"
)

// Router configuration
const (
	RouterFallbackIntent = IntentChat
)

// Fallback reasons
const (
	ReasonClassifier       = "classifier verdict"
	ReasonNoClassifier     = "no classifier configured - route to chat"
	ReasonClassifierFailed = "classifier failed - route to chat"
)
