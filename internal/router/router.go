package router

import (
	"context"

	"reminder-assistant/pkg/intent"
)

// Classify decides between reminder creation and chat. It never fails: any
// classifier problem routes the message to chat.
func (r *IntentRouter) Classify(ctx context.Context, message string) RouterOutput {
	if r.classifier == nil {
		return RouterOutput{Intent: RouterFallbackIntent, Reasoning: ReasonNoClassifier, Fallback: true}
	}

	class, err := r.classifier.Classify(ctx, message)
	if err != nil {
		r.l.Warnf(ctx, "%s: %s: %v", LogPrefixClassify, ReasonClassifierFailed, err)
		return RouterOutput{Intent: RouterFallbackIntent, Reasoning: ReasonClassifierFailed, Fallback: true}
	}

	out := RouterOutput{Intent: IntentChat, Reasoning: ReasonClassifier}
	if class == intent.ClassTask {
		out.Intent = IntentTask
	}
	r.l.Debugf(ctx, "%s: classified as %s", LogPrefixClassify, out.Intent)
	return out
}
