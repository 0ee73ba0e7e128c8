package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"reminder-assistant/internal/conversation"
	"reminder-assistant/internal/conversation/repository"
	"reminder-assistant/internal/model"
	pkgErrors "reminder-assistant/pkg/errors"
	"reminder-assistant/pkg/llmprovider"
)

const releaseTimeout = 5 * time.Second

// claimKey is per owner. Guests have no user ID and are keyed by chat.
func claimKey(sc model.Scope) string {
	if sc.Guest {
		return fmt.Sprintf("claim:conversation:guest:%d", sc.ChatID)
	}
	return fmt.Sprintf("claim:conversation:%d", sc.UserID)
}

func (uc *implUseCase) Ask(ctx context.Context, sc model.Scope, input conversation.AskInput, sink conversation.ReplySink) (out conversation.AskOutput, err error) {
	defer func() { uc.metrics.IncAsk(outcome(err)) }()

	question := strings.TrimSpace(input.Text)
	if question == "" {
		return out, pkgErrors.NewValidation(conversation.CodeEmptyQuestion, "", conversation.ErrEmptyQuestion)
	}

	sel, err := uc.loadSelection(ctx, sc)
	if err != nil {
		return out, err
	}
	spec := uc.cfg.Models[sel.Model]
	system := uc.assistPrompt(sel.PromptTemplate)

	// Token counting and the single-flight claim are independent.
	var (
		queryTokens, assistTokens int
		claimed                   bool
	)
	key := claimKey(sc)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		queryTokens = uc.tokenizer.Count(spec.Name, question)
		assistTokens = uc.tokenizer.Count(spec.Name, system)
		return nil
	})
	g.Go(func() error {
		ok, err := uc.claims.Claim(gctx, key, uc.cfg.Timeout+claimGrace)
		claimed = ok
		return err
	})
	if err := g.Wait(); err != nil {
		uc.l.Errorf(ctx, "conversation.usecase.Ask: claim owner=%d: %v", sc.UserID, err)
		return out, pkgErrors.NewTransport("claim_store", "claim store unavailable", err)
	}
	if claimed {
		defer uc.release(ctx, key)
	}

	if queryTokens > spec.MaxRequestTokens {
		return out, pkgErrors.NewValidation(conversation.CodeLongQuery,
			fmt.Sprintf("%d > %d", queryTokens, spec.MaxRequestTokens), conversation.ErrLongQuery)
	}
	if !claimed {
		return out, pkgErrors.NewConflict(conversation.CodeInWork, "", conversation.ErrInWork)
	}

	messages, used, err := uc.history(ctx, sc, &sel, spec, system, question, queryTokens+assistTokens)
	if err != nil {
		return out, err
	}

	resp, err := uc.call(ctx, sink, &llmprovider.Request{
		Model:            spec.Name,
		Messages:         messages,
		Temperature:      uc.cfg.Temperature,
		TopP:             uc.cfg.TopP,
		FrequencyPenalty: uc.cfg.FrequencyPenalty,
		PresencePenalty:  uc.cfg.PresencePenalty,
	})
	if err != nil {
		return out, err
	}

	out = conversation.AskOutput{
		Answer:       strings.TrimSpace(resp.Content),
		Model:        spec.Name,
		HistoryTurns: used,
	}
	if out.Answer == "" {
		return conversation.AskOutput{}, pkgErrors.NewResponse(conversation.CodeEmptyAnswer, "", conversation.ErrEmptyAnswer)
	}
	out.CompletionTokens = uc.tokenizer.Count(spec.Name, out.Answer)
	if resp.Usage != nil {
		out.PromptTokens = resp.Usage.PromptTokens
		if resp.Usage.CompletionTokens > 0 {
			out.CompletionTokens = resp.Usage.CompletionTokens
		}
	}

	if err := uc.settle(ctx, sc, sink, question, queryTokens, out); err != nil {
		return out, err
	}

	uc.l.Infof(ctx, "conversation.usecase.Ask: owner=%d model=%s history=%d prompt_tokens=%d completion_tokens=%d",
		sc.UserID, spec.Name, used, out.PromptTokens, out.CompletionTokens)
	return out, nil
}

// history resolves the session window, stores it back and builds the prompt.
func (uc *implUseCase) history(
	ctx context.Context,
	sc model.Scope,
	sel *model.ModelSelection,
	spec ModelSpec,
	system, question string,
	seed int,
) ([]llmprovider.Message, int, error) {
	if sc.Guest {
		msgs, used := buildMessages(system, question, seed, spec.ContextWindow, nil)
		return msgs, used, nil
	}

	now := uc.now().UTC()
	window := time.Duration(sel.TimeWindowMinutes) * time.Minute
	start := sessionStart(now, window, sel.SessionStart)
	sel.SessionStart = &start
	if err := uc.repo.SaveSelection(ctx, *sel); err != nil {
		return nil, 0, pkgErrors.NewUnhandled("selection_store", "failed to save session start", err)
	}

	turns, err := uc.repo.ListAnsweredTurns(ctx, repository.ListTurnsOptions{
		OwnerID: sc.UserID,
		From:    start,
		To:      now,
	})
	if err != nil {
		return nil, 0, pkgErrors.NewUnhandled("turn_store", "failed to load history", err)
	}

	msgs, used := buildMessages(system, question, seed, spec.ContextWindow, turns)
	return msgs, used, nil
}

// call runs the LLM request under the hard timeout with a typing heartbeat.
// The heartbeat is stopped and joined before call returns.
func (uc *implUseCase) call(ctx context.Context, sink conversation.ReplySink, req *llmprovider.Request) (*llmprovider.Response, error) {
	callCtx, cancel := context.WithTimeout(ctx, uc.cfg.Timeout)
	defer cancel()

	hbCtx, stopHeartbeat := context.WithCancel(callCtx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		uc.heartbeat(hbCtx, sink)
	}()

	started := time.Now()
	resp, err := uc.llm.Chat(callCtx, req)
	stopHeartbeat()
	wg.Wait()
	uc.metrics.ObserveLLMCall(req.Model, err == nil, time.Since(started))

	if err == nil {
		return resp, nil
	}

	uc.l.Warnf(ctx, "conversation.usecase.call: model=%s: %v", req.Model, err)
	switch {
	case errors.Is(callCtx.Err(), context.DeadlineExceeded) && pkgErrors.CodeOf(err) == "":
		return nil, pkgErrors.NewTransport("llm_timeout", "llm call timed out", err)
	case pkgErrors.CodeOf(err) == "" && pkgErrors.KindOf(err) == pkgErrors.KindUnhandled:
		return nil, pkgErrors.NewUnhandled("llm_call", "llm call failed", err)
	default:
		return nil, err
	}
}

func (uc *implUseCase) heartbeat(ctx context.Context, sink conversation.ReplySink) {
	if sink == nil {
		return
	}
	ticker := time.NewTicker(uc.cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		if err := sink.SendTyping(ctx); err != nil && ctx.Err() == nil {
			uc.l.Debugf(ctx, "conversation.usecase.heartbeat: %v", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// settle persists the turn and delivers the reply concurrently. Guests are
// never persisted. A persistence failure is logged; a delivery failure is returned.
func (uc *implUseCase) settle(ctx context.Context, sc model.Scope, sink conversation.ReplySink, question string, questionTokens int, out conversation.AskOutput) error {
	var g errgroup.Group

	if !sc.Guest {
		g.Go(func() error {
			answer := out.Answer
			_, err := uc.repo.CreateTurn(ctx, model.Turn{
				OwnerID:        sc.UserID,
				Question:       question,
				QuestionTokens: questionTokens,
				Answer:         &answer,
				AnswerTokens:   out.CompletionTokens,
				CreatedAt:      uc.now().UTC(),
			})
			if err != nil {
				uc.l.Errorf(ctx, "conversation.usecase.settle: persist owner=%d: %v", sc.UserID, err)
			}
			return nil
		})
	}

	if sink != nil {
		g.Go(func() error {
			if err := sink.SendReply(ctx, out.Answer); err != nil {
				return pkgErrors.NewTransport("reply_delivery", "failed to deliver reply", err)
			}
			return nil
		})
	}

	return g.Wait()
}

// release drops the claim on a context detached from the request so it still
// runs after cancellation.
func (uc *implUseCase) release(ctx context.Context, key string) {
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()
	if err := uc.claims.Release(rctx, key); err != nil {
		uc.l.Errorf(rctx, "conversation.usecase.release: %s: %v", key, err)
	}
}

func (uc *implUseCase) assistPrompt(template string) string {
	if p, ok := uc.cfg.Prompts[template]; ok && p != "" {
		return p
	}
	if p, ok := uc.cfg.Prompts[uc.cfg.DefaultPrompt]; ok && p != "" {
		return p
	}
	return defaultAssistPrompt
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if code := pkgErrors.CodeOf(err); code != "" {
		return code
	}
	return pkgErrors.KindOf(err).String()
}
