package usecase

import (
	"context"
	"testing"
	"time"

	"reminder-assistant/internal/conversation"
	"reminder-assistant/pkg/claim"
	pkgErrors "reminder-assistant/pkg/errors"
)

func TestSelectModel(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	uc := newTestUseCase(repo, claim.NewMemoryStore(time.Hour), &mockLLM{}, fakeTokenizer{def: 1}, testNow)

	sel, err := uc.CurrentModel(ctx, ownerSc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sel.Model != "deepseek-chat" || len(sel.AllowedModels) != 2 {
		t.Errorf("unexpected default selection: %+v", sel)
	}

	if _, err := uc.SelectModel(ctx, ownerSc, "gpt-9"); pkgErrors.CodeOf(err) != conversation.CodeModelNotAllowed {
		t.Fatalf("expected model_not_allowed, got %v", err)
	}

	sel, err = uc.SelectModel(ctx, ownerSc, "qwen-plus")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sel.Model != "qwen-plus" || sel.TimeWindowMinutes != 30 {
		t.Errorf("unexpected selection: %+v", sel)
	}
	if repo.selections[42].Model != "qwen-plus" {
		t.Error("selection not saved")
	}

	// A narrowed allow-list is honored.
	stored := repo.selections[42]
	stored.AllowedModels = []string{"qwen-plus"}
	repo.selections[42] = stored
	if _, err := uc.SelectModel(ctx, ownerSc, "deepseek-chat"); pkgErrors.KindOf(err) != pkgErrors.KindValidation {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestResetSession(t *testing.T) {
	ctx := context.Background()
	repo := newMemRepo()
	uc := newTestUseCase(repo, claim.NewMemoryStore(time.Hour), &mockLLM{}, fakeTokenizer{def: 1}, testNow)

	if err := uc.ResetSession(ctx, ownerSc); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s := repo.selections[42].SessionStart; s == nil || !s.Equal(testNow) {
		t.Errorf("SessionStart = %v, want %v", s, testNow)
	}
}
