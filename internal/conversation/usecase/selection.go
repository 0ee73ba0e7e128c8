package usecase

import (
	"context"
	"errors"
	"sort"

	"reminder-assistant/internal/conversation"
	"reminder-assistant/internal/conversation/repository"
	"reminder-assistant/internal/model"
	pkgErrors "reminder-assistant/pkg/errors"
)

// defaultSelection is what a new or guest owner gets.
func (uc *implUseCase) defaultSelection(ownerID int64) model.ModelSelection {
	allowed := make([]string, 0, len(uc.cfg.Models))
	for name := range uc.cfg.Models {
		allowed = append(allowed, name)
	}
	sort.Strings(allowed)

	return model.ModelSelection{
		OwnerID:           ownerID,
		Model:             uc.cfg.DefaultModel,
		AllowedModels:     allowed,
		PromptTemplate:    uc.cfg.DefaultPrompt,
		TimeWindowMinutes: uc.cfg.Models[uc.cfg.DefaultModel].TimeWindowMinutes,
	}
}

// loadSelection returns the stored selection, or the default one when the
// owner has none or is a guest. A selection naming a model that is no longer
// configured falls back to the default model.
func (uc *implUseCase) loadSelection(ctx context.Context, sc model.Scope) (model.ModelSelection, error) {
	if sc.Guest {
		return uc.defaultSelection(sc.UserID), nil
	}

	sel, err := uc.repo.GetSelection(ctx, sc.UserID)
	if errors.Is(err, repository.ErrSelectionNotFound) {
		return uc.defaultSelection(sc.UserID), nil
	}
	if err != nil {
		return model.ModelSelection{}, pkgErrors.NewUnhandled("selection_store", "failed to load model selection", err)
	}
	if _, ok := uc.cfg.Models[sel.Model]; !ok {
		uc.l.Warnf(ctx, "conversation.usecase.loadSelection: owner=%d has unknown model %q, using %s", sc.UserID, sel.Model, uc.cfg.DefaultModel)
		sel.Model = uc.cfg.DefaultModel
	}
	return sel, nil
}

func (uc *implUseCase) CurrentModel(ctx context.Context, sc model.Scope) (model.ModelSelection, error) {
	return uc.loadSelection(ctx, sc)
}

func (uc *implUseCase) SelectModel(ctx context.Context, sc model.Scope, name string) (model.ModelSelection, error) {
	sel, err := uc.loadSelection(ctx, sc)
	if err != nil {
		return model.ModelSelection{}, err
	}

	spec, ok := uc.cfg.Models[name]
	if !ok || !sel.Allows(name) {
		return model.ModelSelection{}, pkgErrors.NewValidation(conversation.CodeModelNotAllowed, name, conversation.ErrModelNotAllowed)
	}

	sel.Model = name
	sel.TimeWindowMinutes = spec.TimeWindowMinutes
	if sc.Guest {
		return sel, nil
	}
	if err := uc.repo.SaveSelection(ctx, sel); err != nil {
		return model.ModelSelection{}, pkgErrors.NewUnhandled("selection_store", "failed to save model selection", err)
	}

	uc.l.Infof(ctx, "conversation.usecase.SelectModel: owner=%d model=%s", sc.UserID, name)
	return sel, nil
}

func (uc *implUseCase) ResetSession(ctx context.Context, sc model.Scope) error {
	if sc.Guest {
		return nil
	}
	sel, err := uc.loadSelection(ctx, sc)
	if err != nil {
		return err
	}

	now := uc.now().UTC()
	sel.SessionStart = &now
	if err := uc.repo.SaveSelection(ctx, sel); err != nil {
		return pkgErrors.NewUnhandled("selection_store", "failed to reset session", err)
	}

	uc.l.Infof(ctx, "conversation.usecase.ResetSession: owner=%d", sc.UserID)
	return nil
}
