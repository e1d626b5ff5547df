package service

import (
	"context"

	"github.com/platoro/foodgram/internal/model"
	"github.com/platoro/foodgram/internal/store"
)

func NewIngredientService(store store.Store) *IngredientService {
	return &IngredientService{store: store}
}

// IngredientService serves the ingredient reference data. Writes happen
// through the CLI import, not over HTTP.
type IngredientService struct {
	store store.Store
}

func (s *IngredientService) GetIngredient(ctx context.Context, id string) (*model.Ingredient, error) {
	ingredient, err := s.store.GetIngredient(ctx, id)
	if err != nil {
		return nil, asNotFound(err)
	}
	return ingredient, nil
}

// ListIngredients filters by a case-insensitive name substring; empty lists
// everything.
func (s *IngredientService) ListIngredients(ctx context.Context, name string) ([]*model.Ingredient, error) {
	return s.store.ListIngredients(ctx, name)
}

// ImportIngredients bulk-loads reference data, skipping entries whose
// (name, unit) pair is already present. Returns the number inserted.
func (s *IngredientService) ImportIngredients(ctx context.Context, ingredients []*model.Ingredient) (int, error) {
	existing, err := s.store.ListIngredients(ctx, "")
	if err != nil {
		return 0, err
	}

	type pair struct{ name, unit string }
	seen := make(map[pair]struct{}, len(existing))
	for _, ing := range existing {
		seen[pair{ing.Name, ing.MeasurementUnit}] = struct{}{}
	}

	fresh := make([]*model.Ingredient, 0, len(ingredients))
	for _, ing := range ingredients {
		if ing.Name == "" || ing.MeasurementUnit == "" {
			return 0, validationErr("ingredient", "name and measurement_unit are required")
		}
		key := pair{ing.Name, ing.MeasurementUnit}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		fresh = append(fresh, ing)
	}

	if len(fresh) == 0 {
		return 0, nil
	}

	if err := s.store.CreateIngredients(ctx, fresh); err != nil {
		return 0, err
	}
	return len(fresh), nil
}
