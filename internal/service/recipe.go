package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/platoro/foodgram/internal/blob"
	"github.com/platoro/foodgram/internal/cache"
	"github.com/platoro/foodgram/internal/config"
	"github.com/platoro/foodgram/internal/model"
	"github.com/platoro/foodgram/internal/store"
)

// NewRecipeService creates a new RecipeService. links may be nil when no
// redis is configured; short links then resolve straight from the store.
func NewRecipeService(cfg *config.Config, store store.Store, blobs blob.Storage, links *cache.ShortLinkCache) *RecipeService {
	return &RecipeService{
		cfg:   cfg,
		store: store,
		blobs: blobs,
		links: links,
	}
}

// RecipeService owns recipe CRUD, the favorite and shopping-cart relations,
// shopping-list aggregation and short links.
type RecipeService struct {
	cfg   *config.Config
	store store.Store
	blobs blob.Storage
	links *cache.ShortLinkCache
}

// IngredientAmount is one incoming line item: an ingredient reference and a
// quantity.
type IngredientAmount struct {
	IngredientID string
	Amount       int
}

type CreateRecipeInput struct {
	Name               string
	Text               string
	CookingTimeMinutes int
	// Image is a base64 data URI payload.
	Image       string
	Ingredients []IngredientAmount
}

type UpdateRecipeInput struct {
	Name               string
	Text               string
	CookingTimeMinutes int
	// Image is optional on update; empty keeps the stored one.
	Image       string
	Ingredients []IngredientAmount
}

// ListRecipesInput narrows and pages the recipe listing. FavoritedOnly and
// InCartOnly are ignored for anonymous callers.
type ListRecipesInput struct {
	AuthorID      string
	FavoritedOnly bool
	InCartOnly    bool
	Offset        int
	Limit         int
}

// CreateRecipe validates the whole input, stores the image payload and writes
// the recipe with its line items in one transaction.
func (s *RecipeService) CreateRecipe(ctx context.Context, actorID string, in CreateRecipeInput) (*model.Recipe, error) {
	if actorID == "" {
		return nil, ErrUnauthenticated
	}

	if err := s.validateRecipeFields(in.Name, in.Text, in.CookingTimeMinutes); err != nil {
		return nil, err
	}
	if err := s.validateIngredientSet(ctx, in.Ingredients); err != nil {
		return nil, err
	}

	if in.Image == "" {
		return nil, validationErr("image", "required")
	}
	imageURL, err := s.saveImage(ctx, in.Image)
	if err != nil {
		return nil, err
	}

	recipe := &model.Recipe{
		AuthorID:           actorID,
		Name:               in.Name,
		Text:               in.Text,
		CookingTimeMinutes: in.CookingTimeMinutes,
		ImageURL:           imageURL,
		Ingredients:        lineItems("", in.Ingredients),
	}

	err = s.store.Transaction(ctx, func(tx store.Store) error {
		return tx.CreateRecipe(ctx, recipe)
	})
	if err != nil {
		return nil, err
	}

	return s.GetRecipe(ctx, recipe.ID)
}

// UpdateRecipe replaces the recipe's fields and its whole ingredient set.
// Only the author may update; validation runs in full before any write, and
// the delete-and-insert of line items happens in one transaction.
func (s *RecipeService) UpdateRecipe(ctx context.Context, actorID, recipeID string, in UpdateRecipeInput) (*model.Recipe, error) {
	if actorID == "" {
		return nil, ErrUnauthenticated
	}

	recipe, err := s.store.GetRecipe(ctx, recipeID)
	if err != nil {
		return nil, asNotFound(err)
	}
	if recipe.AuthorID != actorID {
		return nil, ErrPermissionDenied
	}

	if err := s.validateRecipeFields(in.Name, in.Text, in.CookingTimeMinutes); err != nil {
		return nil, err
	}
	if err := s.validateIngredientSet(ctx, in.Ingredients); err != nil {
		return nil, err
	}

	imageURL := recipe.ImageURL
	if in.Image != "" {
		imageURL, err = s.saveImage(ctx, in.Image)
		if err != nil {
			return nil, err
		}
	}

	recipe.Name = in.Name
	recipe.Text = in.Text
	recipe.CookingTimeMinutes = in.CookingTimeMinutes
	recipe.ImageURL = imageURL
	items := lineItems(recipeID, in.Ingredients)

	err = s.store.Transaction(ctx, func(tx store.Store) error {
		if err := tx.UpdateRecipe(ctx, recipe); err != nil {
			return err
		}
		return tx.ReplaceRecipeIngredients(ctx, recipeID, items)
	})
	if err != nil {
		return nil, err
	}

	return s.GetRecipe(ctx, recipeID)
}

func (s *RecipeService) DeleteRecipe(ctx context.Context, actorID, recipeID string) error {
	if actorID == "" {
		return ErrUnauthenticated
	}

	recipe, err := s.store.GetRecipe(ctx, recipeID)
	if err != nil {
		return asNotFound(err)
	}
	if recipe.AuthorID != actorID {
		return ErrPermissionDenied
	}

	return s.store.Transaction(ctx, func(tx store.Store) error {
		return tx.DeleteRecipe(ctx, recipeID)
	})
}

func (s *RecipeService) GetRecipe(ctx context.Context, recipeID string) (*model.Recipe, error) {
	recipe, err := s.store.GetRecipe(ctx, recipeID)
	if err != nil {
		return nil, asNotFound(err)
	}
	return recipe, nil
}

func (s *RecipeService) ListRecipes(ctx context.Context, actorID string, in ListRecipesInput) ([]*model.Recipe, int64, error) {
	filter := store.RecipeFilter{
		AuthorID: in.AuthorID,
		Offset:   in.Offset,
		Limit:    in.Limit,
	}
	if actorID != "" {
		if in.FavoritedOnly {
			filter.FavoritedBy = actorID
		}
		if in.InCartOnly {
			filter.InCartOf = actorID
		}
	}

	return s.store.ListRecipes(ctx, filter)
}

// Favorite puts the recipe into the actor's favorites. Favoriting an already
// favorited recipe is a conflict, not an idempotent success.
func (s *RecipeService) Favorite(ctx context.Context, actorID, recipeID string) (*model.Recipe, error) {
	recipe, err := s.relationTarget(ctx, actorID, recipeID)
	if err != nil {
		return nil, err
	}

	present, err := s.store.HasFavorite(ctx, actorID, recipeID)
	if err != nil {
		return nil, err
	}
	if present {
		return nil, conflictErr("recipe already favorited")
	}

	err = s.store.CreateFavorite(ctx, &model.Favorite{UserID: actorID, RecipeID: recipeID})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// lost a race with a concurrent request; same business outcome
		return nil, conflictErr("recipe already favorited")
	}
	if err != nil {
		return nil, err
	}

	return recipe, nil
}

func (s *RecipeService) Unfavorite(ctx context.Context, actorID, recipeID string) error {
	if _, err := s.relationTarget(ctx, actorID, recipeID); err != nil {
		return err
	}

	deleted, err := s.store.DeleteFavorite(ctx, actorID, recipeID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return conflictErr("recipe is not favorited")
	}
	return nil
}

// AddToCart puts the recipe into the actor's shopping cart.
func (s *RecipeService) AddToCart(ctx context.Context, actorID, recipeID string) (*model.Recipe, error) {
	recipe, err := s.relationTarget(ctx, actorID, recipeID)
	if err != nil {
		return nil, err
	}

	present, err := s.store.HasCartItem(ctx, actorID, recipeID)
	if err != nil {
		return nil, err
	}
	if present {
		return nil, conflictErr("recipe already in shopping cart")
	}

	err = s.store.CreateCartItem(ctx, &model.CartItem{UserID: actorID, RecipeID: recipeID})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, conflictErr("recipe already in shopping cart")
	}
	if err != nil {
		return nil, err
	}

	return recipe, nil
}

func (s *RecipeService) RemoveFromCart(ctx context.Context, actorID, recipeID string) error {
	if _, err := s.relationTarget(ctx, actorID, recipeID); err != nil {
		return err
	}

	deleted, err := s.store.DeleteCartItem(ctx, actorID, recipeID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return conflictErr("recipe is not in shopping cart")
	}
	return nil
}

// ShoppingList aggregates the actor's cart into consolidated (name, unit)
// groups. A read-only operation: aggregating twice yields the same result.
func (s *RecipeService) ShoppingList(ctx context.Context, actorID string) ([]ShoppingListEntry, error) {
	if actorID == "" {
		return nil, ErrUnauthenticated
	}

	recipes, err := s.store.ListCartRecipes(ctx, actorID)
	if err != nil {
		return nil, err
	}

	return AggregateShoppingList(recipes), nil
}

// ShoppingListDocument renders the actor's aggregated cart as the plain-text
// download.
func (s *RecipeService) ShoppingListDocument(ctx context.Context, actorID string) (string, error) {
	entries, err := s.ShoppingList(ctx, actorID)
	if err != nil {
		return "", err
	}
	return FormatShoppingList(entries), nil
}

// IsFavorited reports whether the actor has favorited the recipe. Always
// false for anonymous callers.
func (s *RecipeService) IsFavorited(ctx context.Context, actorID, recipeID string) (bool, error) {
	if actorID == "" {
		return false, nil
	}
	return s.store.HasFavorite(ctx, actorID, recipeID)
}

// IsInCart reports whether the recipe is in the actor's shopping cart.
func (s *RecipeService) IsInCart(ctx context.Context, actorID, recipeID string) (bool, error) {
	if actorID == "" {
		return false, nil
	}
	return s.store.HasCartItem(ctx, actorID, recipeID)
}

// MintShortLink mints a fresh token for the recipe. Every call creates a new
// binding; existing tokens are never reused.
func (s *RecipeService) MintShortLink(ctx context.Context, recipeID string) (string, error) {
	if _, err := s.store.GetRecipe(ctx, recipeID); err != nil {
		return "", asNotFound(err)
	}

	// the token space is large enough that a collision is a retry, not an
	// error
	for attempt := 0; attempt < 3; attempt++ {
		token, err := newShortToken()
		if err != nil {
			return "", err
		}

		err = s.store.CreateShortLink(ctx, &model.ShortLink{Token: token, RecipeID: recipeID})
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		if err != nil {
			return "", err
		}

		s.cacheShortLink(ctx, token, recipeID)
		return token, nil
	}

	return "", errors.New("could not mint a unique short link token")
}

// ResolveShortLink maps a token back to its recipe id, or ErrNotFound for an
// unknown token.
func (s *RecipeService) ResolveShortLink(ctx context.Context, token string) (string, error) {
	if s.links != nil {
		recipeID, err := s.links.Get(ctx, token)
		if err != nil {
			logrus.Warnf("short link cache read failed: %v", err)
		} else if recipeID != "" {
			return recipeID, nil
		}
	}

	link, err := s.store.GetShortLink(ctx, token)
	if err != nil {
		return "", asNotFound(err)
	}

	s.cacheShortLink(ctx, token, link.RecipeID)
	return link.RecipeID, nil
}

func (s *RecipeService) cacheShortLink(ctx context.Context, token, recipeID string) {
	if s.links == nil {
		return
	}
	if err := s.links.Set(ctx, token, recipeID); err != nil {
		logrus.Warnf("short link cache write failed: %v", err)
	}
}

// relationTarget resolves the recipe a relation toggle points at, rejecting
// anonymous actors first.
func (s *RecipeService) relationTarget(ctx context.Context, actorID, recipeID string) (*model.Recipe, error) {
	if actorID == "" {
		return nil, ErrUnauthenticated
	}

	recipe, err := s.store.GetRecipe(ctx, recipeID)
	if err != nil {
		return nil, asNotFound(err)
	}
	return recipe, nil
}

func (s *RecipeService) validateRecipeFields(name, text string, cookingTime int) error {
	if name == "" {
		return validationErr("name", "required")
	}
	if text == "" {
		return validationErr("text", "required")
	}
	if cookingTime < s.cfg.CookingTimeMin || cookingTime > s.cfg.CookingTimeMax {
		return validationErr("cooking_time", "out of range")
	}
	return nil
}

// validateIngredientSet checks the full incoming set before any write: it
// must be non-empty, free of duplicate references, within the amount bounds,
// and every reference must exist.
func (s *RecipeService) validateIngredientSet(ctx context.Context, items []IngredientAmount) error {
	if len(items) == 0 {
		return validationErr("ingredients", "at least one ingredient is required")
	}

	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if item.IngredientID == "" {
			return validationErr("ingredients", "missing ingredient id")
		}
		if _, dup := seen[item.IngredientID]; dup {
			return validationErr("ingredients", "duplicate ingredient "+item.IngredientID)
		}
		seen[item.IngredientID] = struct{}{}
		ids = append(ids, item.IngredientID)

		if item.Amount < s.cfg.AmountMin || item.Amount > s.cfg.AmountMax {
			return validationErr("ingredients", "amount out of range")
		}
	}

	known, err := s.store.ListIngredientsFromIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(known) != len(ids) {
		return validationErr("ingredients", "unknown ingredient reference")
	}

	return nil
}

func (s *RecipeService) saveImage(ctx context.Context, dataURI string) (string, error) {
	data, ext, err := blob.DecodeDataURI(dataURI)
	if err != nil {
		return "", validationErr("image", "expected a base64 data URI")
	}
	return s.blobs.Save(ctx, data, ext)
}

// lineItems builds the stored line items, preserving the incoming order.
func lineItems(recipeID string, items []IngredientAmount) []model.RecipeIngredient {
	out := make([]model.RecipeIngredient, 0, len(items))
	for i, item := range items {
		out = append(out, model.RecipeIngredient{
			RecipeID:     recipeID,
			IngredientID: item.IngredientID,
			Amount:       item.Amount,
			Position:     i,
		})
	}
	return out
}

func asNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
