package store

import (
	"context"

	"github.com/platoro/foodgram/internal/model"
)

type Store interface {
	UserStore
	IngredientStore
	RecipeStore
	RelationStore
	ShortLinkStore
	Transaction(ctx context.Context, f func(tx Store) error) error
	Migrate() error
}

type UserStore interface {
	// CreateUser creates a new user.
	CreateUser(ctx context.Context, user *model.User) error
	// GetUser retrieves a user by ID.
	GetUser(ctx context.Context, id string) (*model.User, error)
	// GetUserByEmail retrieves a user by email.
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	// ListUsers retrieves a page of users with the total count.
	ListUsers(ctx context.Context, offset, limit int) ([]*model.User, int64, error)
	// UpdateUser updates a user.
	UpdateUser(ctx context.Context, user *model.User) error
}

type IngredientStore interface {
	// CreateIngredients inserts ingredient reference data.
	CreateIngredients(ctx context.Context, ingredients []*model.Ingredient) error
	// GetIngredient retrieves an ingredient by ID.
	GetIngredient(ctx context.Context, id string) (*model.Ingredient, error)
	// ListIngredients retrieves ingredients whose name contains the given
	// substring; an empty substring matches everything.
	ListIngredients(ctx context.Context, name string) ([]*model.Ingredient, error)
	// ListIngredientsFromIDs retrieves ingredients by IDs.
	ListIngredientsFromIDs(ctx context.Context, ids []string) ([]*model.Ingredient, error)
}

// RecipeFilter narrows ListRecipes. Empty fields are skipped.
type RecipeFilter struct {
	AuthorID    string
	FavoritedBy string
	InCartOf    string
	Offset      int
	Limit       int
}

type RecipeStore interface {
	// CreateRecipe creates a recipe together with its line items.
	CreateRecipe(ctx context.Context, recipe *model.Recipe) error
	// GetRecipe retrieves a recipe with its author and resolved line items.
	GetRecipe(ctx context.Context, id string) (*model.Recipe, error)
	// ListRecipes retrieves a filtered page of recipes, newest first, with
	// the total count before paging.
	ListRecipes(ctx context.Context, filter RecipeFilter) ([]*model.Recipe, int64, error)
	// ListRecipesByAuthor retrieves all recipes of an author, newest first.
	ListRecipesByAuthor(ctx context.Context, authorID string) ([]*model.Recipe, error)
	// CountRecipesByAuthor counts an author's recipes.
	CountRecipesByAuthor(ctx context.Context, authorID string) (int64, error)
	// UpdateRecipe updates a recipe's own columns.
	UpdateRecipe(ctx context.Context, recipe *model.Recipe) error
	// DeleteRecipe deletes a recipe and, via cascade, its line items and
	// relations.
	DeleteRecipe(ctx context.Context, id string) error
	// ReplaceRecipeIngredients deletes every line item of the recipe and
	// inserts the given set. Callers wrap it in Transaction.
	ReplaceRecipeIngredients(ctx context.Context, recipeID string, items []model.RecipeIngredient) error
	// ListCartRecipes retrieves the recipes in a user's shopping cart in the
	// order they were added, line items resolved.
	ListCartRecipes(ctx context.Context, userID string) ([]*model.Recipe, error)
}

type RelationStore interface {
	CreateFavorite(ctx context.Context, fav *model.Favorite) error
	DeleteFavorite(ctx context.Context, userID, recipeID string) (int64, error)
	HasFavorite(ctx context.Context, userID, recipeID string) (bool, error)

	CreateCartItem(ctx context.Context, item *model.CartItem) error
	DeleteCartItem(ctx context.Context, userID, recipeID string) (int64, error)
	HasCartItem(ctx context.Context, userID, recipeID string) (bool, error)

	CreateSubscription(ctx context.Context, sub *model.Subscription) error
	DeleteSubscription(ctx context.Context, subscriberID, authorID string) (int64, error)
	HasSubscription(ctx context.Context, subscriberID, authorID string) (bool, error)
	// ListSubscriptions retrieves a user's subscriptions with authors
	// resolved, oldest first.
	ListSubscriptions(ctx context.Context, subscriberID string) ([]*model.Subscription, error)
}

type ShortLinkStore interface {
	// CreateShortLink stores a freshly minted token binding.
	CreateShortLink(ctx context.Context, link *model.ShortLink) error
	// GetShortLink resolves a token to its binding.
	GetShortLink(ctx context.Context, token string) (*model.ShortLink, error)
}
