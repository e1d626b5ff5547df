package server

import (
	"time"

	"github.com/platoro/foodgram/internal/model"
	"github.com/platoro/foodgram/internal/service"
)

// Typed response shapes, one per endpoint, each with a pure mapping from the
// stored entity. Request-scoped facts (is_subscribed, is_favorited,
// is_in_shopping_cart) are passed in explicitly.

type userDTO struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
	Avatar       string `json:"avatar,omitempty"`
}

func toUserDTO(u *model.User, isSubscribed bool) userDTO {
	return userDTO{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: isSubscribed,
		Avatar:       u.AvatarURL,
	}
}

type ingredientDTO struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
}

func toIngredientDTO(i *model.Ingredient) ingredientDTO {
	return ingredientDTO{
		ID:              i.ID,
		Name:            i.Name,
		MeasurementUnit: i.MeasurementUnit,
	}
}

// lineItemDTO is a resolved recipe line item: the referenced ingredient plus
// the amount.
type lineItemDTO struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

type recipeDTO struct {
	ID                string        `json:"id"`
	Author            userDTO       `json:"author"`
	Ingredients       []lineItemDTO `json:"ingredients"`
	IsFavorited       bool          `json:"is_favorited"`
	IsInShoppingCart  bool          `json:"is_in_shopping_cart"`
	Name              string        `json:"name"`
	Image             string        `json:"image"`
	Text              string        `json:"text"`
	CookingTime       int           `json:"cooking_time"`
	CreatedAt         time.Time     `json:"created_at"`
}

// recipeFlags carries the request-scoped relation state of one recipe.
type recipeFlags struct {
	authorSubscribed bool
	favorited        bool
	inCart           bool
}

func toRecipeDTO(r *model.Recipe, flags recipeFlags) recipeDTO {
	items := make([]lineItemDTO, 0, len(r.Ingredients))
	for _, item := range r.Ingredients {
		items = append(items, lineItemDTO{
			ID:              item.IngredientID,
			Name:            item.Ingredient.Name,
			MeasurementUnit: item.Ingredient.MeasurementUnit,
			Amount:          item.Amount,
		})
	}

	return recipeDTO{
		ID:               r.ID,
		Author:           toUserDTO(&r.Author, flags.authorSubscribed),
		Ingredients:      items,
		IsFavorited:      flags.favorited,
		IsInShoppingCart: flags.inCart,
		Name:             r.Name,
		Image:            r.ImageURL,
		Text:             r.Text,
		CookingTime:      r.CookingTimeMinutes,
		CreatedAt:        r.CreatedAt,
	}
}

// recipeShortDTO is the compact shape relation toggles and subscription
// listings respond with.
type recipeShortDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

func toRecipeShortDTO(r *model.Recipe) recipeShortDTO {
	return recipeShortDTO{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.ImageURL,
		CookingTime: r.CookingTimeMinutes,
	}
}

type subscribedAuthorDTO struct {
	userDTO
	Recipes      []recipeShortDTO `json:"recipes"`
	RecipesCount int64            `json:"recipes_count"`
}

func toSubscribedAuthorDTO(a *service.SubscribedAuthor) subscribedAuthorDTO {
	recipes := make([]recipeShortDTO, 0, len(a.Recipes))
	for _, r := range a.Recipes {
		recipes = append(recipes, toRecipeShortDTO(r))
	}

	return subscribedAuthorDTO{
		userDTO:      toUserDTO(a.Author, true),
		Recipes:      recipes,
		RecipesCount: a.RecipesCount,
	}
}

// pageDTO wraps paginated listings.
type pageDTO[T any] struct {
	Count   int64 `json:"count"`
	Results []T   `json:"results"`
}
