package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/platoro/foodgram/internal/model"
	"github.com/platoro/foodgram/internal/service"
)

const (
	defaultPageSize = 8
	maxPageSize     = 100
)

type RecipeHandler struct {
	recipes *service.RecipeService
	users   *service.UserService
}

func NewRecipeHandler(recipes *service.RecipeService, users *service.UserService) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, users: users}
}

type recipeIngredientRequest struct {
	ID     string `json:"id" binding:"required"`
	Amount int    `json:"amount"`
}

type createRecipeRequest struct {
	Name        string                    `json:"name"`
	Text        string                    `json:"text"`
	CookingTime int                       `json:"cooking_time"`
	Image       string                    `json:"image"`
	Ingredients []recipeIngredientRequest `json:"ingredients"`
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req createRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.recipes.CreateRecipe(c.Request.Context(), actor(c), service.CreateRecipeInput{
		Name:               req.Name,
		Text:               req.Text,
		CookingTimeMinutes: req.CookingTime,
		Image:              req.Image,
		Ingredients:        toIngredientAmounts(req.Ingredients),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	dto, err := h.presentRecipe(c, recipe)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	var req createRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipe, err := h.recipes.UpdateRecipe(c.Request.Context(), actor(c), c.Param("id"), service.UpdateRecipeInput{
		Name:               req.Name,
		Text:               req.Text,
		CookingTimeMinutes: req.CookingTime,
		Image:              req.Image,
		Ingredients:        toIngredientAmounts(req.Ingredients),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	dto, err := h.presentRecipe(c, recipe)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	if err := h.recipes.DeleteRecipe(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	recipe, err := h.recipes.GetRecipe(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	dto, err := h.presentRecipe(c, recipe)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto)
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	page, limit := pageParams(c)

	recipes, total, err := h.recipes.ListRecipes(c.Request.Context(), actor(c), service.ListRecipesInput{
		AuthorID:      c.Query("author"),
		FavoritedOnly: c.Query("is_favorited") == "1",
		InCartOnly:    c.Query("is_in_shopping_cart") == "1",
		Offset:        (page - 1) * limit,
		Limit:         limit,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	results := make([]recipeDTO, 0, len(recipes))
	for _, recipe := range recipes {
		dto, err := h.presentRecipe(c, recipe)
		if err != nil {
			writeError(c, err)
			return
		}
		results = append(results, dto)
	}

	c.JSON(http.StatusOK, pageDTO[recipeDTO]{Count: total, Results: results})
}

func (h *RecipeHandler) Favorite(c *gin.Context) {
	recipe, err := h.recipes.Favorite(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toRecipeShortDTO(recipe))
}

func (h *RecipeHandler) Unfavorite(c *gin.Context) {
	if err := h.recipes.Unfavorite(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) AddToCart(c *gin.Context) {
	recipe, err := h.recipes.AddToCart(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toRecipeShortDTO(recipe))
}

func (h *RecipeHandler) RemoveFromCart(c *gin.Context) {
	if err := h.recipes.RemoveFromCart(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DownloadShoppingCart serves the aggregated shopping list as a plain-text
// attachment.
func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	doc, err := h.recipes.ShoppingListDocument(c.Request.Context(), actor(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="shopping_list.txt"`)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(doc))
}

func (h *RecipeHandler) GetLink(c *gin.Context) {
	token, err := h.recipes.MintShortLink(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"short-link": "/s/" + token})
}

// ResolveLink redirects a short token to the recipe's canonical location.
func (h *RecipeHandler) ResolveLink(c *gin.Context) {
	recipeID, err := h.recipes.ResolveShortLink(c.Request.Context(), c.Param("token"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/api/recipes/"+recipeID)
}

func (h *RecipeHandler) presentRecipe(c *gin.Context, recipe *model.Recipe) (recipeDTO, error) {
	ctx := c.Request.Context()
	actorID := actor(c)

	subscribed, err := h.users.IsSubscribed(ctx, actorID, recipe.AuthorID)
	if err != nil {
		return recipeDTO{}, err
	}
	favorited, err := h.recipes.IsFavorited(ctx, actorID, recipe.ID)
	if err != nil {
		return recipeDTO{}, err
	}
	inCart, err := h.recipes.IsInCart(ctx, actorID, recipe.ID)
	if err != nil {
		return recipeDTO{}, err
	}

	return toRecipeDTO(recipe, recipeFlags{
		authorSubscribed: subscribed,
		favorited:        favorited,
		inCart:           inCart,
	}), nil
}

func toIngredientAmounts(items []recipeIngredientRequest) []service.IngredientAmount {
	out := make([]service.IngredientAmount, 0, len(items))
	for _, item := range items {
		out = append(out, service.IngredientAmount{IngredientID: item.ID, Amount: item.Amount})
	}
	return out
}

func pageParams(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}
