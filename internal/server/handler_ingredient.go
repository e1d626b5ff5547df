package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/platoro/foodgram/internal/service"
)

type IngredientHandler struct {
	ingredients *service.IngredientService
}

func NewIngredientHandler(ingredients *service.IngredientService) *IngredientHandler {
	return &IngredientHandler{ingredients: ingredients}
}

func (h *IngredientHandler) ListIngredients(c *gin.Context) {
	ingredients, err := h.ingredients.ListIngredients(c.Request.Context(), c.Query("name"))
	if err != nil {
		writeError(c, err)
		return
	}

	results := make([]ingredientDTO, 0, len(ingredients))
	for _, ingredient := range ingredients {
		results = append(results, toIngredientDTO(ingredient))
	}
	c.JSON(http.StatusOK, results)
}

func (h *IngredientHandler) GetIngredient(c *gin.Context) {
	ingredient, err := h.ingredients.GetIngredient(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toIngredientDTO(ingredient))
}
