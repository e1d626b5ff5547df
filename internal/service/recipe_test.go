package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platoro/foodgram/internal/model"
	"github.com/platoro/foodgram/internal/store"
	"github.com/platoro/foodgram/internal/tester"
)

const testImage = "data:image/png;base64,ZmFrZQ=="

func newRecipeService() *RecipeService {
	return NewRecipeService(tester.Config(), store.NewGormStore(tester.TestDB()), tester.Blobs(), nil)
}

func newUserService() *UserService {
	return NewUserService(store.NewGormStore(tester.TestDB()), tester.Blobs())
}

func seedUser(t *testing.T, email, username string) *model.User {
	t.Helper()

	user, err := newUserService().Register(context.TODO(), RegisterInput{
		Email:     email,
		Username:  username,
		FirstName: "Test",
		LastName:  "User",
		Password:  "password123",
	})
	require.NoError(t, err)
	return user
}

func seedIngredient(t *testing.T, name, unit string) *model.Ingredient {
	t.Helper()

	ingredient := &model.Ingredient{Name: name, MeasurementUnit: unit}
	err := store.NewGormStore(tester.TestDB()).CreateIngredients(context.TODO(), []*model.Ingredient{ingredient})
	require.NoError(t, err)
	return ingredient
}

func seedRecipe(t *testing.T, svc *RecipeService, authorID, name string, items ...IngredientAmount) *model.Recipe {
	t.Helper()

	recipe, err := svc.CreateRecipe(context.TODO(), authorID, CreateRecipeInput{
		Name:               name,
		Text:               "cook it",
		CookingTimeMinutes: 30,
		Image:              testImage,
		Ingredients:        items,
	})
	require.NoError(t, err)
	return recipe
}

func TestRecipeService_CreateRecipe(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	svc := newRecipeService()
	author := seedUser(t, "author@example.com", "author")
	flour := seedIngredient(t, "flour", "g")
	egg := seedIngredient(t, "egg", "units")

	recipe, err := svc.CreateRecipe(context.TODO(), author.ID, CreateRecipeInput{
		Name:               "Pancakes",
		Text:               "mix and fry",
		CookingTimeMinutes: 20,
		Image:              testImage,
		Ingredients: []IngredientAmount{
			{IngredientID: flour.ID, Amount: 500},
			{IngredientID: egg.ID, Amount: 2},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Pancakes", recipe.Name)
	assert.Equal(t, author.ID, recipe.AuthorID)
	assert.NotEmpty(t, recipe.ImageURL)
	require.Len(t, recipe.Ingredients, 2)
	assert.Equal(t, "flour", recipe.Ingredients[0].Ingredient.Name)
	assert.Equal(t, 500, recipe.Ingredients[0].Amount)
	assert.Equal(t, 2, recipe.Ingredients[1].Amount)
}

func TestRecipeService_CreateRecipe_Anonymous(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	svc := newRecipeService()
	_, err := svc.CreateRecipe(context.TODO(), "", CreateRecipeInput{})
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestRecipeService_CreateRecipe_Validation(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	svc := newRecipeService()
	author := seedUser(t, "author@example.com", "author")
	flour := seedIngredient(t, "flour", "g")

	tests := []struct {
		name  string
		input CreateRecipeInput
	}{
		{
			name: "empty ingredient set",
			input: CreateRecipeInput{
				Name: "Bread", Text: "bake", CookingTimeMinutes: 60, Image: testImage,
			},
		},
		{
			name: "duplicate ingredient reference",
			input: CreateRecipeInput{
				Name: "Bread", Text: "bake", CookingTimeMinutes: 60, Image: testImage,
				Ingredients: []IngredientAmount{
					{IngredientID: flour.ID, Amount: 100},
					{IngredientID: flour.ID, Amount: 200},
				},
			},
		},
		{
			name: "amount out of range",
			input: CreateRecipeInput{
				Name: "Bread", Text: "bake", CookingTimeMinutes: 60, Image: testImage,
				Ingredients: []IngredientAmount{{IngredientID: flour.ID, Amount: 0}},
			},
		},
		{
			name: "cooking time out of range",
			input: CreateRecipeInput{
				Name: "Bread", Text: "bake", CookingTimeMinutes: 0, Image: testImage,
				Ingredients: []IngredientAmount{{IngredientID: flour.ID, Amount: 100}},
			},
		},
		{
			name: "unknown ingredient reference",
			input: CreateRecipeInput{
				Name: "Bread", Text: "bake", CookingTimeMinutes: 60, Image: testImage,
				Ingredients: []IngredientAmount{{IngredientID: "00000000-0000-0000-0000-000000000000", Amount: 100}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateRecipe(context.TODO(), author.ID, tt.input)
			var verr *ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestRecipeService_UpdateRecipe_AtomicReplacement(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	svc := newRecipeService()
	author := seedUser(t, "author@example.com", "author")
	flour := seedIngredient(t, "flour", "g")
	sugar := seedIngredient(t, "sugar", "g")

	recipe := seedRecipe(t, svc, author.ID, "Cake", IngredientAmount{IngredientID: flour.ID, Amount: 400})

	// a duplicate reference fails validation and leaves the stored set intact
	_, err := svc.UpdateRecipe(context.TODO(), author.ID, recipe.ID, UpdateRecipeInput{
		Name: "Cake", Text: "cook it", CookingTimeMinutes: 30,
		Ingredients: []IngredientAmount{
			{IngredientID: sugar.ID, Amount: 100},
			{IngredientID: sugar.ID, Amount: 200},
		},
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	unchanged, err := svc.GetRecipe(context.TODO(), recipe.ID)
	require.NoError(t, err)
	require.Len(t, unchanged.Ingredients, 1)
	assert.Equal(t, flour.ID, unchanged.Ingredients[0].IngredientID)
	assert.Equal(t, 400, unchanged.Ingredients[0].Amount)

	// a valid update swaps the whole set
	updated, err := svc.UpdateRecipe(context.TODO(), author.ID, recipe.ID, UpdateRecipeInput{
		Name: "Sweeter cake", Text: "cook it", CookingTimeMinutes: 45,
		Ingredients: []IngredientAmount{
			{IngredientID: sugar.ID, Amount: 150},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Sweeter cake", updated.Name)
	assert.Equal(t, 45, updated.CookingTimeMinutes)
	require.Len(t, updated.Ingredients, 1)
	assert.Equal(t, sugar.ID, updated.Ingredients[0].IngredientID)
}

func TestRecipeService_UpdateRecipe_Permissions(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	svc := newRecipeService()
	author := seedUser(t, "author@example.com", "author")
	intruder := seedUser(t, "intruder@example.com", "intruder")
	flour := seedIngredient(t, "flour", "g")

	recipe := seedRecipe(t, svc, author.ID, "Bread", IngredientAmount{IngredientID: flour.ID, Amount: 300})

	_, err := svc.UpdateRecipe(context.TODO(), intruder.ID, recipe.ID, UpdateRecipeInput{
		Name: "Stolen bread", Text: "cook it", CookingTimeMinutes: 30,
		Ingredients: []IngredientAmount{{IngredientID: flour.ID, Amount: 999}},
	})
	assert.ErrorIs(t, err, ErrPermissionDenied)

	unchanged, err := svc.GetRecipe(context.TODO(), recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bread", unchanged.Name)
	assert.Equal(t, 300, unchanged.Ingredients[0].Amount)

	err = svc.DeleteRecipe(context.TODO(), intruder.ID, recipe.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestRecipeService_DeleteRecipe(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	svc := newRecipeService()
	author := seedUser(t, "author@example.com", "author")
	flour := seedIngredient(t, "flour", "g")
	recipe := seedRecipe(t, svc, author.ID, "Bread", IngredientAmount{IngredientID: flour.ID, Amount: 300})

	require.NoError(t, svc.DeleteRecipe(context.TODO(), author.ID, recipe.ID))

	_, err := svc.GetRecipe(context.TODO(), recipe.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	var count int64
	tester.TestDB().Model(&model.RecipeIngredient{}).Where("recipe_id = ?", recipe.ID).Count(&count)
	assert.Zero(t, count)
}

func TestRecipeService_FavoriteToggle(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	svc := newRecipeService()
	author := seedUser(t, "author@example.com", "author")
	fan := seedUser(t, "fan@example.com", "fan")
	flour := seedIngredient(t, "flour", "g")
	recipe := seedRecipe(t, svc, author.ID, "Bread", IngredientAmount{IngredientID: flour.ID, Amount: 300})

	_, err := svc.Favorite(context.TODO(), fan.ID, recipe.ID)
	require.NoError(t, err)

	// second create must fail, and the relation count stays at one
	_, err = svc.Favorite(context.TODO(), fan.ID, recipe.ID)
	assert.ErrorIs(t, err, ErrConflict)

	var count int64
	tester.TestDB().Model(&model.Favorite{}).
		Where("user_id = ? AND recipe_id = ?", fan.ID, recipe.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	require.NoError(t, svc.Unfavorite(context.TODO(), fan.ID, recipe.ID))
	assert.ErrorIs(t, svc.Unfavorite(context.TODO(), fan.ID, recipe.ID), ErrConflict)

	_, err = svc.Favorite(context.TODO(), fan.ID, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Favorite(context.TODO(), "", recipe.ID)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestRecipeService_CartToggle(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	svc := newRecipeService()
	author := seedUser(t, "author@example.com", "author")
	flour := seedIngredient(t, "flour", "g")
	recipe := seedRecipe(t, svc, author.ID, "Bread", IngredientAmount{IngredientID: flour.ID, Amount: 300})

	_, err := svc.AddToCart(context.TODO(), author.ID, recipe.ID)
	require.NoError(t, err)

	_, err = svc.AddToCart(context.TODO(), author.ID, recipe.ID)
	assert.ErrorIs(t, err, ErrConflict)

	require.NoError(t, svc.RemoveFromCart(context.TODO(), author.ID, recipe.ID))
	assert.ErrorIs(t, svc.RemoveFromCart(context.TODO(), author.ID, recipe.ID), ErrConflict)
}

func TestRecipeService_ShoppingList(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	svc := newRecipeService()
	author := seedUser(t, "author@example.com", "author")
	flour := seedIngredient(t, "flour", "g")
	egg := seedIngredient(t, "egg", "units")
	sugar := seedIngredient(t, "sugar", "g")

	recipeA := seedRecipe(t, svc, author.ID, "Recipe A",
		IngredientAmount{IngredientID: flour.ID, Amount: 500},
		IngredientAmount{IngredientID: egg.ID, Amount: 2},
	)
	recipeB := seedRecipe(t, svc, author.ID, "Recipe B",
		IngredientAmount{IngredientID: flour.ID, Amount: 300},
		IngredientAmount{IngredientID: sugar.ID, Amount: 100},
	)

	_, err := svc.AddToCart(context.TODO(), author.ID, recipeA.ID)
	require.NoError(t, err)
	_, err = svc.AddToCart(context.TODO(), author.ID, recipeB.ID)
	require.NoError(t, err)

	want := []ShoppingListEntry{
		{Name: "flour", Unit: "g", Amount: 800},
		{Name: "egg", Unit: "units", Amount: 2},
		{Name: "sugar", Unit: "g", Amount: 100},
	}

	entries, err := svc.ShoppingList(context.TODO(), author.ID)
	require.NoError(t, err)
	assert.Equal(t, want, entries)

	// aggregating again yields the identical result
	again, err := svc.ShoppingList(context.TODO(), author.ID)
	require.NoError(t, err)
	assert.Equal(t, want, again)

	doc, err := svc.ShoppingListDocument(context.TODO(), author.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shopping list:\n\nflour - 800 g\negg - 2 units\nsugar - 100 g\n", doc)

	// removing recipe B lowers each affected group by its contribution
	require.NoError(t, svc.RemoveFromCart(context.TODO(), author.ID, recipeB.ID))
	entries, err = svc.ShoppingList(context.TODO(), author.ID)
	require.NoError(t, err)
	assert.Equal(t, []ShoppingListEntry{
		{Name: "flour", Unit: "g", Amount: 500},
		{Name: "egg", Unit: "units", Amount: 2},
	}, entries)

	require.NoError(t, svc.RemoveFromCart(context.TODO(), author.ID, recipeA.ID))
	entries, err = svc.ShoppingList(context.TODO(), author.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = svc.ShoppingList(context.TODO(), "")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestRecipeService_ShortLinks(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	svc := newRecipeService()
	author := seedUser(t, "author@example.com", "author")
	flour := seedIngredient(t, "flour", "g")
	recipe := seedRecipe(t, svc, author.ID, "Bread", IngredientAmount{IngredientID: flour.ID, Amount: 300})

	first, err := svc.MintShortLink(context.TODO(), recipe.ID)
	require.NoError(t, err)
	second, err := svc.MintShortLink(context.TODO(), recipe.ID)
	require.NoError(t, err)

	assert.Len(t, first, 8)
	assert.Len(t, second, 8)
	assert.NotEqual(t, first, second)

	for _, token := range []string{first, second} {
		recipeID, err := svc.ResolveShortLink(context.TODO(), token)
		require.NoError(t, err)
		assert.Equal(t, recipe.ID, recipeID)
	}

	_, err = svc.ResolveShortLink(context.TODO(), "missing1")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.MintShortLink(context.TODO(), "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecipeService_ListRecipes(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	svc := newRecipeService()
	author := seedUser(t, "author@example.com", "author")
	other := seedUser(t, "other@example.com", "other")
	flour := seedIngredient(t, "flour", "g")

	mine := seedRecipe(t, svc, author.ID, "Mine", IngredientAmount{IngredientID: flour.ID, Amount: 100})
	theirs := seedRecipe(t, svc, other.ID, "Theirs", IngredientAmount{IngredientID: flour.ID, Amount: 200})

	recipes, total, err := svc.ListRecipes(context.TODO(), "", ListRecipesInput{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, recipes, 2)

	recipes, total, err = svc.ListRecipes(context.TODO(), "", ListRecipesInput{AuthorID: author.ID, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, mine.ID, recipes[0].ID)

	_, err = svc.Favorite(context.TODO(), author.ID, theirs.ID)
	require.NoError(t, err)

	recipes, _, err = svc.ListRecipes(context.TODO(), author.ID, ListRecipesInput{FavoritedOnly: true, Limit: 10})
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	assert.Equal(t, theirs.ID, recipes[0].ID)

	// anonymous callers cannot use the relation filters
	recipes, _, err = svc.ListRecipes(context.TODO(), "", ListRecipesInput{FavoritedOnly: true, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, recipes, 2)
}
