package store

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/platoro/foodgram/internal/model"
)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db: db,
	}
}

var _ Store = (*GormStore)(nil)

type GormStore struct {
	db *gorm.DB
}

func (g *GormStore) CreateUser(ctx context.Context, user *model.User) error {
	return g.db.WithContext(ctx).Create(user).Error
}

func (g *GormStore) GetUser(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (g *GormStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	err := g.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (g *GormStore) ListUsers(ctx context.Context, offset, limit int) ([]*model.User, int64, error) {
	var users []*model.User
	var total int64

	if err := g.db.WithContext(ctx).Model(&model.User{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = -1
	}
	err := g.db.WithContext(ctx).Order("created_at asc").Offset(offset).Limit(limit).Find(&users).Error
	return users, total, err
}

func (g *GormStore) UpdateUser(ctx context.Context, user *model.User) error {
	return g.db.WithContext(ctx).Save(user).Error
}

func (g *GormStore) CreateIngredients(ctx context.Context, ingredients []*model.Ingredient) error {
	return g.db.WithContext(ctx).Create(ingredients).Error
}

func (g *GormStore) GetIngredient(ctx context.Context, id string) (*model.Ingredient, error) {
	var ingredient model.Ingredient
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&ingredient).Error
	if err != nil {
		return nil, err
	}
	return &ingredient, nil
}

func (g *GormStore) ListIngredients(ctx context.Context, name string) ([]*model.Ingredient, error) {
	var ingredients []*model.Ingredient
	q := g.db.WithContext(ctx).Order("name asc")
	if name != "" {
		q = q.Where("lower(name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}
	err := q.Find(&ingredients).Error
	return ingredients, err
}

func (g *GormStore) ListIngredientsFromIDs(ctx context.Context, ids []string) ([]*model.Ingredient, error) {
	var ingredients []*model.Ingredient
	err := g.db.WithContext(ctx).Where("id in (?)", ids).Find(&ingredients).Error
	return ingredients, err
}

func (g *GormStore) CreateRecipe(ctx context.Context, recipe *model.Recipe) error {
	return g.db.WithContext(ctx).Create(recipe).Error
}

func (g *GormStore) GetRecipe(ctx context.Context, id string) (*model.Recipe, error) {
	var recipe model.Recipe
	err := g.db.WithContext(ctx).
		Preload("Author").
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		Preload("Ingredients.Ingredient").
		Where("id = ?", id).
		First(&recipe).Error
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (g *GormStore) ListRecipes(ctx context.Context, filter RecipeFilter) ([]*model.Recipe, int64, error) {
	q := g.db.WithContext(ctx).Model(&model.Recipe{})

	if filter.AuthorID != "" {
		q = q.Where("recipes.author_id = ?", filter.AuthorID)
	}
	if filter.FavoritedBy != "" {
		q = q.Joins("JOIN favorites ON favorites.recipe_id = recipes.id AND favorites.user_id = ?", filter.FavoritedBy)
	}
	if filter.InCartOf != "" {
		q = q.Joins("JOIN cart_items ON cart_items.recipe_id = recipes.id AND cart_items.user_id = ?", filter.InCartOf)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = -1
	}

	var recipes []*model.Recipe
	err := q.
		Preload("Author").
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		Preload("Ingredients.Ingredient").
		Order("recipes.created_at desc").
		Offset(filter.Offset).Limit(limit).
		Find(&recipes).Error
	return recipes, total, err
}

func (g *GormStore) ListRecipesByAuthor(ctx context.Context, authorID string) ([]*model.Recipe, error) {
	var recipes []*model.Recipe
	err := g.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at desc").
		Find(&recipes).Error
	return recipes, err
}

func (g *GormStore) CountRecipesByAuthor(ctx context.Context, authorID string) (int64, error) {
	var count int64
	err := g.db.WithContext(ctx).Model(&model.Recipe{}).Where("author_id = ?", authorID).Count(&count).Error
	return count, err
}

func (g *GormStore) UpdateRecipe(ctx context.Context, recipe *model.Recipe) error {
	return g.db.WithContext(ctx).Omit("Author", "Ingredients").Save(recipe).Error
}

func (g *GormStore) DeleteRecipe(ctx context.Context, id string) error {
	// sqlite does not always enforce the declared cascades, so the dependent
	// rows are removed explicitly.
	if err := g.db.WithContext(ctx).Where("recipe_id = ?", id).Delete(&model.RecipeIngredient{}).Error; err != nil {
		return err
	}
	if err := g.db.WithContext(ctx).Where("recipe_id = ?", id).Delete(&model.Favorite{}).Error; err != nil {
		return err
	}
	if err := g.db.WithContext(ctx).Where("recipe_id = ?", id).Delete(&model.CartItem{}).Error; err != nil {
		return err
	}
	if err := g.db.WithContext(ctx).Where("recipe_id = ?", id).Delete(&model.ShortLink{}).Error; err != nil {
		return err
	}
	return g.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Recipe{}).Error
}

func (g *GormStore) ReplaceRecipeIngredients(ctx context.Context, recipeID string, items []model.RecipeIngredient) error {
	if err := g.db.WithContext(ctx).Where("recipe_id = ?", recipeID).Delete(&model.RecipeIngredient{}).Error; err != nil {
		return err
	}
	return g.db.WithContext(ctx).Create(&items).Error
}

func (g *GormStore) ListCartRecipes(ctx context.Context, userID string) ([]*model.Recipe, error) {
	var recipes []*model.Recipe
	err := g.db.WithContext(ctx).
		Joins("JOIN cart_items ON cart_items.recipe_id = recipes.id AND cart_items.user_id = ?", userID).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		Preload("Ingredients.Ingredient").
		Order("cart_items.created_at asc").
		Find(&recipes).Error
	return recipes, err
}

func (g *GormStore) CreateFavorite(ctx context.Context, fav *model.Favorite) error {
	return g.db.WithContext(ctx).Create(fav).Error
}

func (g *GormStore) DeleteFavorite(ctx context.Context, userID, recipeID string) (int64, error) {
	res := g.db.WithContext(ctx).Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(&model.Favorite{})
	return res.RowsAffected, res.Error
}

func (g *GormStore) HasFavorite(ctx context.Context, userID, recipeID string) (bool, error) {
	var count int64
	err := g.db.WithContext(ctx).Model(&model.Favorite{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).Count(&count).Error
	return count > 0, err
}

func (g *GormStore) CreateCartItem(ctx context.Context, item *model.CartItem) error {
	return g.db.WithContext(ctx).Create(item).Error
}

func (g *GormStore) DeleteCartItem(ctx context.Context, userID, recipeID string) (int64, error) {
	res := g.db.WithContext(ctx).Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(&model.CartItem{})
	return res.RowsAffected, res.Error
}

func (g *GormStore) HasCartItem(ctx context.Context, userID, recipeID string) (bool, error) {
	var count int64
	err := g.db.WithContext(ctx).Model(&model.CartItem{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).Count(&count).Error
	return count > 0, err
}

func (g *GormStore) CreateSubscription(ctx context.Context, sub *model.Subscription) error {
	return g.db.WithContext(ctx).Create(sub).Error
}

func (g *GormStore) DeleteSubscription(ctx context.Context, subscriberID, authorID string) (int64, error) {
	res := g.db.WithContext(ctx).
		Where("subscriber_id = ? AND author_id = ?", subscriberID, authorID).Delete(&model.Subscription{})
	return res.RowsAffected, res.Error
}

func (g *GormStore) HasSubscription(ctx context.Context, subscriberID, authorID string) (bool, error) {
	var count int64
	err := g.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("subscriber_id = ? AND author_id = ?", subscriberID, authorID).Count(&count).Error
	return count > 0, err
}

func (g *GormStore) ListSubscriptions(ctx context.Context, subscriberID string) ([]*model.Subscription, error) {
	var subs []*model.Subscription
	err := g.db.WithContext(ctx).
		Preload("Author").
		Where("subscriber_id = ?", subscriberID).
		Order("created_at asc").
		Find(&subs).Error
	return subs, err
}

func (g *GormStore) CreateShortLink(ctx context.Context, link *model.ShortLink) error {
	return g.db.WithContext(ctx).Create(link).Error
}

func (g *GormStore) GetShortLink(ctx context.Context, token string) (*model.ShortLink, error) {
	var link model.ShortLink
	err := g.db.WithContext(ctx).Where("token = ?", token).First(&link).Error
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (g *GormStore) Migrate() error {
	return model.Migrate(g.db)
}

func (g *GormStore) Transaction(ctx context.Context, f func(tx Store) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return f(&GormStore{db: tx})
	})
}
