package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platoro/foodgram/internal/model"
	"github.com/platoro/foodgram/internal/tester"
)

func TestUserService_Register(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	svc := newUserService()

	user, err := svc.Register(context.TODO(), RegisterInput{
		Email:     "cook@example.com",
		Username:  "cook",
		FirstName: "Chef",
		LastName:  "Cook",
		Password:  "password123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "password123", user.PasswordHash)

	// same email again is a conflict
	_, err = svc.Register(context.TODO(), RegisterInput{
		Email:     "cook@example.com",
		Username:  "cook2",
		FirstName: "Chef",
		LastName:  "Cook",
		Password:  "password123",
	})
	assert.ErrorIs(t, err, ErrConflict)

	var verr *ValidationError
	_, err = svc.Register(context.TODO(), RegisterInput{Email: "not-an-email", Username: "x", Password: "password123"})
	assert.ErrorAs(t, err, &verr)

	_, err = svc.Register(context.TODO(), RegisterInput{Email: "a@b.c", Username: "x", Password: "short"})
	assert.ErrorAs(t, err, &verr)
}

func TestUserService_Authenticate(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	svc := newUserService()
	seedUser(t, "cook@example.com", "cook")

	user, err := svc.Authenticate(context.TODO(), "cook@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "cook", user.Username)

	_, err = svc.Authenticate(context.TODO(), "cook@example.com", "wrong")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = svc.Authenticate(context.TODO(), "ghost@example.com", "password123")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestUserService_SetPassword(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	svc := newUserService()
	user := seedUser(t, "cook@example.com", "cook")

	var verr *ValidationError
	err := svc.SetPassword(context.TODO(), user.ID, "wrong-current", "newpassword1")
	assert.ErrorAs(t, err, &verr)

	require.NoError(t, svc.SetPassword(context.TODO(), user.ID, "password123", "newpassword1"))

	_, err = svc.Authenticate(context.TODO(), "cook@example.com", "newpassword1")
	assert.NoError(t, err)
	_, err = svc.Authenticate(context.TODO(), "cook@example.com", "password123")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestUserService_Avatar(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	svc := newUserService()
	user := seedUser(t, "cook@example.com", "cook")

	// no avatar to delete yet
	assert.ErrorIs(t, svc.DeleteAvatar(context.TODO(), user.ID), ErrNotFound)

	url, err := svc.SetAvatar(context.TODO(), user.ID, testImage)
	require.NoError(t, err)
	assert.NotEmpty(t, url)

	var verr *ValidationError
	_, err = svc.SetAvatar(context.TODO(), user.ID, "not a data uri")
	assert.ErrorAs(t, err, &verr)

	require.NoError(t, svc.DeleteAvatar(context.TODO(), user.ID))

	reloaded, err := svc.GetUser(context.TODO(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, reloaded.AvatarURL)
}

func TestUserService_Subscribe(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	svc := newUserService()
	reader := seedUser(t, "reader@example.com", "reader")
	author := seedUser(t, "author@example.com", "author")

	// self-subscription fails regardless of state
	_, err := svc.Subscribe(context.TODO(), reader.ID, reader.ID)
	assert.ErrorIs(t, err, ErrConflict)

	sub, err := svc.Subscribe(context.TODO(), reader.ID, author.ID)
	require.NoError(t, err)
	assert.Equal(t, author.ID, sub.Author.ID)

	_, err = svc.Subscribe(context.TODO(), reader.ID, author.ID)
	assert.ErrorIs(t, err, ErrConflict)

	var count int64
	tester.TestDB().Model(&model.Subscription{}).
		Where("subscriber_id = ? AND author_id = ?", reader.ID, author.ID).Count(&count)
	assert.Equal(t, int64(1), count)

	subscribed, err := svc.IsSubscribed(context.TODO(), reader.ID, author.ID)
	require.NoError(t, err)
	assert.True(t, subscribed)

	require.NoError(t, svc.Unsubscribe(context.TODO(), reader.ID, author.ID))
	assert.ErrorIs(t, svc.Unsubscribe(context.TODO(), reader.ID, author.ID), ErrConflict)

	_, err = svc.Subscribe(context.TODO(), reader.ID, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Subscribe(context.TODO(), "", author.ID)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestUserService_Subscriptions(t *testing.T) {
	tester.RemoveDBFile()
	tester.Setup()

	users := newUserService()
	recipes := newRecipeService()

	reader := seedUser(t, "reader@example.com", "reader")
	author := seedUser(t, "author@example.com", "author")
	flour := seedIngredient(t, "flour", "g")
	seedRecipe(t, recipes, author.ID, "Bread", IngredientAmount{IngredientID: flour.ID, Amount: 300})
	seedRecipe(t, recipes, author.ID, "Buns", IngredientAmount{IngredientID: flour.ID, Amount: 200})

	_, err := users.Subscribe(context.TODO(), reader.ID, author.ID)
	require.NoError(t, err)

	subs, err := users.Subscriptions(context.TODO(), reader.ID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, author.ID, subs[0].Author.ID)
	assert.Equal(t, int64(2), subs[0].RecipesCount)
	assert.Len(t, subs[0].Recipes, 2)
}
