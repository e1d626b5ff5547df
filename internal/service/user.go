package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/platoro/foodgram/internal/blob"
	"github.com/platoro/foodgram/internal/model"
	"github.com/platoro/foodgram/internal/store"
)

func NewUserService(store store.Store, blobs blob.Storage) *UserService {
	return &UserService{
		store: store,
		blobs: blobs,
	}
}

// UserService owns registration, credentials, avatars and the subscription
// relation.
type UserService struct {
	store store.Store
	blobs blob.Storage
}

type RegisterInput struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
	Password  string
}

// SubscribedAuthor is an author the caller follows, together with their
// recipes and recipe count.
type SubscribedAuthor struct {
	Author       *model.User
	Recipes      []*model.Recipe
	RecipesCount int64
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return nil, validationErr("email", "a valid email is required")
	}
	if in.Username == "" {
		return nil, validationErr("username", "required")
	}
	if len(in.Password) < 8 {
		return nil, validationErr("password", "at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:        in.Email,
		Username:     in.Username,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: string(hash),
	}

	err = s.store.CreateUser(ctx, user)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, conflictErr("email or username already taken")
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Authenticate checks the credentials and returns the matching user.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrUnauthenticated
	}

	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, asNotFound(err)
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context, offset, limit int) ([]*model.User, int64, error) {
	return s.store.ListUsers(ctx, offset, limit)
}

func (s *UserService) SetPassword(ctx context.Context, actorID, current, next string) error {
	if actorID == "" {
		return ErrUnauthenticated
	}
	if len(next) < 8 {
		return validationErr("new_password", "at least 8 characters")
	}

	user, err := s.store.GetUser(ctx, actorID)
	if err != nil {
		return asNotFound(err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return validationErr("current_password", "does not match")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hash)
	return s.store.UpdateUser(ctx, user)
}

// SetAvatar decodes the base64 payload, stores it and returns the new URL.
func (s *UserService) SetAvatar(ctx context.Context, actorID, dataURI string) (string, error) {
	if actorID == "" {
		return "", ErrUnauthenticated
	}

	user, err := s.store.GetUser(ctx, actorID)
	if err != nil {
		return "", asNotFound(err)
	}

	data, ext, err := blob.DecodeDataURI(dataURI)
	if err != nil {
		return "", validationErr("avatar", "expected a base64 data URI")
	}

	url, err := s.blobs.Save(ctx, data, ext)
	if err != nil {
		return "", err
	}

	user.AvatarURL = url
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return "", err
	}

	return url, nil
}

func (s *UserService) DeleteAvatar(ctx context.Context, actorID string) error {
	if actorID == "" {
		return ErrUnauthenticated
	}

	user, err := s.store.GetUser(ctx, actorID)
	if err != nil {
		return asNotFound(err)
	}
	if user.AvatarURL == "" {
		return ErrNotFound
	}

	if err := s.blobs.Delete(ctx, user.AvatarURL); err != nil {
		return err
	}

	user.AvatarURL = ""
	return s.store.UpdateUser(ctx, user)
}

// Subscribe follows an author. Self-subscription is rejected unconditionally;
// following an already followed author is a conflict.
func (s *UserService) Subscribe(ctx context.Context, actorID, authorID string) (*SubscribedAuthor, error) {
	if actorID == "" {
		return nil, ErrUnauthenticated
	}
	if actorID == authorID {
		return nil, conflictErr("cannot subscribe to yourself")
	}

	author, err := s.store.GetUser(ctx, authorID)
	if err != nil {
		return nil, asNotFound(err)
	}

	present, err := s.store.HasSubscription(ctx, actorID, authorID)
	if err != nil {
		return nil, err
	}
	if present {
		return nil, conflictErr("already subscribed")
	}

	err = s.store.CreateSubscription(ctx, &model.Subscription{SubscriberID: actorID, AuthorID: authorID})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, conflictErr("already subscribed")
	}
	if err != nil {
		return nil, err
	}

	return s.subscribedAuthor(ctx, author)
}

func (s *UserService) Unsubscribe(ctx context.Context, actorID, authorID string) error {
	if actorID == "" {
		return ErrUnauthenticated
	}

	if _, err := s.store.GetUser(ctx, authorID); err != nil {
		return asNotFound(err)
	}

	deleted, err := s.store.DeleteSubscription(ctx, actorID, authorID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return conflictErr("not subscribed")
	}
	return nil
}

// Subscriptions lists the authors the actor follows, oldest subscription
// first.
func (s *UserService) Subscriptions(ctx context.Context, actorID string) ([]*SubscribedAuthor, error) {
	if actorID == "" {
		return nil, ErrUnauthenticated
	}

	subs, err := s.store.ListSubscriptions(ctx, actorID)
	if err != nil {
		return nil, err
	}

	authors := make([]*SubscribedAuthor, 0, len(subs))
	for _, sub := range subs {
		author := sub.Author
		entry, err := s.subscribedAuthor(ctx, &author)
		if err != nil {
			return nil, err
		}
		authors = append(authors, entry)
	}

	return authors, nil
}

// IsSubscribed reports whether the actor follows the author. Always false
// for anonymous callers.
func (s *UserService) IsSubscribed(ctx context.Context, actorID, authorID string) (bool, error) {
	if actorID == "" {
		return false, nil
	}
	return s.store.HasSubscription(ctx, actorID, authorID)
}

func (s *UserService) subscribedAuthor(ctx context.Context, author *model.User) (*SubscribedAuthor, error) {
	recipes, err := s.store.ListRecipesByAuthor(ctx, author.ID)
	if err != nil {
		return nil, err
	}

	count, err := s.store.CountRecipesByAuthor(ctx, author.ID)
	if err != nil {
		return nil, err
	}

	return &SubscribedAuthor{Author: author, Recipes: recipes, RecipesCount: count}, nil
}
