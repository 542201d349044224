package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"brewtab/helpers"
	"brewtab/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("email or password is incorrect")
	ErrEmailTaken         = errors.New("email already registered")
)

type UserStore interface {
	Insert(ctx context.Context, user *models.User) error
	ByID(ctx context.Context, userID string) (*models.User, error)
	ByEmail(ctx context.Context, email string) (*models.User, error)
}

type AuthService struct {
	users    UserStore
	configs  ConfigStore
	sessions *SessionBroker
	now      func() time.Time
}

func NewAuthService(users UserStore, configs ConfigStore, sessions *SessionBroker) *AuthService {
	return &AuthService{
		users:    users,
		configs:  configs,
		sessions: sessions,
		now:      time.Now,
	}
}

// SignInAnonymously mints a throwaway identity so a customer can order
// without an account. The uid still ends up on every order the session
// places, which is what lets the customer follow their own order status.
func (s *AuthService) SignInAnonymously(ctx context.Context) (*models.User, string, error) {
	now := s.now()
	user := &models.User{
		ID:           primitive.NewObjectID(),
		User_id:      uuid.NewString(),
		Is_anonymous: true,
		Created_at:   now,
		Updated_at:   now,
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, "", fmt.Errorf("create anonymous user: %w", err)
	}
	token, err := helpers.GenerateToken("", "", user.User_id, true)
	if err != nil {
		return nil, "", fmt.Errorf("sign anonymous token: %w", err)
	}
	s.publish(user)
	return user, token, nil
}

func (s *AuthService) SignUp(ctx context.Context, name, email, password string) (*models.User, string, error) {
	existing, err := s.users.ByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}
	hashedPassword := string(hashed)

	now := s.now()
	user := &models.User{
		ID:         primitive.NewObjectID(),
		User_id:    uuid.NewString(),
		Name:       &name,
		Email:      &email,
		Password:   &hashedPassword,
		Created_at: now,
		Updated_at: now,
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := helpers.GenerateToken(email, name, user.User_id, false)
	if err != nil {
		return nil, "", fmt.Errorf("sign token: %w", err)
	}
	s.publish(user)
	return user, token, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.users.ByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if user == nil || user.Password == nil {
		return nil, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	var name string
	if user.Name != nil {
		name = *user.Name
	}
	token, err := helpers.GenerateToken(email, name, user.User_id, false)
	if err != nil {
		return nil, "", fmt.Errorf("sign token: %w", err)
	}
	s.publish(user)
	return user, token, nil
}

func (s *AuthService) SignOut() {
	s.publish(nil)
}

func (s *AuthService) UserByID(ctx context.Context, userID string) (*models.User, error) {
	return s.users.ByID(ctx, userID)
}

// CheckAdminAuthorization reports whether user may manage the restaurant
// behind slug. Anonymous sessions are never admins; a missing restaurant
// authorizes nobody.
func (s *AuthService) CheckAdminAuthorization(ctx context.Context, user *models.User, slug string) (bool, error) {
	if user == nil || user.Is_anonymous || slug == "" {
		return false, nil
	}
	restaurant, err := s.configs.BySlug(ctx, slug)
	if err != nil {
		return false, err
	}
	if restaurant == nil {
		return false, nil
	}
	return restaurant.Owner_id == user.User_id, nil
}

func (s *AuthService) publish(user *models.User) {
	if s.sessions != nil {
		s.sessions.Publish(user)
	}
}
