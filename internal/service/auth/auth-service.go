package auth

import (
	"BizDevCRM/entity"
	"BizDevCRM/internal/lib/sl"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type Repository interface {
	CreateUser(ctx context.Context, user *entity.User) error
	GetUserByID(ctx context.Context, id string) (*entity.User, error)
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
}

// Claims is the JWT payload.
type Claims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type Service struct {
	repository Repository
	secret     []byte
	ttl        time.Duration
	users      map[string]entity.User
	mu         sync.RWMutex
	log        *slog.Logger
}

func NewAuthService(secret string, ttl time.Duration, logger *slog.Logger) *Service {
	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
		users:  make(map[string]entity.User),
		log:    logger.With(sl.Module("auth-service")),
	}
}

func (s *Service) SetRepository(repository Repository) {
	s.repository = repository
}

func (s *Service) cacheUser(user *entity.User) {
	s.mu.Lock()
	s.users[user.ID] = *user
	s.mu.Unlock()
}

func (s *Service) cachedUser(id string) (*entity.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, false
	}
	return &user, true
}

// Forget drops a user from the cache, e.g. after a role change.
func (s *Service) Forget(id string) {
	s.mu.Lock()
	delete(s.users, id)
	s.mu.Unlock()
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// RegisterUser stores a new user with a hashed password.
func (s *Service) RegisterUser(ctx context.Context, req *entity.CreateUserRequest) (*entity.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	existing, err := s.repository.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, entity.NewValidationError("email", "user with this email already exists")
	}

	user := entity.NewUser(strings.TrimSpace(req.Name), email, req.Role)
	user.Phone = req.Phone
	user.PasswordHash, err = HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	if err = s.repository.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	s.cacheUser(user)
	s.log.With(
		slog.String("user", user.ID),
		slog.String("role", user.Role),
	).Info("user registered")
	return user, nil
}

// Login checks the credentials and issues a token.
func (s *Service) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	user, err := s.repository.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, "", err
	}
	if user == nil || !user.Active {
		return nil, "", entity.ErrInvalidCredential
	}
	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", entity.ErrInvalidCredential
	}

	token, err := s.IssueToken(user)
	if err != nil {
		return nil, "", err
	}
	s.cacheUser(user)
	return user, token, nil
}

func (s *Service) IssueToken(user *entity.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}

func (s *Service) ParseToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidCredential, err)
	}
	if !token.Valid || claims.UserID == "" {
		return nil, entity.ErrInvalidCredential
	}
	return claims, nil
}

// AuthenticateByToken resolves a bearer token to an active user.
func (s *Service) AuthenticateByToken(token string) (*entity.UserAuth, error) {
	claims, err := s.ParseToken(token)
	if err != nil {
		return nil, err
	}

	user, ok := s.cachedUser(claims.UserID)
	if !ok {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		user, err = s.repository.GetUserByID(ctx, claims.UserID)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, entity.ErrInvalidCredential
		}
		s.cacheUser(user)
	}
	if !user.Active {
		return nil, errors.New("user is disabled")
	}

	auth := user.Auth()
	auth.Token = token
	return auth, nil
}
