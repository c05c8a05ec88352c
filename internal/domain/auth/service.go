package auth

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type jwtService interface {
	GenerateToken(userID int64, role string) (string, error)
}

// Service contains all business logic for authentication
type Service struct {
	users UserRepositoryInterface
	jwt   jwtService
}

func NewService(users UserRepositoryInterface, jwt jwtService) *Service {
	return &Service{users: users, jwt: jwt}
}

// Signup registers a farmer and opens a session right away.
func (s *Service) Signup(ctx context.Context, req SignupRequest) (*User, string, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	phone := strings.TrimSpace(req.Phone)

	if exists, err := s.users.ExistsByEmail(ctx, email); err != nil {
		return nil, "", err
	} else if exists {
		return nil, "", ErrEmailAlreadyExists
	}
	if exists, err := s.users.ExistsByPhone(ctx, phone); err != nil {
		return nil, "", err
	} else if exists {
		return nil, "", ErrPhoneAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		Phone:        phone,
		PasswordHash: string(hash),
		Role:         RoleFarmer,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.jwt.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Login authenticates by phone number and password.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*User, string, error) {
	user, err := s.users.GetByPhone(ctx, strings.TrimSpace(req.Phone))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

func (s *Service) GetCurrentUser(ctx context.Context, userID int64) (*User, error) {
	return s.users.GetByID(ctx, userID)
}
