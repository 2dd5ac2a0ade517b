package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/GregMSThompson/finance-tracker/internal/dto"
	"github.com/GregMSThompson/finance-tracker/internal/errs"
	"github.com/GregMSThompson/finance-tracker/internal/models"
	"github.com/GregMSThompson/finance-tracker/pkg/logger"
)

const MinPasswordLength = 6

type userUSStore interface {
	Create(ctx context.Context, user *models.User) error
	Get(ctx context.Context, uid string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type passwordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) (bool, error)
}

type tokenIssuer interface {
	Issue(uid string) (string, error)
}

type userService struct {
	Store    userUSStore
	Hasher   passwordHasher
	Tokens   tokenIssuer
	clockNow func() time.Time
}

func NewUserService(store userUSStore, hasher passwordHasher, tokens tokenIssuer) *userService {
	return &userService{
		Store:    store,
		Hasher:   hasher,
		Tokens:   tokens,
		clockNow: time.Now,
	}
}

func (s *userService) Register(ctx context.Context, req dto.RegisterRequest) (dto.AuthResponse, error) {
	log := logger.FromContext(ctx)

	name := strings.TrimSpace(req.Name)
	email := strings.TrimSpace(req.Email)
	if name == "" || email == "" || req.Password == "" {
		return dto.AuthResponse{}, errs.NewValidationError("name, email and password are required")
	}
	if len(req.Password) < MinPasswordLength {
		return dto.AuthResponse{}, errs.NewValidationError(fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}

	hash, err := s.Hasher.Hash(req.Password)
	if err != nil {
		return dto.AuthResponse{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.clockNow().UTC()
	user := &models.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Store.Create(ctx, user); err != nil {
		log.Warn("failed to create user", "error", err)
		return dto.AuthResponse{}, err
	}

	token, err := s.Tokens.Issue(user.ID)
	if err != nil {
		return dto.AuthResponse{}, fmt.Errorf("issue token: %w", err)
	}

	log.Info("user registered", "uid", user.ID)
	return dto.AuthResponse{User: user, Token: token}, nil
}

// Login reports the same error for an unknown email and a wrong password.
func (s *userService) Login(ctx context.Context, req dto.LoginRequest) (dto.AuthResponse, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		return dto.AuthResponse{}, errs.NewValidationError("email and password are required")
	}

	user, err := s.Store.GetByEmail(ctx, email)
	if err != nil {
		var nf *errs.NotFoundError
		if errors.As(err, &nf) {
			return dto.AuthResponse{}, errs.NewUnauthorizedError("invalid credentials")
		}
		return dto.AuthResponse{}, err
	}

	ok, err := s.Hasher.Compare(user.PasswordHash, req.Password)
	if err != nil {
		return dto.AuthResponse{}, fmt.Errorf("compare password: %w", err)
	}
	if !ok {
		return dto.AuthResponse{}, errs.NewUnauthorizedError("invalid credentials")
	}

	token, err := s.Tokens.Issue(user.ID)
	if err != nil {
		return dto.AuthResponse{}, fmt.Errorf("issue token: %w", err)
	}

	logger.FromContext(ctx).Info("user logged in", "uid", user.ID)
	return dto.AuthResponse{User: user, Token: token}, nil
}

func (s *userService) Me(ctx context.Context, uid string) (*models.User, error) {
	return s.Store.Get(ctx, uid)
}
