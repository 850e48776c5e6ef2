package service

import (
	"context"
	"time"

	"slotswapper/core/cache"
	"slotswapper/core/config"
	"slotswapper/core/constants"
	"slotswapper/core/errors"
	"slotswapper/core/logger"
	"slotswapper/core/utils"
	"slotswapper/modules/auth/dto"
	"slotswapper/modules/auth/entity"
	"slotswapper/modules/auth/repository"

	"github.com/google/uuid"
)

type AuthServiceInterface interface {
	Signup(ctx context.Context, req *dto.SignupRequest) (*dto.AuthResponse, *errors.AppError)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, *errors.AppError)
	Logout(ctx context.Context, token string) *errors.AppError
	Me(ctx context.Context, userID uuid.UUID) (*entity.User, *errors.AppError)
	IsTokenBlacklisted(ctx context.Context, token string) (bool, error)
}

type AuthService struct {
	repo  repository.AuthRepositoryInterface
	cache cache.Cache
}

func NewAuthService(repo repository.AuthRepositoryInterface, c cache.Cache) *AuthService {
	return &AuthService{repo: repo, cache: c}
}

func (s *AuthService) Signup(ctx context.Context, req *dto.SignupRequest) (*dto.AuthResponse, *errors.AppError) {
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "name, email and password are required", nil)
	}

	existing, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		logger.Error("AuthService:Signup:GetUserByEmail", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create account", err)
	}
	if existing != nil {
		return nil, errors.NewAppError(errors.ErrAlreadyExists, "an account with this email already exists", nil)
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		logger.Error("AuthService:Signup:HashPassword", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create account", err)
	}

	user, err := s.repo.CreateUser(ctx, &entity.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: hashed,
		Slug:     utils.UniqueSlug(req.Name),
	})
	if err != nil {
		logger.Error("AuthService:Signup:CreateUser", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create account", err)
	}

	return s.issueToken(user)
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, *errors.AppError) {
	if req.Email == "" || req.Password == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "email and password are required", nil)
	}

	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		logger.Error("AuthService:Login:GetUserByEmail", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to log in", err)
	}
	if user == nil || !utils.ComparePassword(user.Password, req.Password) {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "incorrect email or password", nil)
	}

	return s.issueToken(user)
}

func (s *AuthService) issueToken(user *entity.User) (*dto.AuthResponse, *errors.AppError) {
	cfg, ok := config.GetSafe()
	if !ok {
		return nil, errors.NewAppError(errors.ErrInternalServer, "configuration not initialized", nil)
	}

	ttl := time.Duration(cfg.JWT.ExpireMinutes) * time.Minute
	token, err := utils.GenerateToken(user.ID, &user.Email, constants.TokenPurposeAccess, ttl)
	if err != nil {
		logger.Error("AuthService:IssueToken", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to issue token", err)
	}

	return &dto.AuthResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	}, nil
}

// Logout blacklists the presented token for its remaining lifetime, so it
// stops working immediately instead of at expiry.
func (s *AuthService) Logout(ctx context.Context, token string) *errors.AppError {
	claims, err := utils.ValidateAndParseToken(token)
	if err != nil {
		return errors.NewAppError(errors.ErrUnauthorized, "invalid token", err)
	}

	var ttl time.Duration
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}

	if err := s.cache.BlacklistToken(ctx, token, ttl); err != nil {
		logger.Error("AuthService:Logout:BlacklistToken", "error", err)
		return errors.NewAppError(errors.ErrInternalServer, "failed to log out", err)
	}
	return nil
}

func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*entity.User, *errors.AppError) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		logger.Error("AuthService:Me", "error", err)
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to load user", err)
	}
	if user == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "user not found", nil)
	}
	return user, nil
}

// IsTokenBlacklisted satisfies the auth middleware's TokenChecker.
func (s *AuthService) IsTokenBlacklisted(ctx context.Context, token string) (bool, error) {
	return s.cache.IsTokenBlacklisted(ctx, token)
}
