package service

import (
	"context"
	"errors"

	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/domain"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/dto"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/logger"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/port"
	"github.com/Aletsou/hoodlum-mentality-backend/internal/core/serviceerrors"
)

const (
	userExistsMessage         = "User already exists"
	invalidCredentialsMessage = "Invalid email or password"
	tokenFailedMessage        = "Not authorized, token failed"
)

type UserService struct {
	userRepository port.UserPort
	tokens         port.TokenPort
}

func NewUserService(userRepository port.UserPort, tokens port.TokenPort) *UserService {
	return &UserService{
		userRepository: userRepository,
		tokens:         tokens,
	}
}

func (s *UserService) Register(ctx context.Context, request *dto.RegisterUserRequest) (*domain.User, string, error) {
	existing, err := s.userRepository.GetByEmail(ctx, domain.NormalizeEmail(request.Email))
	if err != nil && !serviceerrors.IsOfKind(err, serviceerrors.KindNotFound) {
		return nil, "", err
	}
	if existing != nil {
		return nil, "", serviceerrors.NewInvalidRequestError(userExistsMessage)
	}

	user, err := domain.NewUser(request.Name, request.Email, request.Password, false)
	if errors.Is(err, domain.ErrPasswordTooLong) {
		return nil, "", serviceerrors.NewInvalidRequestError(err.Error())
	}
	if err != nil {
		return nil, "", err
	}

	if err := s.userRepository.Create(ctx, user); err != nil {
		if serviceerrors.IsOfKind(err, serviceerrors.KindConflict) {
			return nil, "", serviceerrors.NewInvalidRequestError(userExistsMessage)
		}
		logger.Error(ctx, "user: create failed", err, map[string]any{"email": user.Email})
		return nil, "", err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}

	logger.Info(ctx, "User registered", map[string]any{"user_id": user.ID})
	return user, token, nil
}

func (s *UserService) Login(ctx context.Context, request *dto.LoginRequest) (*domain.User, string, error) {
	user, err := s.userRepository.GetByEmail(ctx, domain.NormalizeEmail(request.Email))
	if err != nil {
		if serviceerrors.IsOfKind(err, serviceerrors.KindNotFound) {
			return nil, "", serviceerrors.NewUnauthorizedError(invalidCredentialsMessage)
		}
		return nil, "", err
	}

	if !user.MatchPassword(request.Password) {
		logger.Warn(ctx, "user: login rejected", map[string]any{"user_id": user.ID})
		return nil, "", serviceerrors.NewUnauthorizedError(invalidCredentialsMessage)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *UserService) GetByID(ctx context.Context, id domain.ID) (*domain.User, error) {
	user, err := s.userRepository.GetByID(ctx, id)
	if err != nil {
		if serviceerrors.IsOfKind(err, serviceerrors.KindNotFound) || serviceerrors.IsOfKind(err, serviceerrors.KindInvalidRequest) {
			return nil, serviceerrors.NewNotFoundError("User not found")
		}
		return nil, err
	}
	return user, nil
}

// Authenticate resolves a bearer token into the caller it was issued to.
func (s *UserService) Authenticate(ctx context.Context, token string) (*domain.Caller, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, serviceerrors.NewUnauthorizedError(tokenFailedMessage)
	}

	user, err := s.userRepository.GetByID(ctx, userID)
	if err != nil {
		if serviceerrors.IsOfKind(err, serviceerrors.KindNotFound) || serviceerrors.IsOfKind(err, serviceerrors.KindInvalidRequest) {
			return nil, serviceerrors.NewUnauthorizedError(tokenFailedMessage)
		}
		return nil, err
	}

	return user.Caller(), nil
}

// EnsureAdmin makes sure an administrator account exists for the given email,
// creating it or promoting the existing user. The password of an existing
// account is left as is.
func (s *UserService) EnsureAdmin(ctx context.Context, name, email, password string) (*domain.User, error) {
	user, err := s.userRepository.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil && !serviceerrors.IsOfKind(err, serviceerrors.KindNotFound) {
		return nil, err
	}

	if user != nil {
		if user.IsAdmin {
			return user, nil
		}
		if err := s.userRepository.SetAdmin(ctx, user.ID, true); err != nil {
			return nil, err
		}
		user.IsAdmin = true
		logger.Info(ctx, "User promoted to admin", map[string]any{"user_id": user.ID})
		return user, nil
	}

	user, err = domain.NewUser(name, email, password, true)
	if err != nil {
		return nil, err
	}
	if err := s.userRepository.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Info(ctx, "Admin user created", map[string]any{"user_id": user.ID})
	return user, nil
}
