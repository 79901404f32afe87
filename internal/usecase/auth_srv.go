package usecase

import (
	"context"
	"crypto/subtle"
	"fmt"

	"facility-rental/internal/dto/request"
	"facility-rental/internal/dto/response"
	"facility-rental/pkg/utils"

	"go.uber.org/zap"
)

type AuthService interface {
	Login(ctx context.Context, req *request.LoginRequest) (*response.LoginResponse, error)
}

type authService struct {
	staff  utils.StaffConfig
	tokens *utils.TokenManager
	log    *zap.Logger
}

func NewAuthService(staff utils.StaffConfig, tokens *utils.TokenManager, log *zap.Logger) AuthService {
	return &authService{
		staff:  staff,
		tokens: tokens,
		log:    log.With(zap.String("service", "auth")),
	}
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.LoginResponse, error) {
	// 1. Validate
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Login validation failed", zap.Any("errors", errs))
		return nil, validationError(errs)
	}

	// 2. Check credentials
	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.staff.Username)) == 1
	passOK := s.staff.PasswordHash != "" && utils.CheckPassword(s.staff.PasswordHash, req.Password)
	if !userOK || !passOK {
		s.log.Warn("Invalid staff credentials", zap.String("username", req.Username))
		return nil, fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	}

	// 3. Issue token
	token, expiresAt, err := s.tokens.Generate(s.staff.Username)
	if err != nil {
		s.log.Error("Failed to sign token", zap.Error(err))
		return nil, fmt.Errorf("sign token: %w", err)
	}

	s.log.Info("Staff logged in", zap.String("username", s.staff.Username))
	return &response.LoginResponse{Token: token, ExpiresAt: expiresAt}, nil
}
