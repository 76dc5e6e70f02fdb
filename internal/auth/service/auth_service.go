package service

import (
	"context"
	"crypto/subtle"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"kuku/internal/auth/token"
	"kuku/internal/dto"
	apperrors "kuku/internal/errors"
)

type TokenIssuer interface {
	Issue(subject string, role string) (string, time.Time, error)
}

// Credentials is the single administrator account.
type Credentials struct {
	Username     string
	PasswordHash string
}

type AuthService struct {
	issuer TokenIssuer
	admin  Credentials
	logger *zap.Logger
}

func NewAuthService(issuer TokenIssuer, admin Credentials, logger *zap.Logger) *AuthService {
	return &AuthService{
		issuer: issuer,
		admin:  admin,
		logger: logger,
	}
}

func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	var details []apperrors.ValidationDetail
	if strings.TrimSpace(req.Username) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "username", Message: "username is required"})
	}
	if req.Password == "" {
		details = append(details, apperrors.ValidationDetail{Field: "password", Message: "password is required"})
	}
	if len(details) > 0 {
		return nil, apperrors.NewValidationError("validation failed", details...)
	}

	if s.admin.PasswordHash == "" {
		s.logger.Warn("login attempted but no admin password hash is configured")
		return nil, apperrors.NewAuthError("invalid credentials")
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.admin.Username)) == 1
	passErr := bcrypt.CompareHashAndPassword([]byte(s.admin.PasswordHash), []byte(req.Password))
	if !userOK || passErr != nil {
		s.logger.Warn("failed admin login", zap.String("username", req.Username))
		return nil, apperrors.NewAuthError("invalid credentials")
	}

	signed, expiresAt, err := s.issuer.Issue(s.admin.Username, token.RoleAdmin)
	if err != nil {
		s.logger.Error("failed to issue token", zap.Error(err))
		return nil, err
	}

	s.logger.Info("admin logged in", zap.String("username", s.admin.Username))

	return &dto.LoginResponse{Token: signed, ExpiresAt: expiresAt}, nil
}
