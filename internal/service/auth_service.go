package service

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"diabeto/internal/auth"
	apperrors "diabeto/internal/errors"
	"diabeto/internal/metrics"
	"diabeto/internal/model"
	"diabeto/internal/repository"
)

// AuthService handles clinician registration and session lifecycle.
type AuthService interface {
	Register(ctx context.Context, username, email, password, confirmPassword string) (*model.Doctor, error)
	Login(ctx context.Context, username, password string) (token string, doctor *model.Doctor, err error)
	Logout(ctx context.Context, token string) error
}

type authService struct {
	doctorRepo   repository.DoctorRepository
	jwtService   *auth.JWTService
	sessionStore auth.SessionStoreInterface
}

// NewAuthService creates a new authentication service.
func NewAuthService(doctorRepo repository.DoctorRepository, jwtService *auth.JWTService, sessionStore auth.SessionStoreInterface) AuthService {
	return &authService{
		doctorRepo:   doctorRepo,
		jwtService:   jwtService,
		sessionStore: sessionStore,
	}
}

// Register creates a clinician account with a hashed password. The
// confirmation check happens before anything touches storage, and the insert
// is all-or-nothing: a uniqueness violation leaves no partial row behind.
func (s *authService) Register(ctx context.Context, username, email, password, confirmPassword string) (*model.Doctor, error) {
	if password != confirmPassword {
		return nil, apperrors.ErrPasswordMismatch
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	doctor := &model.Doctor{
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
	}

	if err := s.doctorRepo.Create(ctx, doctor); err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.ErrDuplicateDoctor
		}
		return nil, fmt.Errorf("create doctor: %w", err)
	}

	return doctor, nil
}

// Login authenticates a clinician and issues a session token. Unknown
// username and wrong password return the identical error so the response
// carries no oracle for which one it was.
func (s *authService) Login(ctx context.Context, username, password string) (string, *model.Doctor, error) {
	doctor, err := s.doctorRepo.FindByUsername(ctx, username)
	if err != nil {
		metrics.AuthFailuresTotal.WithLabelValues("login").Inc()
		return "", nil, apperrors.ErrInvalidCredentials
	}

	if !auth.CheckPassword(password, doctor.PasswordHash) {
		metrics.AuthFailuresTotal.WithLabelValues("login").Inc()
		return "", nil, apperrors.ErrInvalidCredentials
	}

	tokenID, token, err := s.jwtService.IssueSessionToken(doctor.ID, doctor.Username)
	if err != nil {
		return "", nil, fmt.Errorf("issue session token: %w", err)
	}

	if err := s.sessionStore.Put(ctx, tokenID, doctor.ID, auth.SessionExpiry); err != nil {
		return "", nil, fmt.Errorf("store session: %w", err)
	}

	return token, doctor, nil
}

// Logout revokes the session record behind the token. A token that no longer
// validates is treated as already logged out.
func (s *authService) Logout(ctx context.Context, token string) error {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return nil
	}
	return s.sessionStore.Delete(ctx, claims.ID)
}

// isUniqueViolation reports whether err is a unique constraint failure.
func isUniqueViolation(err error) bool {
	if err == gorm.ErrDuplicatedKey {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value violates unique constraint") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
