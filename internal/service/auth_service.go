package service

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"momentocake-admin/internal/model"
	"momentocake-admin/internal/repository"
	"momentocake-admin/internal/ws"
	"momentocake-admin/pkg/jwt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrSessionTimeout     = errors.New("session expired due to inactivity")
)

const inactivityWindow = 30 * time.Minute

type AuthService interface {
	Login(email, password string) (*LoginResponse, error)
	ResetPassword(email, oldPassword, newPassword string) error
	ValidateToken(tokenString string) (*TokenValidationResponse, error)
	Heartbeat(userID uuid.UUID) error
}

type LoginResponse struct {
	Token    string             `json:"token"`
	User     model.UserResponse `json:"user"`
	Features []model.Feature    `json:"features"` // flat list for route guards
}

type TokenValidationResponse struct {
	User     model.UserResponse `json:"user"`
	Features []model.Feature    `json:"features"`
}

type authService struct {
	userRepo repository.UserRepository
	wsHub    *ws.Hub
}

func NewAuthService(userRepo repository.UserRepository, hub *ws.Hub) AuthService {
	return &authService{
		userRepo: userRepo,
		wsHub:    hub,
	}
}

func (s *authService) Login(email, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}

	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	// Single session: rotating the token version invalidates older tokens
	user.TokenVersion = uuid.New().String()
	if err := s.userRepo.UpdateTokenVersion(user.ID, user.TokenVersion); err != nil {
		return nil, errors.New("failed to update session")
	}
	if err := s.userRepo.UpdateLastSeen(user.ID); err != nil {
		return nil, errors.New("failed to update session")
	}
	now := time.Now()
	user.LastSeenAt = &now

	token, err := jwt.GenerateToken(user.ID, user.Email, user.DisplayName, string(user.Role), user.TokenVersion)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &LoginResponse{
		Token:    token,
		User:     user.ToResponse(),
		Features: user.AccessibleFeatures(),
	}, nil
}

func (s *authService) ResetPassword(email, oldPassword, newPassword string) error {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return ErrUserNotFound
	}

	if !user.CheckPassword(oldPassword) {
		return ErrWrongPassword
	}

	if err := user.SetPassword(newPassword); err != nil {
		return errors.New("failed to hash new password")
	}

	return s.userRepo.UpdatePassword(user.ID, user.Password)
}

func (s *authService) ValidateToken(tokenString string) (*TokenValidationResponse, error) {
	claims, err := jwt.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}

	if user.TokenVersion != claims.TokenVersion {
		return nil, errors.New("session expired (logged in on another device)")
	}

	// LastSeenAt is set on login, so a nil value means the session predates
	// presence tracking; force a fresh login.
	if user.LastSeenAt == nil || time.Since(*user.LastSeenAt) > inactivityWindow {
		return nil, ErrSessionTimeout
	}

	return &TokenValidationResponse{
		User:     user.ToResponse(),
		Features: user.AccessibleFeatures(),
	}, nil
}

func (s *authService) Heartbeat(userID uuid.UUID) error {
	if err := s.userRepo.UpdateLastSeen(userID); err != nil {
		return err
	}

	go s.wsHub.BroadcastJSON(map[string]interface{}{
		"type":         "user_status_update",
		"user_id":      userID.String(),
		"status":       "online",
		"last_seen_at": time.Now(),
	})

	return nil
}
